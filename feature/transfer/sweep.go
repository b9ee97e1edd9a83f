package transfer

import (
	"context"
	"errors"
	"time"

	"transfer-relay/core/reconcile"
	"transfer-relay/core/storage"
)

// SweepAdapter lets the reconcile engine find transfers that were uploaded
// directly to object storage but never confirmed.
type SweepAdapter struct {
	store    Store
	resolver Resolver
	local    *LocalFallback
}

// NewSweepAdapter creates the adapter. local may be nil.
func NewSweepAdapter(store Store, resolver Resolver, local *LocalFallback) *SweepAdapter {
	return &SweepAdapter{store: store, resolver: resolver, local: local}
}

func (a *SweepAdapter) Name() string {
	return "transfers"
}

func (a *SweepAdapter) LoadPending(ctx context.Context, olderThan time.Time, limit int) ([]reconcile.Item, error) {
	records, err := a.store.ListPending(ctx, olderThan, limit)
	if err != nil {
		return nil, err
	}
	items := make([]reconcile.Item, 0, len(records))
	for _, r := range records {
		items = append(items, reconcile.Item{
			Key:     r.ID,
			Name:    r.Filename,
			Path:    r.Filepath,
			Started: r.DateStart,
		})
	}
	return items, nil
}

// CheckStorage looks in the active object store, or local storage when none is configured.
func (a *SweepAdapter) CheckStorage(ctx context.Context, item reconcile.Item) (bool, string, error) {
	backend, err := a.resolver.Resolve(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoBackendConfigured) && a.local != nil {
			ok, err := a.local.backend.Exists(ctx, item.Path)
			return ok, string(storage.KindLocal), err
		}
		return false, "", err
	}
	ok, err := backend.Exists(ctx, item.Path)
	return ok, string(backend.Kind()), err
}

// MarkPresent sets has_file. is_success is left to the client's confirmation.
func (a *SweepAdapter) MarkPresent(ctx context.Context, key string) error {
	if err := a.store.MarkHasFile(ctx, key); err != nil {
		return err
	}
	sweptTotal.Inc()
	return nil
}
