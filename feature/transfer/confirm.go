package transfer

import (
	"context"
	"errors"

	"transfer-relay/core/storage"
	"transfer-relay/feature/transfer/models"

	"go.uber.org/zap"
)

// ConfirmStatus is the outcome reported to the client.
type ConfirmStatus string

const (
	// StatusConfirmed means the object was seen in storage and the record is verified.
	StatusConfirmed ConfirmStatus = "confirmed"
	// StatusUpdated means only the client's claim was recorded.
	StatusUpdated ConfirmStatus = "updated"
)

// Confirmer reconciles a client's completion claim with storage state.
type Confirmer struct {
	store    Store
	resolver Resolver
	local    *LocalFallback
	logger   *zap.Logger
}

// NewConfirmer creates a confirmer. local may be nil when no fallback storage exists.
func NewConfirmer(store Store, resolver Resolver, local *LocalFallback, logger *zap.Logger) *Confirmer {
	return &Confirmer{store: store, resolver: resolver, local: local, logger: logger}
}

// Confirm records the outcome of a transfer.
//
// A positive claim upgrades has_file only after an existence check succeeds.
// When the check fails or the object is absent, is_success is stored as
// claimed and has_file is left untouched. A negative claim is stored as is.
func (c *Confirmer) Confirm(ctx context.Context, id string, claimedSuccess bool) (*models.TransferRecord, ConfirmStatus, error) {
	record, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	l := c.logger.With(zap.String("transfer_id", record.ID), zap.String("filepath", record.Filepath))

	if claimedSuccess {
		exists, err := c.exists(ctx, record)
		switch {
		case err != nil:
			l.Warn("Failed to verify file existence", zap.Error(err))
		case exists:
			if err := c.store.MarkVerified(ctx, record.ID); err != nil {
				return nil, "", err
			}
			verified := true
			record.HasFile = true
			record.IsSuccess = &verified
			confirmationsTotal.WithLabelValues(string(StatusConfirmed)).Inc()
			l.Info("File transfer confirmed", zap.String("filename", record.Filename))
			return record, StatusConfirmed, nil
		default:
			l.Info("Claimed upload not found in storage")
		}
	}

	if err := c.store.SetSuccess(ctx, record.ID, claimedSuccess); err != nil {
		return nil, "", err
	}
	record.IsSuccess = &claimedSuccess
	confirmationsTotal.WithLabelValues(string(StatusUpdated)).Inc()
	return record, StatusUpdated, nil
}

// exists asks the active object store, or local storage when none is configured.
func (c *Confirmer) exists(ctx context.Context, record *models.TransferRecord) (bool, error) {
	backend, err := c.resolver.Resolve(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNoBackendConfigured) && c.local != nil {
			return c.local.Exists(ctx, record)
		}
		return false, err
	}
	return backend.Exists(ctx, record.Filepath)
}
