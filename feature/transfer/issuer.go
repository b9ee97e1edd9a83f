package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"transfer-relay/core/storage"
	"transfer-relay/feature/transfer/models"

	"go.uber.org/zap"
)

// Resolver returns the active object store. *storage.Registry implements it.
type Resolver interface {
	Resolve(ctx context.Context) (storage.Backend, error)
}

// Issuer mints presigned URLs for transfer records.
type Issuer struct {
	store          Store
	resolver       Resolver
	logger         *zap.Logger
	defaultExpires time.Duration
	maxExpires     time.Duration
}

// NewIssuer creates an issuer.
func NewIssuer(store Store, resolver Resolver, logger *zap.Logger, cfg Config) *Issuer {
	return &Issuer{
		store:          store,
		resolver:       resolver,
		logger:         logger,
		defaultExpires: cfg.DefaultExpires(),
		maxExpires:     cfg.MaxExpires(),
	}
}

// Expiry turns a requested lifetime in seconds into a duration.
// Zero selects the default, negative is rejected and values above the
// maximum are clamped.
func (i *Issuer) Expiry(seconds int) (time.Duration, error) {
	switch {
	case seconds < 0:
		return 0, fmt.Errorf("%w: expiresSeconds must be positive", ErrValidation)
	case seconds == 0:
		return i.defaultExpires, nil
	}
	// compare in seconds; the multiplication overflows for huge inputs
	if int64(seconds) > int64(i.maxExpires/time.Second) {
		return i.maxExpires, nil
	}
	return time.Duration(seconds) * time.Second, nil
}

// Issue loads the record and presigns its filepath for one direction.
func (i *Issuer) Issue(ctx context.Context, id string, direction storage.Direction, expiresSeconds int) (*storage.Grant, *models.TransferRecord, error) {
	expires, err := i.Expiry(expiresSeconds)
	if err != nil {
		return nil, nil, err
	}
	record, err := i.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	backend, err := i.resolver.Resolve(ctx)
	if err != nil {
		return nil, record, err
	}
	grant, err := i.presign(ctx, backend, record.Filepath, direction, expires)
	if err != nil {
		return nil, record, err
	}
	return grant, record, nil
}

// Pair holds the grants produced for a freshly created transfer.
type Pair struct {
	Upload   *storage.Grant
	Download *storage.Grant
}

// IssuePair presigns upload and download URLs for the same path against one
// backend. Failing to produce the upload grant fails the pair. A download
// failure is logged and leaves Download nil because the client can request
// it again later.
func (i *Issuer) IssuePair(ctx context.Context, backend storage.Backend, record *models.TransferRecord, expires time.Duration) (*Pair, error) {
	upload, err := i.presign(ctx, backend, record.Filepath, storage.DirectionUpload, expires)
	if err != nil {
		return nil, err
	}
	download, err := i.presign(ctx, backend, record.Filepath, storage.DirectionDownload, expires)
	if err != nil {
		i.logger.Warn("Download URL generation failed",
			zap.String("transfer_id", record.ID),
			zap.String("filepath", record.Filepath),
			zap.Error(err))
		download = nil
	}
	return &Pair{Upload: upload, Download: download}, nil
}

// presign dispatches on the backend kind tag. Only object stores can sign.
func (i *Issuer) presign(ctx context.Context, backend storage.Backend, path string, direction storage.Direction, expires time.Duration) (*storage.Grant, error) {
	kind := backend.Kind()

	var (
		url string
		err error
	)
	switch kind {
	case storage.KindS3, storage.KindOSS, storage.KindOBS:
		url, err = backend.Presign(ctx, path, direction, expires)
		if err != nil && !errors.Is(err, storage.ErrPresignGenerationFailed) {
			err = &storage.OpError{
				Code:    storage.ErrPresignGenerationFailed,
				Op:      "presign " + string(direction),
				Kind:    kind,
				Backend: backend.Name(),
				Path:    path,
				Err:     err,
			}
		}
	default:
		err = &storage.OpError{
			Code:    storage.ErrPresignUnsupported,
			Op:      "presign " + string(direction),
			Kind:    kind,
			Backend: backend.Name(),
			Path:    path,
		}
	}
	if err != nil {
		grantsTotal.WithLabelValues(string(direction), string(kind), "error").Inc()
		i.logger.Error("Presigned URL generation failed",
			zap.String("backend", backend.Name()),
			zap.String("kind", string(kind)),
			zap.String("direction", string(direction)),
			zap.String("filepath", path),
			zap.Error(err))
		return nil, err
	}

	grantsTotal.WithLabelValues(string(direction), string(kind), "ok").Inc()
	return &storage.Grant{
		URL:              url,
		Direction:        direction,
		ExpiresInSeconds: int(expires / time.Second),
		BackendKind:      kind,
		Filepath:         path,
	}, nil
}
