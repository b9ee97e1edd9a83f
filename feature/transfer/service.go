package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"transfer-relay/core/storage"
	"transfer-relay/feature/transfer/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service coordinates record bookkeeping with presigned issuance and local fallback.
type Service struct {
	store     Store
	resolver  Resolver
	issuer    *Issuer
	confirmer *Confirmer
	local     *LocalFallback
	logger    *zap.Logger
	cfg       Config
	now       func() time.Time
}

// NewService creates a transfer service. local may be nil.
func NewService(store Store, resolver Resolver, local *LocalFallback, logger *zap.Logger, cfg Config) *Service {
	return &Service{
		store:     store,
		resolver:  resolver,
		issuer:    NewIssuer(store, resolver, logger, cfg),
		confirmer: NewConfirmer(store, resolver, local, logger),
		local:     local,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// CreateRequest starts a transfer.
type CreateRequest struct {
	Filename       string         `json:"filename"`
	Asset          string         `json:"asset"`
	Account        string         `json:"account"`
	SessionID      string         `json:"sessionId"`
	Operate        models.Operate `json:"operate"`
	ExpiresSeconds int            `json:"expiresSeconds"`
	User           string         `json:"-"`
	RemoteAddr     string         `json:"-"`
}

// CreateResult carries both grants for a new transfer.
type CreateResult struct {
	UploadURL      string       `json:"uploadUrl"`
	DownloadURL    string       `json:"downloadUrl"`
	Filepath       string       `json:"filepath"`
	TransferID     string       `json:"transferId"`
	ExpiresSeconds int          `json:"expiresSeconds"`
	BackendKind    storage.Kind `json:"backendKind"`
}

// Create validates the request, resolves a backend, persists the record and
// issues upload and download URLs. If the upload URL cannot be issued the
// record is deleted before returning.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	req.Filename = strings.TrimSpace(req.Filename)
	if req.Filename == "" {
		return nil, fmt.Errorf("%w: filename is required", ErrValidation)
	}
	if req.Operate == "" {
		req.Operate = models.OperateUpload
	}
	if !req.Operate.Valid() {
		return nil, fmt.Errorf("%w: operate must be upload or download", ErrValidation)
	}
	expires, err := s.issuer.Expiry(req.ExpiresSeconds)
	if err != nil {
		return nil, err
	}

	backend, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	id := uuid.NewString()
	now := s.now().UTC()
	record := &models.TransferRecord{
		ID:         id,
		Operate:    req.Operate,
		User:       req.User,
		RemoteAddr: req.RemoteAddr,
		Asset:      req.Asset,
		Account:    req.Account,
		Session:    req.SessionID,
		Filename:   req.Filename,
		Filepath:   models.BuildFilepath(s.cfg.PathPrefix, now, id, req.Filename),
		HasFile:    false,
		DateStart:  now,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return nil, err
	}

	pair, err := s.issuer.IssuePair(ctx, backend, record, expires)
	if err != nil {
		// the request may already be cancelled; the orphan must go regardless
		if delErr := s.store.Delete(context.WithoutCancel(ctx), record.ID); delErr != nil {
			s.logger.Error("Failed to roll back transfer record",
				zap.String("transfer_id", record.ID),
				zap.Error(delErr))
			return nil, errors.Join(err, delErr)
		}
		rollbacksTotal.Inc()
		s.logger.Warn("Transfer record rolled back",
			zap.String("transfer_id", record.ID),
			zap.Error(err))
		return nil, err
	}

	result := &CreateResult{
		UploadURL:      pair.Upload.URL,
		Filepath:       record.Filepath,
		TransferID:     record.ID,
		ExpiresSeconds: pair.Upload.ExpiresInSeconds,
		BackendKind:    pair.Upload.BackendKind,
	}
	if pair.Download != nil {
		result.DownloadURL = pair.Download.URL
	}
	s.logger.Info("Generated presigned URLs for file transfer",
		zap.String("transfer_id", record.ID),
		zap.String("filename", record.Filename),
		zap.String("backend_kind", string(result.BackendKind)))
	return result, nil
}

// DownloadURLResult is a download grant for an existing transfer.
type DownloadURLResult struct {
	DownloadURL    string       `json:"downloadUrl"`
	Filepath       string       `json:"filepath"`
	Filename       string       `json:"filename"`
	ExpiresSeconds int          `json:"expiresSeconds"`
	BackendKind    storage.Kind `json:"backendKind"`
}

// DownloadURL issues a download grant for an existing record.
func (s *Service) DownloadURL(ctx context.Context, id string, expiresSeconds int) (*DownloadURLResult, error) {
	grant, record, err := s.issuer.Issue(ctx, id, storage.DirectionDownload, expiresSeconds)
	if err != nil {
		return nil, err
	}
	return &DownloadURLResult{
		DownloadURL:    grant.URL,
		Filepath:       grant.Filepath,
		Filename:       record.Filename,
		ExpiresSeconds: grant.ExpiresInSeconds,
		BackendKind:    grant.BackendKind,
	}, nil
}

// PresignedURL issues a single grant in the direction named by action.
func (s *Service) PresignedURL(ctx context.Context, id, action string, expiresSeconds int) (*storage.Grant, error) {
	direction, err := storage.ParseDirection(action)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	grant, _, err := s.issuer.Issue(ctx, id, direction, expiresSeconds)
	return grant, err
}

// Confirm records the client's completion claim.
func (s *Service) Confirm(ctx context.Context, id string, success bool) (*models.TransferRecord, ConfirmStatus, error) {
	return s.confirmer.Confirm(ctx, id, success)
}

// DownloadResult is either a redirect to the object store or a local file.
type DownloadResult struct {
	Record      *models.TransferRecord
	RedirectURL string
	File        *LocalFile
}

// Download prefers a presigned redirect when an object store holds the file
// and falls back to local storage otherwise.
func (s *Service) Download(ctx context.Context, id string) (*DownloadResult, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	l := s.logger.With(zap.String("transfer_id", record.ID), zap.String("filepath", record.Filepath))

	if url := s.objectStoreURL(ctx, l, record); url != "" {
		l.Info("Redirecting download to object storage")
		return &DownloadResult{Record: record, RedirectURL: url}, nil
	}

	l.Info("Using local storage download")
	if s.local == nil {
		return &DownloadResult{Record: record, File: &LocalFile{
			State:   LocalPathMissing,
			Message: "Local storage is not configured",
		}}, nil
	}
	file, err := s.local.Open(ctx, record)
	if err != nil {
		return nil, err
	}
	return &DownloadResult{Record: record, File: file}, nil
}

// objectStoreURL returns a download URL only when a backend is configured and
// the object is present there. Every failure means "use local storage".
func (s *Service) objectStoreURL(ctx context.Context, l *zap.Logger, record *models.TransferRecord) string {
	backend, err := s.resolver.Resolve(ctx)
	if err != nil {
		l.Debug("No external object storage configured")
		return ""
	}
	exists, err := backend.Exists(ctx, record.Filepath)
	if err != nil {
		l.Debug("Failed to check file existence", zap.Error(err))
		return ""
	}
	if !exists {
		l.Debug("File not found in object storage")
		return ""
	}
	grant, err := s.issuer.presign(ctx, backend, record.Filepath, storage.DirectionDownload, s.cfg.DefaultExpires())
	if err != nil {
		return ""
	}
	return grant.URL
}

// Upload stores a file sent through the server in local storage.
func (s *Service) Upload(ctx context.Context, id string, data io.Reader, size int64) (*models.TransferRecord, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.local == nil {
		return nil, fmt.Errorf("local storage is not configured")
	}
	if err := s.local.Save(ctx, record, data, size); err != nil {
		return nil, err
	}
	return record, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id string) (*models.TransferRecord, error) {
	return s.store.Get(ctx, id)
}

// List returns records matching filter and the total count.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]models.TransferRecord, int64, error) {
	return s.store.List(ctx, filter)
}
