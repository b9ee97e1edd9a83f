package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"transfer-relay/core/storage"
	"transfer-relay/feature/transfer/models"

	"go.uber.org/zap"
)

// LocalState is the outcome of a local download lookup.
type LocalState int

const (
	// LocalPathOk means the file is present and can be streamed.
	LocalPathOk LocalState = iota
	// LocalPathMissing means no file exists at the record's path.
	LocalPathMissing
)

// LocalFile is an opened local download. Reader is nil unless State is LocalPathOk.
type LocalFile struct {
	State   LocalState
	Reader  io.ReadCloser
	Size    int64
	Message string
}

// LocalFallback serves and accepts transfer files on the server filesystem
// using the same filepath the object store would use.
type LocalFallback struct {
	backend *storage.LocalBackend
	store   Store
	logger  *zap.Logger
}

// NewLocalFallback creates the fallback over a local backend.
func NewLocalFallback(backend *storage.LocalBackend, store Store, logger *zap.Logger) *LocalFallback {
	return &LocalFallback{backend: backend, store: store, logger: logger}
}

// Exists reports whether the record's file is stored locally.
func (f *LocalFallback) Exists(ctx context.Context, record *models.TransferRecord) (bool, error) {
	return f.backend.Exists(ctx, record.Filepath)
}

// Open looks up the record's file. A missing file is a state, not an error.
func (f *LocalFallback) Open(ctx context.Context, record *models.TransferRecord) (*LocalFile, error) {
	rc, err := f.backend.Get(ctx, record.Filepath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			localTransfersTotal.WithLabelValues(string(storage.DirectionDownload), "missing").Inc()
			return &LocalFile{
				State:   LocalPathMissing,
				Message: fmt.Sprintf("File %q of transfer %s is not available in local storage", record.Filename, record.ID),
			}, nil
		}
		localTransfersTotal.WithLabelValues(string(storage.DirectionDownload), "error").Inc()
		return nil, err
	}
	size, err := f.backend.Stat(record.Filepath)
	if err != nil {
		size = -1
	}
	localTransfersTotal.WithLabelValues(string(storage.DirectionDownload), "ok").Inc()
	return &LocalFile{State: LocalPathOk, Reader: rc, Size: size}, nil
}

// Save writes the payload at the record's filepath and marks the record as
// having a file only after the write succeeded.
func (f *LocalFallback) Save(ctx context.Context, record *models.TransferRecord, data io.Reader, size int64) error {
	if err := f.backend.Put(ctx, record.Filepath, data, size); err != nil {
		localTransfersTotal.WithLabelValues(string(storage.DirectionUpload), "error").Inc()
		f.logger.Error("Failed to save file to local storage",
			zap.String("transfer_id", record.ID),
			zap.String("filepath", record.Filepath),
			zap.Error(err))
		return err
	}
	if err := f.store.MarkHasFile(ctx, record.ID); err != nil {
		return err
	}
	record.HasFile = true
	localTransfersTotal.WithLabelValues(string(storage.DirectionUpload), "ok").Inc()
	return nil
}

// ContentDisposition builds an attachment header with an RFC 5987 encoded filename.
func ContentDisposition(filename string) string {
	return "attachment; filename*=UTF-8''" + escapeFilename(filename)
}

// escapeFilename percent-encodes everything outside the RFC 5987 attr-char set.
func escapeFilename(name string) string {
	escaped := url.PathEscape(name)
	// PathEscape keeps these in a path segment but they are not attr-chars.
	return strings.NewReplacer(":", "%3A", "=", "%3D", "@", "%40").Replace(escaped)
}
