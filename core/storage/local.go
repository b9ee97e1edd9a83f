package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalBackend stores objects on the server filesystem.
// It serves the fallback path and cannot presign.
type LocalBackend struct {
	basePath string
}

// NewLocal creates the base directory if needed.
func NewLocal(basePath string) (*LocalBackend, error) {
	if basePath == "" {
		basePath = "data/transfers"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &LocalBackend{basePath: basePath}, nil
}

func (l *LocalBackend) Kind() Kind   { return KindLocal }
func (l *LocalBackend) Name() string { return "local" }

// BasePath returns the root directory.
func (l *LocalBackend) BasePath() string { return l.basePath }

func (l *LocalBackend) Exists(ctx context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, opError(ErrExistenceCheckFailed, "exists", KindLocal, "", path, err)
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, opError(ErrExistenceCheckFailed, "exists", KindLocal, "", path, err)
	}
	return !info.IsDir(), nil
}

func (l *LocalBackend) Presign(ctx context.Context, path string, direction Direction, expires time.Duration) (string, error) {
	return "", opError(ErrPresignUnsupported, "presign "+string(direction), KindLocal, "", path, nil)
}

// Put writes through a temporary file so a failed write never leaves a partial object.
func (l *LocalBackend) Put(ctx context.Context, path string, data io.Reader, size int64) error {
	full, err := l.resolve(path)
	if err != nil {
		return opError(ErrTransferFailed, "put", KindLocal, "", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return opError(ErrTransferFailed, "put", KindLocal, "", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return opError(ErrTransferFailed, "put", KindLocal, "", path, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, readerWithContext(ctx, data)); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return opError(ErrTransferFailed, "put", KindLocal, "", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return opError(ErrTransferFailed, "put", KindLocal, "", path, err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return opError(ErrTransferFailed, "put", KindLocal, "", path, err)
	}
	return nil
}

func (l *LocalBackend) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, opError(ErrTransferFailed, "get", KindLocal, "", path, err)
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, opError(ErrObjectNotFound, "get", KindLocal, "", path, err)
		}
		return nil, opError(ErrTransferFailed, "get", KindLocal, "", path, err)
	}
	return f, nil
}

// Stat returns the size of a stored object.
func (l *LocalBackend) Stat(path string) (int64, error) {
	full, err := l.resolve(path)
	if err != nil {
		return 0, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (l *LocalBackend) Probe(ctx context.Context) error {
	info, err := os.Stat(l.basePath)
	if err != nil {
		return opError(ErrBackendUnavailable, "probe", KindLocal, "", "", err)
	}
	if !info.IsDir() {
		return opError(ErrBackendUnavailable, "probe", KindLocal, "", "", fmt.Errorf("%s is not a directory", l.basePath))
	}
	return nil
}

// resolve maps an object key below basePath and rejects keys escaping it.
func (l *LocalBackend) resolve(key string) (string, error) {
	cleaned := filepath.Clean("/" + filepath.FromSlash(key))
	full := filepath.Join(l.basePath, cleaned)
	base := filepath.Clean(l.basePath)
	if full != base && !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return full, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}
