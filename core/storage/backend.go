package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Kind tags a backend implementation.
type Kind string

const (
	// KindS3 is any S3-compatible object store (AWS S3, MinIO, Ceph RGW).
	KindS3 Kind = "s3"
	// KindOSS is Aliyun Object Storage Service.
	KindOSS Kind = "oss"
	// KindOBS is Huawei Object Storage Service.
	KindOBS Kind = "obs"
	// KindLocal is the server-local filesystem.
	KindLocal Kind = "local"
)

// IsObjectStore reports whether the kind is an external object store able to presign.
func (k Kind) IsObjectStore() bool {
	switch k {
	case KindS3, KindOSS, KindOBS:
		return true
	default:
		return false
	}
}

// Direction is the data flow a presigned URL authorizes.
type Direction string

const (
	// DirectionUpload grants a client PUT access to one object.
	DirectionUpload Direction = "upload"
	// DirectionDownload grants a client GET access to one object.
	DirectionDownload Direction = "download"
)

// Method returns the HTTP method the grant is signed for.
func (d Direction) Method() string {
	if d == DirectionUpload {
		return http.MethodPut
	}
	return http.MethodGet
}

// ParseDirection converts user input into a Direction. Empty input means download.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DirectionDownload):
		return DirectionDownload, nil
	case string(DirectionUpload):
		return DirectionUpload, nil
	default:
		return "", fmt.Errorf("unknown direction %q", s)
	}
}

// Backend is the capability set shared by every storage variant.
//
// Implementations translate SDK failures into *OpError so callers only ever
// see the taxonomy declared in errors.go.
type Backend interface {
	// Kind returns the variant tag.
	Kind() Kind
	// Name returns the configured name of this backend instance.
	Name() string
	// Exists reports whether an object is present at path. It has no side effects.
	Exists(ctx context.Context, path string) (bool, error)
	// Presign returns a time-limited URL for direct client access to path.
	Presign(ctx context.Context, path string, direction Direction, expires time.Duration) (string, error)
	// Put stores data at path. size may be -1 when unknown.
	Put(ctx context.Context, path string, data io.Reader, size int64) error
	// Get opens the object at path. The caller must close the reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Probe checks that the backend is reachable and its bucket is accessible.
	Probe(ctx context.Context) error
}

// Grant is a presigned URL together with the parameters it was minted for.
// It is never persisted.
type Grant struct {
	URL              string    `json:"url"`
	Direction        Direction `json:"direction"`
	ExpiresInSeconds int       `json:"expiresSeconds"`
	BackendKind      Kind      `json:"backendKind"`
	Filepath         string    `json:"filepath"`
}

// awaitCall runs fn and returns early with the context error once ctx is done.
// fn keeps running in the background until the SDK's own timeouts end it.
func awaitCall(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
