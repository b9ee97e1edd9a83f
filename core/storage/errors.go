package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNoBackendConfigured means no enabled, reachable object store exists.
	ErrNoBackendConfigured = errors.New("no object storage configured")
	// ErrPresignGenerationFailed means the backend could not sign a URL.
	ErrPresignGenerationFailed = errors.New("presign generation failed")
	// ErrPresignUnsupported means the backend kind cannot issue presigned URLs.
	ErrPresignUnsupported = errors.New("presign not supported by backend")
	// ErrExistenceCheckFailed means the backend could not answer an existence query.
	ErrExistenceCheckFailed = errors.New("existence check failed")
	// ErrObjectNotFound means the object is absent.
	ErrObjectNotFound = errors.New("object not found")
	// ErrTransferFailed covers put/get failures.
	ErrTransferFailed = errors.New("object transfer failed")
	// ErrBackendUnavailable means a liveness probe failed.
	ErrBackendUnavailable = errors.New("backend unavailable")
	// ErrInvalidConfig means a backend configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid storage configuration")
)

// OpError is the only error shape a Backend returns.
// Code is one of the sentinels above and matches with errors.Is.
type OpError struct {
	Code    error
	Op      string
	Kind    Kind
	Backend string
	Path    string
	Err     error
}

func (e *OpError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Kind, e.Op)
	if e.Backend != "" {
		msg += " [" + e.Backend + "]"
	}
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Code.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is matches the taxonomy code.
func (e *OpError) Is(target error) bool {
	return target == e.Code
}

// Unwrap exposes the underlying cause for logging.
func (e *OpError) Unwrap() error {
	return e.Err
}

func opError(code error, op string, kind Kind, backend, path string, err error) *OpError {
	return &OpError{Code: code, Op: op, Kind: kind, Backend: backend, Path: path, Err: err}
}
