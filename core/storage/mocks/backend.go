package mocks

import (
	"context"
	"io"
	"time"

	"transfer-relay/core/storage"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of storage.Backend
type Backend struct {
	mock.Mock
}

func (m *Backend) Kind() storage.Kind {
	args := m.Called()
	return args.Get(0).(storage.Kind)
}

func (m *Backend) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *Backend) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *Backend) Presign(ctx context.Context, path string, direction storage.Direction, expires time.Duration) (string, error) {
	args := m.Called(ctx, path, direction, expires)
	return args.String(0), args.Error(1)
}

func (m *Backend) Put(ctx context.Context, path string, data io.Reader, size int64) error {
	args := m.Called(ctx, path, data, size)
	return args.Error(0)
}

func (m *Backend) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if rc, ok := args.Get(0).(io.ReadCloser); ok {
		return rc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) Probe(ctx context.Context) error {
	args := m.Called(ctx)
	if fn, ok := args.Get(0).(func(context.Context) error); ok {
		return fn(ctx)
	}
	return args.Error(0)
}
