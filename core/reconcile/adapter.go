package reconcile

import (
	"context"
	"time"
)

// Adapter defines the model-specific side of a reconciliation: which entities
// to check, how to look their objects up and how to record the outcome.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "transfers").
	Name() string

	// LoadPending returns entities created before olderThan whose object has
	// not been verified yet, oldest first.
	LoadPending(ctx context.Context, olderThan time.Time, limit int) ([]Item, error)

	// CheckStorage reports whether the entity's object exists and where it was looked up.
	CheckStorage(ctx context.Context, item Item) (present bool, location string, err error)
}

// Mutator is implemented by adapters that can apply planned actions.
type Mutator interface {
	// MarkPresent records that the entity's object exists.
	MarkPresent(ctx context.Context, key string) error
}
