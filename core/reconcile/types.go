package reconcile

import "time"

// Item is one database entity whose stored object is checked.
type Item struct {
	// Key is the unique identifier for the entity.
	Key string `json:"key"`

	// Name is the display name of the entity.
	Name string `json:"name"`

	// Path is the object key the entity's file is stored under.
	Path string `json:"path"`

	// Started is when the entity was created.
	Started time.Time `json:"started"`
}

// ReconcileResult is the outcome of checking a single entity against storage.
type ReconcileResult struct {
	Item

	// StoragePresent indicates whether the object exists in storage.
	StoragePresent bool `json:"storage_present"`

	// Location names where the object was looked up (a backend kind, e.g. "s3" or "local").
	Location string `json:"location"`

	// Error is set when the existence check itself failed.
	Error string `json:"error,omitempty"`
}

// Spec defines the configuration for a reconciliation operation.
type Spec struct {
	// Adapter provides model-specific reconciliation logic.
	Adapter Adapter

	// OlderThan skips entities younger than this, leaving in-flight uploads alone.
	OlderThan time.Duration

	// Limit caps how many entities one pass loads. Zero lets the adapter decide.
	Limit int

	// Workers bounds concurrent existence checks. Zero or less means 1.
	Workers int
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionMarkPresent records that the entity's object exists.
	ActionMarkPresent ActionType = "mark_present"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the entity identifier.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	// Results contains per-entity reconciliation data.
	Results []ReconcileResult `json:"results"`

	// Actions contains planned mutation operations.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// Scanned is the number of entities checked.
	Scanned int `json:"scanned"`

	// Present counts entities whose object exists.
	Present int `json:"present"`

	// Missing counts entities whose object was not found.
	Missing int `json:"missing"`

	// Errors counts entities whose check failed.
	Errors int `json:"errors"`

	// MarkActions counts planned mark_present actions.
	MarkActions int `json:"mark_actions"`
}

// ReconcileOptions controls whether planned actions run.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates the caller has confirmed the mutations.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}
