package types

import "errors"

// Index defines the interface for backend-agnostic access to the API index.
// Callers attach to a backend, access tables by name, and detach when done.
// Implements prd001-index-core R2.
type Index interface {
	// GetTable returns the Table for the given name.
	// Returns ErrTableNotFound if the name is not a standard table.
	GetTable(name string) (Table, error)

	// Attach connects the Index to the backend described by config.
	// Creates the DataDir if it does not exist. Idempotent on first call;
	// returns ErrAlreadyAttached if called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations on tables return ErrIndexDetached.
	Detach() error
}

// Index lifecycle errors (prd001-index-core R7.1).
var (
	ErrIndexDetached   = errors.New("index is detached")
	ErrAlreadyAttached = errors.New("index is already attached")
	ErrTableNotFound   = errors.New("table not found")
)
