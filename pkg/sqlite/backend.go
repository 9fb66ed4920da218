// Package sqlite provides the public API for the SQLite index backend.
// This package exposes the factory function for creating SQLite backends
// while keeping implementation details internal.
//
// Implements: prd001-index-core R2, R4 (backend factory).
package sqlite

import (
	"github.com/mesh-intelligence/docref/internal/sqlite"
	"github.com/mesh-intelligence/docref/pkg/types"
)

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlite.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".docref-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Index {
	return sqlite.NewBackend()
}
