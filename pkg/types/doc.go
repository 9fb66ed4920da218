// Package types defines the Index and Table interfaces, entity types,
// and standard error types for the docref storage system.
// Implements: prd001-index-core (Config, Index, Table interfaces, error types);
//
//	docs/ARCHITECTURE § Main Interface, § System Components (Index API).
package types
