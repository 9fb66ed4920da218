// Shared helpers for docref CLI commands.
// Implements: prd008-docref-cli R3, R8.
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/docref/internal/sqlite"
	"github.com/mesh-intelligence/docref/pkg/types"
)

// validTableNamesStr is a comma-separated list of valid table names for
// error output.
var validTableNamesStr = strings.Join(types.StandardTableNames, ", ")

// attachBackend resolves the data directory, creates a SQLite backend, and
// attaches it. The caller must defer backend.Detach().
func attachBackend() (*sqlite.Backend, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
	}

	backend := sqlite.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach backend: %w", err)
	}

	return backend, nil
}

// parseFilterArgs parses key=value arguments into a Fetch filter. Values
// that parse as JSON keep their type; anything else is a string.
func parseFilterArgs(args []string) (map[string]any, error) {
	filter := make(map[string]any)
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid filter %q (expected key=value): %w", arg, types.ErrInvalidFilter)
		}
		var parsed any
		if err := json.Unmarshal([]byte(parts[1]), &parsed); err != nil {
			parsed = parts[1]
		}
		filter[parts[0]] = parsed
	}
	return filter, nil
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// scanRoots returns the source roots for scan and check: command-line
// arguments win over the config.yaml roots list.
func scanRoots(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(configRoots) > 0 {
		return configRoots, nil
	}
	return nil, fmt.Errorf("no source roots: pass them as arguments or set roots in config.yaml")
}
