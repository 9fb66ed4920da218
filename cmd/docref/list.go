// List command queries entities from a table with optional filtering.
// Implements: prd008-docref-cli R7 (Table.Fetch).
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docref/pkg/types"
)

var listCmd = &cobra.Command{
	Use:   "list <table> [filter...]",
	Short: "List entities with optional filter",
	Long: `List queries entities from the specified table with optional filters.

Filters are key=value pairs, ANDed together. An empty filter returns every
entity in the table. The limit and offset keys page the result.

Valid table names: packages, types, members, comments, imports, references, diagnostics

Example:
  docref list types package=java.util
  docref list references state=ambiguous
  docref list diagnostics rule=param-coverage limit=20`,
	Args: cobra.MinimumNArgs(1),
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	tableName := args[0]

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(tableName)
	if err != nil {
		if errors.Is(err, types.ErrTableNotFound) {
			return fmt.Errorf("unknown table %q (valid: %s): %w", tableName, validTableNamesStr, err)
		}
		return fmt.Errorf("get table: %w", err)
	}

	filter, err := parseFilterArgs(args[1:])
	if err != nil {
		return err
	}

	entities, err := table.Fetch(filter)
	if err != nil {
		return fmt.Errorf("fetch entities: %w", err)
	}

	return printJSON(entities)
}
