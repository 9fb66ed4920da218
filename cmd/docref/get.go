// Get command retrieves an entity by ID from a table.
// Implements: prd008-docref-cli R7 (Table.Get).
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docref/pkg/types"
)

var getCmd = &cobra.Command{
	Use:   "get <table> <id>",
	Short: "Get an entity by ID",
	Long: `Get retrieves an entity from the specified table by its ID.

Valid table names: packages, types, members, comments, imports, references, diagnostics

Example:
  docref get types 01890a5d-ac96-774b-bcce-b302099a8057`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	tableName, id := args[0], args[1]

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

	entity, err := table.Get(id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("entity %q not found in table %q: %w", id, tableName, err)
		}
		return fmt.Errorf("get entity: %w", err)
	}

	return printJSON(entity)
}
