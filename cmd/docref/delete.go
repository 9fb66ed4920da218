// Delete command removes an entity by ID from a table.
// Implements: prd008-docref-cli R7 (Table.Delete).
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docref/pkg/types"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <id>",
	Short: "Delete an entity by ID",
	Long: `Delete removes an entity from the specified table by its ID.

Valid table names: packages, types, members, comments, imports, references, diagnostics`,
	Args: cobra.ExactArgs(2),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
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

	if err := table.Delete(id); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return fmt.Errorf("entity %q not found in table %q: %w", id, tableName, err)
		}
		return fmt.Errorf("delete entity: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"deleted": id})
	}
	fmt.Printf("Deleted %s from %s\n", id, tableName)
	return nil
}
