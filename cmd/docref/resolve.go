// Resolve command settles pending cross-references.
// Implements: prd008-docref-cli R5; prd006-reference-resolution R1.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docref/internal/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve pending cross-references",
	Long: `Resolve looks up every pending reference in the index using the
standard search order: current type, enclosing types, superclasses,
superinterfaces, then imports and the current package. References that
cannot be settled get an unresolved or ambiguous diagnostic.`,
	Args: cobra.NoArgs,
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	stats, err := resolve.New(backend, nil).Run()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(stats)
	}
	fmt.Printf("Resolved %d references (%d unresolved, %d ambiguous)\n",
		stats.Resolved, stats.Unresolved, stats.Ambiguous)
	return nil
}
