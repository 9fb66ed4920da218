// Import command replaces the index with a previously exported JSON document.
// Implements: prd007-export-import R2.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import an index from JSON",
	Long: `Import replaces the entire index with the JSON document read from the
given file, or from stdin when no file is given. The document must have
been produced by docref export.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open import file: %w", err)
		}
		defer f.Close()
		in = f
	}

	if err := backend.Import(in); err != nil {
		return fmt.Errorf("import index: %w", err)
	}

	if flagJSON {
		return printJSON(map[string]string{"status": "imported"})
	}
	fmt.Println("Imported index")
	return nil
}
