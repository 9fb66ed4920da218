// Export command writes the full index as a JSON document.
// Implements: prd007-export-import R1.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagExportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the index as JSON",
	Long: `Export writes the entire index as a single JSON document to stdout,
or to a file with --output. The document can be re-imported with
docref import.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "write to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	out := os.Stdout
	if flagExportOutput != "" {
		f, err := os.Create(flagExportOutput)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if err := backend.Export(out); err != nil {
		return fmt.Errorf("export index: %w", err)
	}
	return nil
}
