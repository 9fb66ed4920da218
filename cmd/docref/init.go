// Init command creates the configuration and data directories.
// Implements: prd008-docref-cli R2; prd009-configuration-directories R4.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the configuration and data directories",
	Long: `Init creates the configuration directory with a default config.yaml
and an empty index in the data directory.

Both directories honor the global --config-dir and --data-dir flags.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	// PersistentPreRunE already created the config dir and default
	// config.yaml; attaching once creates the index skeleton.
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(map[string]string{
			"config_dir": configDir,
			"data_dir":   dataDir,
		})
	}
	fmt.Println("Config dir:", configDir)
	fmt.Println("Data dir:  ", dataDir)
	return nil
}
