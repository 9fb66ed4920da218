// Config command prints the resolved configuration.
// Implements: prd009-configuration-directories R3.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Long: `Show prints the effective configuration after applying flag, config
file, and environment precedence.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

// resolvedConfig is the effective configuration after precedence is applied.
type resolvedConfig struct {
	ConfigDir string   `yaml:"config_dir" json:"config_dir"`
	DataDir   string   `yaml:"data_dir" json:"data_dir"`
	Backend   string   `yaml:"backend" json:"backend"`
	Roots     []string `yaml:"roots" json:"roots"`
	Include   []string `yaml:"include" json:"include"`
	Exclude   []string `yaml:"exclude" json:"exclude"`
}

func init() {
	configCmd.AddCommand(configShowCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	dataDir, err := resolveDataDir()
	if err != nil {
		return err
	}

	resolved := resolvedConfig{
		ConfigDir: configDir,
		DataDir:   dataDir,
		Backend:   defaultBackend,
		Roots:     configRoots,
		Include:   configInclude,
		Exclude:   configExclude,
	}

	if flagJSON {
		return printJSON(resolved)
	}

	out, err := yaml.Marshal(resolved)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}
