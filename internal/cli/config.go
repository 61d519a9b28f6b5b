package cli

import (
	"fmt"

	"github.com/javanstorm/fusionctl/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration",
	Long: `Print the configuration fusionctl runs with after merging defaults,
the config file, FUSIONCTL_* environment variables and flags.

The config file is config.yaml in ~/.fusionctl or the platform config
directory.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	file := config.ConfigFileUsed()
	if file == "" {
		file = "(none, using defaults)"
	}
	fmt.Fprintf(out, "# config file: %s\n", file)

	data, err := yaml.Marshal(currentConfig())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	_, err = out.Write(data)
	return err
}
