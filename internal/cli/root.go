// Package cli provides the command-line interface for fusionctl.
package cli

import (
	"fmt"

	"github.com/cybozu-go/well"
	"github.com/javanstorm/fusionctl/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fusionctl",
	Short: "fusionctl - control VMware Fusion VMs from the shell",
	Long: `fusionctl starts, stops, suspends, snapshots, clones and deletes
VMware Fusion virtual machines by driving the vmrun tool.

VMs are addressed by name: "web" is the bundle web.vmwarevm in the VM
directory (by default ~/Documents/Virtual Machines.localized).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "version", "completion", "help":
			return nil
		}
		if err := config.Load(cmd.Flags()); err != nil {
			return err
		}
		return applyLogging(config.Global)
	},
}

// Execute runs the root command. A failed VM operation is returned as an
// *ExitError carrying the exit code.
func Execute() error {
	return rootCmd.Execute()
}

// applyLogging configures the default logger. Logs go to stderr so they
// never mix with command output.
func applyLogging(cfg *config.Config) error {
	lc := well.LogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	}
	if err := lc.Apply(); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("vm-dir", "", "Directory containing the VM bundles")
	rootCmd.PersistentFlags().String("vmrun", "", "Path to the vmrun binary")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (critical, error, warning, info, debug)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (plain, logfmt, json)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(haltCmd)
	rootCmd.AddCommand(suspendCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(cloneCmd)
	rootCmd.AddCommand(deleteCmd)
}
