package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/javanstorm/fusionctl/internal/vm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var infoCmd = &cobra.Command{
	Use:   "info <vm>",
	Short: "Show details about a VM",
	Long: `Show the state, configuration file, network addresses and clone
history of a VM. The IP address is only known while the VM runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

var infoOutput string

func init() {
	infoCmd.Flags().StringVarP(&infoOutput, "output", "o", "text", "Output format (text, yaml, json)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	switch infoOutput {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("unknown output format %q", infoOutput)
	}

	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}

	res := v.Info(cmd.Context())
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error getting information about the VM.  The error was:\n%s", res.Output)
	}

	return writeInfo(cmd.OutOrStdout(), infoOutput, res.Data)
}

func writeInfo(w io.Writer, format string, info vm.Info) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", info.Name)
	fmt.Fprintf(tw, "State:\t%s\n", info.State)
	fmt.Fprintf(tw, "Config:\t%s\n", orNone(info.ConfFile))
	fmt.Fprintf(tw, "MAC address:\t%s\n", orNone(info.MACAddress))
	fmt.Fprintf(tw, "IP address:\t%s\n", orNone(info.IPAddress))
	if info.ClonedFrom != "" {
		fmt.Fprintf(tw, "Cloned from:\t%s\n", info.ClonedFrom)
	}
	if !info.CreatedAt.IsZero() {
		fmt.Fprintf(tw, "Created:\t%s\n", info.CreatedAt.Local().Format(time.RFC1123))
	}
	return tw.Flush()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
