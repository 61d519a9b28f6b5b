package cli

import (
	"fmt"
	"sort"

	"github.com/javanstorm/fusionctl/internal/vm"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of every VM",
	Long: `List every VM in the VM directory with its state: running, suspended or
not running. With --long, VMs created by clone also show their source VM.`,
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var statusLong bool

func init() {
	statusCmd.Flags().BoolVarP(&statusLong, "long", "l", false, "Also show the VM each clone was made from")
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	res := vm.AllWithStatus(cmd.Context(), env)
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error getting the status of the VMs.  The error was:\n%s", res.Output)
	}

	names := make([]string, 0, len(res.Data))
	width := 0
	for name := range res.Data {
		names = append(names, name)
		width = max(width, len(name))
	}
	sort.Strings(names)

	var origins map[string]string
	if statusLong {
		origins = vm.ClonedFrom(cmd.Context(), env)
	}

	for _, name := range names {
		line := fmt.Sprintf("%-*s   [%s]", width, name, res.Data[name])
		if from, ok := origins[name]; ok {
			line += fmt.Sprintf("   (cloned from %s)", from)
		}
		say(cmd, "%s", line)
	}
	return nil
}
