package cli

import (
	"github.com/javanstorm/fusionctl/internal/timing"
	"github.com/javanstorm/fusionctl/internal/vm"
	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <source> <target>",
	Short: "Clone a VM",
	Long: `Copy the bundle of a VM into a new bundle and reconfigure the copy so
it boots as a different machine: files are renamed after the target,
references to the source name are rewritten, and the MAC address and
UUID are regenerated on first boot.

The source VM should be powered off.`,
	Args: cobra.ExactArgs(2),
	RunE: runClone,
}

var (
	cloneStart  bool
	cloneTiming bool
)

func init() {
	cloneCmd.Flags().BoolVar(&cloneStart, "start", false, "Start the clone once it is created")
	cloneCmd.Flags().BoolVar(&cloneTiming, "timing", false, "Print how long each step took")
}

func runClone(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	source, target := args[0], args[1]
	timer := timing.New("Clone Timing")

	say(cmd, "Cloning '%s' to '%s'", source, target)
	res := vm.Clone(cmd.Context(), env, source, target)
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error cloning the VM.  The error was:\n%s", res.Output)
	}
	timer.Mark("clone")
	say(cmd, "VM '%s' created", target)

	if cloneStart {
		if err := startVM(cmd, vm.New(env, target), vm.StartOptions{}); err != nil {
			return err
		}
		timer.Mark("start")
	}

	if cloneTiming {
		timer.Report(cmd.OutOrStdout())
	}
	return nil
}
