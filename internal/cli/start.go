package cli

import (
	"github.com/javanstorm/fusionctl/internal/vm"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start <vm>",
	Short: "Start a VM",
	Long: `Power on a VM. The VM opens in a Fusion window unless --headless is
given.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

var startHeadless bool

func init() {
	startCmd.Flags().BoolVar(&startHeadless, "headless", false, "Start without a console window")
}

func runStart(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}
	return startVM(cmd, v, vm.StartOptions{Headless: startHeadless})
}

// startVM starts v unless it is already running.
func startVM(cmd *cobra.Command, v *vm.VM, opts vm.StartOptions) error {
	state := v.State(cmd.Context())
	if !state.Successful() {
		return exitWith(cmd, state.Code, "There was an error determining the state of the VM.  The error was:\n%s", state.Output)
	}
	if state.Data == vm.StateRunning {
		return exitWith(cmd, 0, "VM '%s' is already running", v.Name())
	}

	say(cmd, "Starting '%s'", v.Name())
	res := v.Start(cmd.Context(), opts)
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was a problem starting the VM.  The error was:\n%s", res.Output)
	}
	say(cmd, "VM '%s' started", v.Name())
	return nil
}

// lookupVM returns the VM called name, or prints an error and returns an
// *ExitError if it has no bundle.
func lookupVM(cmd *cobra.Command, env *vm.Env, name string) (*vm.VM, error) {
	v := vm.New(env, name)
	if !v.Exists() {
		return nil, exitWith(cmd, 1, "Unable to find the VM %s (%s)", name, v.BundlePath())
	}
	return v, nil
}
