package cli

import (
	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop <vm>",
	Short: "Stop a running VM",
	Long:  `Ask the guest operating system of a running VM to shut down.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStop,
}

var haltCmd = &cobra.Command{
	Use:   "halt <vm>",
	Short: "Power off a VM",
	Long: `Power off a VM immediately without involving the guest, like pulling
the plug. Use stop for a clean shutdown.`,
	Args: cobra.ExactArgs(1),
	RunE: runHalt,
}

func runStop(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}

	running := v.IsRunning(cmd.Context())
	if !running.Successful() {
		return exitWith(cmd, running.Code, "There was an error determining if the VM is already running.  The error was:\n%s", running.Output)
	}
	if !running.Data {
		return exitWith(cmd, 0, "VM '%s' is not running", v.Name())
	}

	say(cmd, "Stopping '%s'", v.Name())
	res := v.Stop(cmd.Context())
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error stopping the VM.  The error was:\n%s", res.Output)
	}
	say(cmd, "VM '%s' stopped", v.Name())
	return nil
}

func runHalt(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}

	say(cmd, "Halting '%s'", v.Name())
	res := v.Halt(cmd.Context())
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error halting the VM.  The error was:\n%s", res.Output)
	}
	say(cmd, "VM '%s' halted", v.Name())
	return nil
}
