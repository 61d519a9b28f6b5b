package cli

import (
	"github.com/javanstorm/fusionctl/internal/terminal"
	"github.com/javanstorm/fusionctl/internal/vm"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <vm>",
	Short: "Delete a VM and all of its files",
	Long: `Remove the bundle of a VM from disk. A running VM is refused unless
--force is given, in which case it is powered off first. When run from a
terminal, delete asks for confirmation unless --force is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation and power off a running VM")
}

func runDelete(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}

	running := v.IsRunning(cmd.Context())
	if !running.Successful() {
		return exitWith(cmd, running.Code, "There was an error determining if the VM is running.  The error was:\n%s", running.Output)
	}
	if running.Data {
		if !deleteForce {
			return exitWith(cmd, 1, "VM '%s' is currently running, stop it first or use --force", v.Name())
		}
		say(cmd, "Halting '%s'", v.Name())
		if res := v.Halt(cmd.Context()); !res.Successful() {
			return exitWith(cmd, res.Code, "There was an error halting the VM.  The error was:\n%s", res.Output)
		}
	}

	if !deleteForce && terminal.IsTTY(cmd.InOrStdin()) {
		if !terminal.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete VM '"+v.Name()+"' and all of its files?") {
			return exitWith(cmd, 1, "Deletion cancelled")
		}
	}

	say(cmd, "Deleting VM '%s'", v.Name())
	vm.Delete(cmd.Context(), env, v.Name())
	say(cmd, "Deletion complete!")
	return nil
}
