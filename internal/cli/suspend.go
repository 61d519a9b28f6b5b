package cli

import (
	"sort"

	"github.com/javanstorm/fusionctl/internal/vm"
	"github.com/spf13/cobra"
)

var suspendCmd = &cobra.Command{
	Use:   "suspend [vm]",
	Short: "Suspend a running VM",
	Long: `Save the memory of a running VM to disk and stop it. Use resume to
continue where it left off.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if suspendAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runSuspend,
}

var resumeCmd = &cobra.Command{
	Use:   "resume <vm>",
	Short: "Resume a suspended VM",
	Args:  cobra.ExactArgs(1),
	RunE:  runResume,
}

var suspendAll bool

func init() {
	suspendCmd.Flags().BoolVar(&suspendAll, "all", false, "Suspend every running VM")
}

func runSuspend(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	if suspendAll {
		return suspendAllRunning(cmd, env)
	}

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
	return suspendVM(cmd, v)
}

func suspendAllRunning(cmd *cobra.Command, env *vm.Env) error {
	running := vm.AllRunning(cmd.Context(), env)
	if !running.Successful() {
		return exitWith(cmd, running.Code, "There was an error getting the list of running VMs.  The error was:\n%s", running.Output)
	}

	names := running.Data
	sort.Strings(names)
	for _, name := range names {
		if err := suspendVM(cmd, vm.New(env, name)); err != nil {
			return err
		}
	}
	return nil
}

func suspendVM(cmd *cobra.Command, v *vm.VM) error {
	say(cmd, "Suspending '%s'", v.Name())
	res := v.Suspend(cmd.Context())
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error suspending the VM.  The error was:\n%s", res.Output)
	}
	say(cmd, "VM '%s' suspended", v.Name())
	return nil
}

func runResume(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}

	state := v.State(cmd.Context())
	if !state.Successful() {
		return exitWith(cmd, state.Code, "There was an error determining the state of the VM.  The error was:\n%s", state.Output)
	}
	if state.Data != vm.StateSuspended {
		return exitWith(cmd, 0, "VM '%s' is not suspended", v.Name())
	}

	say(cmd, "Resuming '%s'", v.Name())
	res := v.Resume(cmd.Context())
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error resuming the VM.  The error was:\n%s", res.Output)
	}
	say(cmd, "VM '%s' resumed", v.Name())
	return nil
}
