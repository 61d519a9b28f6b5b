package cli

import (
	"slices"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Create, list and revert VM snapshots",
	Long:  `Manage the snapshots VMware Fusion keeps for a VM.`,
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create <vm> <name>",
	Short: "Create a snapshot",
	Long:  `Take a snapshot of the VM's current state. Snapshot names must be unique per VM.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotCreate,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list <vm>",
	Short: "List snapshots",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotList,
}

var snapshotRevertCmd = &cobra.Command{
	Use:   "revert <vm> <name>",
	Short: "Revert to a snapshot",
	Long:  `Revert the VM to a snapshot. The current state is lost.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotRevert,
}

func init() {
	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRevertCmd)
}

func runSnapshotCreate(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}
	name := args[1]

	existing := v.Snapshots(cmd.Context())
	if !existing.Successful() {
		return exitWith(cmd, existing.Code, "There was an error getting the list of snapshots.  The error was:\n%s", existing.Output)
	}
	if slices.Contains(existing.Data, name) {
		return exitWith(cmd, 1, "VM '%s' already has a snapshot named '%s'", v.Name(), name)
	}

	say(cmd, "Creating snapshot")
	res := v.CreateSnapshot(cmd.Context(), name)
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error creating the snapshot.  The error was:\n%s", res.Output)
	}
	say(cmd, "Snapshot '%s' created", name)
	return nil
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}

	res := v.Snapshots(cmd.Context())
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error getting the list of snapshots.  The error was:\n%s", res.Output)
	}
	if len(res.Data) == 0 {
		say(cmd, "No snapshots found for VM '%s'", v.Name())
		return nil
	}
	for _, s := range res.Data {
		say(cmd, "%s", s)
	}
	return nil
}

func runSnapshotRevert(cmd *cobra.Command, args []string) error {
	env, done := newEnv(currentConfig())
	defer done()

	v, err := lookupVM(cmd, env, args[0])
	if err != nil {
		return err
	}
	name := args[1]

	existing := v.Snapshots(cmd.Context())
	if !existing.Successful() {
		return exitWith(cmd, existing.Code, "There was an error getting the list of snapshots.  The error was:\n%s", existing.Output)
	}
	if !slices.Contains(existing.Data, name) {
		return exitWith(cmd, 1, "Unable to find a snapshot named '%s'", name)
	}

	say(cmd, "Reverting to snapshot '%s'", name)
	res := v.RevertToSnapshot(cmd.Context(), name)
	if !res.Successful() {
		return exitWith(cmd, res.Code, "There was an error reverting to the snapshot.  The error was:\n%s", res.Output)
	}
	say(cmd, "Reverted to snapshot '%s'", name)
	return nil
}
