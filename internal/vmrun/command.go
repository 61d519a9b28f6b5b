package vmrun

import "strings"

// Argument vectors for the vmrun operations we use. The config path is
// passed as a single argv element, so it is never split on spaces.

// List returns the arguments for listing running VMs.
func List() []string {
	return []string{"list"}
}

// Start returns the arguments for starting a VM with or without a window.
func Start(conf string, gui bool) []string {
	mode := "nogui"
	if gui {
		mode = "gui"
	}
	return []string{"start", conf, mode}
}

// Stop returns the arguments for stopping a VM. A hard stop powers the VM
// off without asking the guest.
func Stop(conf string, hard bool) []string {
	if hard {
		return []string{"stop", conf, "hard"}
	}
	return []string{"stop", conf}
}

// Suspend returns the arguments for suspending a VM.
func Suspend(conf string) []string {
	return []string{"suspend", conf}
}

// Snapshot returns the arguments for taking a named snapshot.
func Snapshot(conf, name string) []string {
	return []string{"snapshot", conf, name}
}

// RevertToSnapshot returns the arguments for reverting to a named snapshot.
func RevertToSnapshot(conf, name string) []string {
	return []string{"revertToSnapshot", conf, name}
}

// ListSnapshots returns the arguments for listing a VM's snapshots.
func ListSnapshots(conf string) []string {
	return []string{"listSnapshots", conf}
}

// EscapeSpaces backslash-escapes every space in s.
func EscapeSpaces(s string) string {
	return strings.ReplaceAll(s, " ", `\ `)
}

// CommandLine renders an invocation the way a shell user would type it.
// Arguments containing spaces are escaped; it is only used for display.
func CommandLine(bin string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, EscapeSpaces(bin))
	for _, a := range args {
		parts = append(parts, EscapeSpaces(a))
	}
	return strings.Join(parts, " ")
}
