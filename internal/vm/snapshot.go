package vm

import (
	"context"
	"strings"

	"github.com/javanstorm/fusionctl/internal/vmrun"
)

// snapshotSummary marks the count line vmrun prints with listSnapshots.
const snapshotSummary = "Total snapshots:"

// CreateSnapshot takes a snapshot called name.
func (v *VM) CreateSnapshot(ctx context.Context, name string) Response[struct{}] {
	conf := v.ConfFile()
	if !conf.Successful() {
		return Propagate[struct{}](conf)
	}
	return v.run(ctx, vmrun.Snapshot(conf.Data, name))
}

// RevertToSnapshot reverts the VM to the snapshot called name.
func (v *VM) RevertToSnapshot(ctx context.Context, name string) Response[struct{}] {
	conf := v.ConfFile()
	if !conf.Successful() {
		return Propagate[struct{}](conf)
	}
	return v.run(ctx, vmrun.RevertToSnapshot(conf.Data, name))
}

// Snapshots lists the VM's snapshot names in the order vmrun reports them.
func (v *VM) Snapshots(ctx context.Context) Response[[]string] {
	conf := v.ConfFile()
	if !conf.Successful() {
		return Propagate[[]string](conf)
	}

	res := v.env.Runner.Run(ctx, vmrun.ListSnapshots(conf.Data)...)
	if !res.Successful() {
		return Failure[[]string](res.ExitCode, res.Output)
	}
	return Success(parseSnapshots(res.Output))
}

func parseSnapshots(output string) []string {
	names := []string{}
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, snapshotSummary) {
			continue
		}
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names
}
