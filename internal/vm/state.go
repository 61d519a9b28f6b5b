package vm

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// State is the run state of a VM as observed from disk and vmrun.
type State int

const (
	StateNotCreated State = iota // no bundle directory
	StateNotRunning              // bundle exists, powered off
	StateSuspended               // memory image present
	StateRunning                 // listed by vmrun
)

func (s State) String() string {
	switch s {
	case StateNotCreated:
		return "not created"
	case StateNotRunning:
		return "not running"
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON and YAML output.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State reports whether the VM is not created, running, suspended or not
// running. A failing vmrun probe is returned as a failure, not guessed.
func (v *VM) State(ctx context.Context) Response[State] {
	if !v.Exists() {
		return Success(StateNotCreated)
	}

	running := AllRunning(ctx, v.env)
	if !running.Successful() {
		return Propagate[State](running)
	}
	return v.stateGiven(running.Data)
}

// IsRunning reports whether vmrun lists the VM as running.
func (v *VM) IsRunning(ctx context.Context) Response[bool] {
	running := AllRunning(ctx, v.env)
	if !running.Successful() {
		return Propagate[bool](running)
	}
	return Success(slices.Contains(running.Data, v.name))
}

// stateGiven derives the state of an existing bundle from an already
// fetched list of running VM names.
func (v *VM) stateGiven(running []string) Response[State] {
	if slices.Contains(running, v.name) {
		return Success(StateRunning)
	}

	conf := v.ConfFile()
	if !conf.Successful() {
		return Propagate[State](conf)
	}

	if ok, _ := afero.Exists(v.env.Fs, suspendFile(conf.Data)); ok {
		return Success(StateSuspended)
	}
	return Success(StateNotRunning)
}

// suspendFile returns the memory image path paired with a .vmx file.
func suspendFile(conf string) string {
	base := strings.TrimSuffix(filepath.Base(conf), filepath.Ext(conf))
	return filepath.Join(filepath.Dir(conf), base+SuspendExt)
}
