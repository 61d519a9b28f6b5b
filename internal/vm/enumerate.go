package vm

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/cybozu-go/log"
	"github.com/javanstorm/fusionctl/internal/vmrun"
	"github.com/spf13/afero"
)

// All lists the names of every bundle directory in the VM directory. It
// always succeeds; an unreadable or missing directory yields no VMs.
func All(env *Env) Response[[]string] {
	names := []string{}

	entries, err := afero.ReadDir(env.Fs, env.VMDir)
	if err != nil {
		log.Debug("cannot read vm directory", map[string]interface{}{
			log.FnError: err,
			"dir":       env.VMDir,
		})
		return Success(names)
	}

	for _, e := range entries {
		if !e.IsDir() || filepath.Ext(e.Name()) != BundleExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), BundleExt))
	}
	return Success(names)
}

// AllRunning lists the names of the VMs vmrun reports as running. Lines
// that are not paths to an existing .vmx file are ignored.
func AllRunning(ctx context.Context, env *Env) Response[[]string] {
	res := env.Runner.Run(ctx, vmrun.List()...)
	if !res.Successful() {
		return Failure[[]string](res.ExitCode, res.Output)
	}

	names := []string{}
	for _, line := range strings.Split(res.Output, "\n") {
		line = strings.TrimSpace(line)
		if filepath.Ext(line) != ConfExt {
			continue
		}
		if ok, _ := afero.Exists(env.Fs, line); !ok {
			continue
		}
		names = append(names, strings.TrimSuffix(filepath.Base(filepath.Dir(line)), BundleExt))
	}
	return Success(names)
}

// AllWithStatus maps every VM in the VM directory to its state, asking
// vmrun for the running list once.
func AllWithStatus(ctx context.Context, env *Env) Response[map[string]State] {
	running := AllRunning(ctx, env)
	if !running.Successful() {
		return Propagate[map[string]State](running)
	}

	statuses := make(map[string]State)
	for _, name := range All(env).Data {
		state := New(env, name).stateGiven(running.Data)
		if !state.Successful() {
			return Propagate[map[string]State](state)
		}
		statuses[name] = state.Data
	}
	return Success(statuses)
}
