package vm

import (
	"context"

	"github.com/cybozu-go/log"
	"github.com/javanstorm/fusionctl/internal/vmrun"
)

// StartOptions controls how a VM is started.
type StartOptions struct {
	// Headless starts the VM without a console window.
	Headless bool
}

// Start powers on the VM.
func (v *VM) Start(ctx context.Context, opts StartOptions) Response[struct{}] {
	conf := v.ConfFile()
	if !conf.Successful() {
		return Propagate[struct{}](conf)
	}
	return v.run(ctx, vmrun.Start(conf.Data, !opts.Headless))
}

// Stop asks the guest to shut down. Stopping a VM that is not running is a
// successful no-op.
func (v *VM) Stop(ctx context.Context) Response[struct{}] {
	conf := v.ConfFile()
	if !conf.Successful() {
		return Propagate[struct{}](conf)
	}

	running := v.IsRunning(ctx)
	if !running.Successful() {
		return Propagate[struct{}](running)
	}
	if !running.Data {
		log.Info("vm is not running; nothing to stop", map[string]interface{}{
			"vm": v.name,
		})
		return Success(struct{}{})
	}

	return v.run(ctx, vmrun.Stop(conf.Data, false))
}

// Halt powers the VM off without involving the guest. It does not check
// whether the VM is running first.
func (v *VM) Halt(ctx context.Context) Response[struct{}] {
	conf := v.ConfFile()
	if !conf.Successful() {
		return Propagate[struct{}](conf)
	}
	return v.run(ctx, vmrun.Stop(conf.Data, true))
}

// Suspend saves the VM memory to disk. Only a running VM is suspended;
// any other state is a successful no-op.
func (v *VM) Suspend(ctx context.Context) Response[struct{}] {
	conf := v.ConfFile()
	if !conf.Successful() {
		return Propagate[struct{}](conf)
	}

	running := v.IsRunning(ctx)
	if !running.Successful() {
		return Propagate[struct{}](running)
	}
	if !running.Data {
		return Success(struct{}{})
	}

	return v.run(ctx, vmrun.Suspend(conf.Data))
}

// Resume starts a suspended VM with a console window. Any other state is
// a successful no-op.
func (v *VM) Resume(ctx context.Context) Response[struct{}] {
	state := v.State(ctx)
	if !state.Successful() {
		return Propagate[struct{}](state)
	}
	if state.Data != StateSuspended {
		return Success(struct{}{})
	}
	return v.Start(ctx, StartOptions{})
}

// run invokes vmrun and converts its result into a Response.
func (v *VM) run(ctx context.Context, args []string) Response[struct{}] {
	res := v.env.Runner.Run(ctx, args...)
	if !res.Successful() {
		log.Warn("vmrun failed", map[string]interface{}{
			"vm":        v.name,
			"operation": args[0],
			"exit_code": res.ExitCode,
		})
		return Failure[struct{}](res.ExitCode, res.Output)
	}
	return Success(struct{}{})
}
