// Package vm controls VMware Fusion virtual machines. A VM is a view over
// its bundle directory and the output of vmrun; nothing is cached between
// calls, every query re-reads the disk and the process table.
package vm

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// File extensions of a VMware bundle.
const (
	BundleExt     = ".vmwarevm"
	ConfExt       = ".vmx"
	ExtConfExt    = ".vmxf"
	DiskExt       = ".vmdk"
	SuspendExt    = ".vmem"
	NVRAMExt      = ".nvram"
	SnapshotDBExt = ".vmsd"
)

// VM is a named virtual machine in the VM directory.
type VM struct {
	env  *Env
	name string
}

// New returns the VM called name. It does not check that it exists.
func New(env *Env, name string) *VM {
	return &VM{env: env, name: name}
}

// Name returns the VM name.
func (v *VM) Name() string {
	return v.name
}

// BundlePath returns the path of the VM's bundle directory.
func (v *VM) BundlePath() string {
	return BundlePath(v.env, v.name)
}

// Exists reports whether the bundle directory exists.
func (v *VM) Exists() bool {
	return Exists(v.env, v.name)
}

// BundlePath returns the bundle directory for name.
func BundlePath(env *Env, name string) string {
	return filepath.Join(env.VMDir, name+BundleExt)
}

// Exists reports whether a bundle directory for name exists.
func Exists(env *Env, name string) bool {
	ok, err := afero.DirExists(env.Fs, BundlePath(env, name))
	return err == nil && ok
}
