package vm

import (
	"context"

	"github.com/javanstorm/fusionctl/internal/lease"
	"github.com/javanstorm/fusionctl/internal/metadata"
	"github.com/javanstorm/fusionctl/internal/vmrun"
	"github.com/spf13/afero"
)

// MetadataStore records per-bundle metadata. *metadata.Store satisfies it.
type MetadataStore interface {
	Get(ctx context.Context, bundlePath string) (metadata.Entry, error)
	Record(ctx context.Context, e metadata.Entry) error
	Delete(ctx context.Context, bundlePath string) error
	List(ctx context.Context) ([]metadata.Entry, error)
}

// Env is everything VM operations read from or act on. Production code
// fills it with the OS filesystem and the real vmrun binary; tests use an
// in-memory filesystem and fakes.
type Env struct {
	// Fs is the filesystem holding the VM directory.
	Fs afero.Fs

	// Runner invokes vmrun.
	Runner vmrun.Runner

	// Leases resolves MAC addresses to DHCP leases. May be nil.
	Leases lease.Reader

	// Metadata is the bundle metadata store. May be nil.
	Metadata MetadataStore

	// VMDir is the directory containing the VM bundles.
	VMDir string
}
