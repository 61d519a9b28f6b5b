package cli

import (
	"github.com/cybozu-go/log"
	"github.com/javanstorm/fusionctl/internal/config"
	"github.com/javanstorm/fusionctl/internal/lease"
	"github.com/javanstorm/fusionctl/internal/metadata"
	"github.com/javanstorm/fusionctl/internal/vm"
	"github.com/javanstorm/fusionctl/internal/vmrun"
	"github.com/spf13/afero"
)

// newEnv builds the environment commands operate on. The returned func
// releases it. Tests replace newEnv with an in-memory environment.
var newEnv = func(cfg *config.Config) (*vm.Env, func()) {
	fs := afero.NewOsFs()
	env := &vm.Env{
		Fs:     fs,
		Runner: vmrun.NewExecRunner(cfg.VMRunCmd),
		Leases: lease.NewFileReader(fs, cfg.LeaseFile),
		VMDir:  cfg.VMDir,
	}

	store, err := metadata.Open(cfg.MetadataDB)
	if err != nil {
		log.Warn("metadata store unavailable", map[string]interface{}{
			log.FnError: err,
			"path":      cfg.MetadataDB,
		})
		return env, func() {}
	}
	env.Metadata = store

	return env, func() {
		if err := store.Close(); err != nil {
			log.Warn("failed to close metadata store", map[string]interface{}{
				log.FnError: err,
			})
		}
	}
}

// currentConfig returns the loaded configuration, or the defaults when
// loading was skipped.
func currentConfig() *config.Config {
	if config.Global != nil {
		return config.Global
	}
	return config.DefaultConfig()
}
