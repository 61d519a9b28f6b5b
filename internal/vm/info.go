package vm

import (
	"context"
	"errors"
	"time"

	"github.com/cybozu-go/log"
	"github.com/javanstorm/fusionctl/internal/metadata"
)

// Info summarizes what is known about a VM.
type Info struct {
	Name       string    `json:"name" yaml:"name"`
	State      string    `json:"state" yaml:"state"`
	ConfFile   string    `json:"conf_file,omitempty" yaml:"conf_file,omitempty"`
	MACAddress string    `json:"mac_address,omitempty" yaml:"mac_address,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty" yaml:"ip_address,omitempty"`
	ClonedFrom string    `json:"cloned_from,omitempty" yaml:"cloned_from,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Metadata returns the recorded metadata of the VM, if any.
func (v *VM) Metadata(ctx context.Context) (metadata.Entry, bool) {
	if v.env.Metadata == nil {
		return metadata.Entry{}, false
	}

	e, err := v.env.Metadata.Get(ctx, v.BundlePath())
	if err != nil {
		if !errors.Is(err, metadata.ErrNotFound) {
			log.Warn("failed to read metadata", map[string]interface{}{
				log.FnError: err,
				"vm":        v.name,
			})
		}
		return metadata.Entry{}, false
	}
	return e, true
}

// ClonedFrom maps the names of cloned VMs in the VM directory to the VM
// each was cloned from. Entries recorded for another VM directory are
// ignored. A store failure is logged and yields an empty map.
func ClonedFrom(ctx context.Context, env *Env) map[string]string {
	origins := make(map[string]string)
	if env.Metadata == nil {
		return origins
	}

	entries, err := env.Metadata.List(ctx)
	if err != nil {
		log.Warn("failed to list metadata", map[string]interface{}{
			log.FnError: err,
		})
		return origins
	}
	for _, e := range entries {
		if e.ClonedFrom == "" || e.BundlePath != BundlePath(env, e.Name) {
			continue
		}
		origins[e.Name] = e.ClonedFrom
	}
	return origins
}

// Info collects the state, configuration file, addresses and metadata of
// the VM. Only the state lookup can fail; the other fields are left empty
// when unknown.
func (v *VM) Info(ctx context.Context) Response[Info] {
	state := v.State(ctx)
	if !state.Successful() {
		return Propagate[Info](state)
	}

	info := Info{
		Name:  v.name,
		State: state.Data.String(),
	}
	if state.Data == StateNotCreated {
		return Success(info)
	}

	if conf := v.ConfFile(); conf.Successful() {
		info.ConfFile = conf.Data
	}
	info.MACAddress, _ = v.MACAddress()
	info.IPAddress, _ = v.ipAddressIn(state.Data)
	if e, ok := v.Metadata(ctx); ok {
		info.ClonedFrom = e.ClonedFrom
		info.CreatedAt = e.CreatedAt
	}
	return Success(info)
}
