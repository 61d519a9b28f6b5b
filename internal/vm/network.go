package vm

import (
	"context"

	"github.com/cybozu-go/log"
	"github.com/javanstorm/fusionctl/internal/vmx"
)

// MACAddress returns the generated MAC address of the first network
// adapter. A missing config file or address yields false.
func (v *VM) MACAddress() (string, bool) {
	conf := v.ConfFile()
	if !conf.Successful() {
		return "", false
	}

	f, err := v.env.Fs.Open(conf.Data)
	if err != nil {
		return "", false
	}
	defer f.Close()

	return vmx.GeneratedAddress(f)
}

// IPAddress returns the address the NAT DHCP server last leased to the
// VM's first adapter. Only running VMs have one.
func (v *VM) IPAddress(ctx context.Context) (string, bool) {
	if v.env.Leases == nil {
		return "", false
	}

	state := v.State(ctx)
	if !state.Successful() {
		return "", false
	}
	return v.ipAddressIn(state.Data)
}

// ipAddressIn is IPAddress for a VM already known to be in state.
func (v *VM) ipAddressIn(state State) (string, bool) {
	if v.env.Leases == nil || state != StateRunning {
		return "", false
	}

	mac, ok := v.MACAddress()
	if !ok {
		return "", false
	}

	l, ok, err := v.env.Leases.LatestFor(mac)
	if err != nil {
		log.Warn("failed to read dhcp leases", map[string]interface{}{
			log.FnError: err,
			"vm":        v.name,
		})
		return "", false
	}
	if !ok {
		return "", false
	}
	return l.IP, true
}
