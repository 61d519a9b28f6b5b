// Package lease reads the ISC dhcpd lease database VMware's NAT network
// writes, e.g. /var/db/vmware/vmnet-dhcpd-vmnet8.leases.
package lease

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const timeLayout = "2006/01/02 15:04:05"

// Lease binds a MAC address to an IP address for a time window.
type Lease struct {
	IP     string
	MAC    string
	Starts time.Time
	Ends   time.Time
}

// Reader looks up leases by MAC address.
type Reader interface {
	// LatestFor returns the last lease recorded for mac. Later stanzas in
	// the lease file supersede earlier ones.
	LatestFor(mac string) (Lease, bool, error)
}

// Parse reads every lease stanza from r in file order.
//
//	lease 172.16.44.134 {
//	  starts 4 2011/07/28 15:54:41;
//	  ends 4 2011/07/28 16:24:41;
//	  hardware ethernet 00:0c:29:54:06:5c;
//	}
func Parse(r io.Reader) ([]Lease, error) {
	var leases []Lease
	var cur *Lease

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(strings.TrimSuffix(line, ";"))
		switch {
		case fields[0] == "lease" && len(fields) >= 2:
			cur = &Lease{IP: fields[1]}
		case cur == nil:
			// statements outside a lease block (authoring-byte-order etc.)
		case fields[0] == "}":
			leases = append(leases, *cur)
			cur = nil
		case fields[0] == "starts":
			cur.Starts = parseTime(fields)
		case fields[0] == "ends":
			cur.Ends = parseTime(fields)
		case fields[0] == "hardware" && len(fields) >= 3:
			cur.MAC = strings.ToLower(fields[2])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read leases")
	}

	return leases, nil
}

// parseTime handles "starts <weekday> <date> <time>". Values we cannot
// read ("never", epoch forms) are left zero.
func parseTime(fields []string) time.Time {
	if len(fields) < 4 {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, fields[2]+" "+fields[3])
	if err != nil {
		return time.Time{}
	}
	return t
}

// Latest returns the last lease in leases whose MAC matches mac.
func Latest(leases []Lease, mac string) (Lease, bool) {
	for i := len(leases) - 1; i >= 0; i-- {
		if strings.EqualFold(leases[i].MAC, mac) {
			return leases[i], true
		}
	}
	return Lease{}, false
}

// FileReader reads leases from a file on each lookup.
type FileReader struct {
	fs   afero.Fs
	path string
}

// NewFileReader creates a reader for the lease file at path.
func NewFileReader(fs afero.Fs, path string) *FileReader {
	return &FileReader{fs: fs, path: path}
}

// LatestFor implements Reader. A missing lease file means no lease.
func (r *FileReader) LatestFor(mac string) (Lease, bool, error) {
	f, err := r.fs.Open(r.path)
	if os.IsNotExist(err) {
		return Lease{}, false, nil
	}
	if err != nil {
		return Lease{}, false, errors.Wrapf(err, "open lease file %s", r.path)
	}
	defer f.Close()

	leases, err := Parse(f)
	if err != nil {
		return Lease{}, false, errors.Wrapf(err, "parse lease file %s", r.path)
	}

	l, ok := Latest(leases, mac)
	return l, ok, nil
}
