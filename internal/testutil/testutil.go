// Package testutil provides common test helpers for fusionctl tests.
package testutil

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/javanstorm/fusionctl/internal/lease"
	"github.com/javanstorm/fusionctl/internal/metadata"
	"github.com/javanstorm/fusionctl/internal/vmrun"
	"github.com/spf13/afero"
)

// VMDir is the VM directory used by in-memory test environments.
const VMDir = "/Users/test/Documents/Virtual Machines.localized"

// FakeRunner stands in for vmrun. Results are keyed by the vmrun
// operation (the first argument); unknown operations succeed silently.
type FakeRunner struct {
	mu      sync.Mutex
	Results map[string]vmrun.Result
	Calls   [][]string
}

// NewFakeRunner returns a runner with no canned results.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Results: make(map[string]vmrun.Result)}
}

// Set registers the result returned for op.
func (f *FakeRunner) Set(op string, exitCode int, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Results[op] = vmrun.Result{ExitCode: exitCode, Output: output}
}

// SetRunning makes "list" report the given .vmx paths as running.
func (f *FakeRunner) SetRunning(confPaths ...string) {
	var b strings.Builder
	b.WriteString("Total running VMs: ")
	b.WriteString(strconv.Itoa(len(confPaths)))
	b.WriteString("\n")
	for _, p := range confPaths {
		b.WriteString(p)
		b.WriteString("\n")
	}
	f.Set("list", 0, b.String())
}

// Run implements vmrun.Runner.
func (f *FakeRunner) Run(ctx context.Context, args ...string) vmrun.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, append([]string(nil), args...))
	if len(args) == 0 {
		return vmrun.Result{}
	}
	return f.Results[args[0]]
}

// CallsTo returns the recorded argument vectors for op.
func (f *FakeRunner) CallsTo(op string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var calls [][]string
	for _, c := range f.Calls {
		if len(c) > 0 && c[0] == op {
			calls = append(calls, c)
		}
	}
	return calls
}

// FakeLeases is an in-memory lease.Reader.
type FakeLeases struct {
	Leases []lease.Lease
	Err    error
}

// LatestFor implements lease.Reader.
func (f *FakeLeases) LatestFor(mac string) (lease.Lease, bool, error) {
	if f.Err != nil {
		return lease.Lease{}, false, f.Err
	}
	l, ok := lease.Latest(f.Leases, mac)
	return l, ok, nil
}

// FakeMetadata is an in-memory metadata store.
type FakeMetadata struct {
	mu      sync.Mutex
	Entries map[string]metadata.Entry
}

// NewFakeMetadata returns an empty store.
func NewFakeMetadata() *FakeMetadata {
	return &FakeMetadata{Entries: make(map[string]metadata.Entry)}
}

// Get returns the entry for bundlePath or metadata.ErrNotFound.
func (f *FakeMetadata) Get(ctx context.Context, bundlePath string) (metadata.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	e, ok := f.Entries[bundlePath]
	if !ok {
		return metadata.Entry{}, metadata.ErrNotFound
	}
	return e, nil
}

// Record stores e by bundle path.
func (f *FakeMetadata) Record(ctx context.Context, e metadata.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Entries[e.BundlePath] = e
	return nil
}

// Delete removes the entry for bundlePath.
func (f *FakeMetadata) Delete(ctx context.Context, bundlePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.Entries, bundlePath)
	return nil
}

// List returns every entry ordered by name.
func (f *FakeMetadata) List(ctx context.Context) ([]metadata.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := make([]metadata.Entry, 0, len(f.Entries))
	for _, e := range f.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].BundlePath < entries[j].BundlePath
	})
	return entries, nil
}

// BundleFiles returns the member files of a typical split-disk bundle for
// a VM called name.
func BundleFiles(name string) map[string]string {
	return map[string]string{
		name + ".vmx": `.encoding = "UTF-8"
displayName = "` + name + `"
scsi0:0.fileName = "` + name + `.vmdk"
nvram = "` + name + `.nvram"
extendedConfigFile = "` + name + `.vmxf"
tools.remindInstall = "TRUE"
uuid.action = "keep"
ethernet0.present = "TRUE"
ethernet0.addressType = "generated"
ethernet0.generatedAddress = "00:0c:29:26:49:2c"
ethernet0.generatedAddressOffset = "0"
`,
		name + ".vmxf": `<?xml version="1.0"?>
<Foundry><VM><vmxPathName type="string">` + name + `.vmx</vmxPathName></VM></Foundry>
`,
		name + ".vmdk": `# Disk DescriptorFile
version=1
createType="twoGbMaxExtentSparse"
RW 4192256 SPARSE "` + name + `-s001.vmdk"
RW 4192256 SPARSE "` + name + `-s002.vmdk"
`,
		name + "-s001.vmdk": "KDMV\x01\x00\x00\x00",
		name + "-s002.vmdk": "KDMV\x01\x00\x00\x00",
		name + ".nvram":     "\x00\x01nvram",
		name + ".vmsd":      ".encoding = \"UTF-8\"\n",
		"vmware.log":        "log\n",
	}
}

// CreateBundle writes a bundle directory for name under dir containing
// files and returns the bundle path.
func CreateBundle(t *testing.T, fs afero.Fs, dir, name string, files map[string]string) string {
	t.Helper()

	bundle := filepath.Join(dir, name+".vmwarevm")
	if err := fs.MkdirAll(bundle, 0755); err != nil {
		t.Fatalf("failed to create bundle %s: %v", bundle, err)
	}
	for file, content := range files {
		WriteFile(t, fs, filepath.Join(bundle, file), content)
	}
	return bundle
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// ListFiles returns the sorted names of the entries in dir.
func ListFiles(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		t.Fatalf("failed to read %s: %v", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}
