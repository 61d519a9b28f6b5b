package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/javanstorm/fusionctl/internal/lease"
	"github.com/javanstorm/fusionctl/internal/metadata"
	"github.com/javanstorm/fusionctl/internal/testutil"
	"github.com/javanstorm/fusionctl/internal/vm"
	"gopkg.in/yaml.v3"
)

func TestStatusCommand(t *testing.T) {
	f := newFixture(t)
	foo := f.addVM(t, "foo")
	bar := f.addVM(t, "bar")
	f.addVM(t, "bazooka")
	f.runner.SetRunning(foo)
	testutil.WriteFile(t, f.fs, filepath.Join(filepath.Dir(bar), "bar.vmem"), "mem")

	out, err := f.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}

	want := "bar       [suspended]\n" +
		"bazooka   [not running]\n" +
		"foo       [running]\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("status output mismatch (-want +got):\n%s", diff)
	}
}

func TestStatusCommandLong(t *testing.T) {
	f := newFixture(t)
	f.addVM(t, "base")
	web := f.addVM(t, "web")
	f.runner.SetRunning(web)
	f.meta.Entries[filepath.Dir(web)] = metadata.Entry{
		BundlePath: filepath.Dir(web),
		Name:       "web",
		ClonedFrom: "base",
	}

	out, err := f.run(t, "status", "--long")
	if err != nil {
		t.Fatalf("status --long: %v", err)
	}

	want := "base   [not running]\n" +
		"web    [running]   (cloned from base)\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("status output mismatch (-want +got):\n%s", diff)
	}

	out, err = f.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if strings.Contains(out, "cloned from") {
		t.Errorf("clone source shown without --long:\n%s", out)
	}
}

func TestStatusCommandFailure(t *testing.T) {
	f := newFixture(t)
	f.addVM(t, "foo")
	f.runner.Set("list", 4, "it blew up")

	out, err := f.run(t, "status")
	if code := exitCode(t, err); code != 4 {
		t.Errorf("exit code = %d, want 4", code)
	}
	assertContains(t, out, "There was an error getting the status of the VMs.  The error was:\nit blew up")
}

func TestStatusCommandEmpty(t *testing.T) {
	f := newFixture(t)

	out, err := f.run(t, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out != "" {
		t.Errorf("output = %q, want empty", out)
	}
}

func TestSnapshotCommands(t *testing.T) {
	f := newFixture(t)
	conf := f.addVM(t, "foo")
	f.runner.Set("listSnapshots", 0, "Total snapshots: 1\nclean\n")

	out, err := f.run(t, "snapshot", "list", "foo")
	if err != nil {
		t.Fatalf("snapshot list: %v", err)
	}
	if out != "clean\n" {
		t.Errorf("snapshot list output = %q", out)
	}

	out, err = f.run(t, "snapshot", "create", "foo", "before upgrade")
	if err != nil {
		t.Fatalf("snapshot create: %v", err)
	}
	assertContains(t, out, "Snapshot 'before upgrade' created")

	out, err = f.run(t, "snapshot", "revert", "foo", "clean")
	if err != nil {
		t.Fatalf("snapshot revert: %v", err)
	}
	assertContains(t, out, "Reverting to snapshot 'clean'", "Reverted to snapshot 'clean'")

	if diff := cmp.Diff([][]string{{"snapshot", conf, "before upgrade"}}, f.runner.CallsTo("snapshot")); diff != "" {
		t.Errorf("snapshot calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"revertToSnapshot", conf, "clean"}}, f.runner.CallsTo("revertToSnapshot")); diff != "" {
		t.Errorf("revert calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotCommandErrors(t *testing.T) {
	f := newFixture(t)
	f.addVM(t, "foo")
	f.runner.Set("listSnapshots", 0, "Total snapshots: 1\nclean\n")

	out, err := f.run(t, "snapshot", "create", "foo", "clean")
	if code := exitCode(t, err); code != 1 {
		t.Errorf("duplicate create exit code = %d, want 1", code)
	}
	assertContains(t, out, "VM 'foo' already has a snapshot named 'clean'")

	out, err = f.run(t, "snapshot", "revert", "foo", "gone")
	if code := exitCode(t, err); code != 1 {
		t.Errorf("missing revert exit code = %d, want 1", code)
	}
	assertContains(t, out, "Unable to find a snapshot named 'gone'")

	if n := len(f.runner.CallsTo("snapshot")) + len(f.runner.CallsTo("revertToSnapshot")); n != 0 {
		t.Errorf("vmrun was invoked %d times for rejected requests", n)
	}
}

func TestSnapshotListEmpty(t *testing.T) {
	f := newFixture(t)
	f.addVM(t, "foo")
	f.runner.Set("listSnapshots", 0, "Total snapshots: 0\n")

	out, err := f.run(t, "snapshot", "list", "foo")
	if err != nil {
		t.Fatalf("snapshot list: %v", err)
	}
	assertContains(t, out, "No snapshots found for VM 'foo'")
}

func TestCloneCommand(t *testing.T) {
	f := newFixture(t)
	f.addVM(t, "base")

	out, err := f.run(t, "clone", "base", "web", "--start", "--timing")
	if err != nil {
		t.Fatalf("clone: %v\n%s", err, out)
	}
	assertContains(t, out,
		"Cloning 'base' to 'web'",
		"VM 'web' created",
		"Starting 'web'",
		"VM 'web' started",
		"=== Clone Timing ===",
	)

	if !vm.Exists(f.env, "web") {
		t.Fatal("clone bundle missing")
	}
	calls := f.runner.CallsTo("start")
	if len(calls) != 1 || filepath.Base(calls[0][1]) != "web.vmx" {
		t.Errorf("start calls = %v", calls)
	}
}

func TestCloneCommandExistingTarget(t *testing.T) {
	f := newFixture(t)
	f.addVM(t, "base")
	f.addVM(t, "web")

	out, err := f.run(t, "clone", "base", "web")
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	assertContains(t, out, "There was an error cloning the VM.", "already exists")
	if strings.Contains(out, "Clone Timing") {
		t.Error("timing printed without --timing")
	}
}

func TestDeleteCommand(t *testing.T) {
	f := newFixture(t)
	f.addVM(t, "foo")

	out, err := f.run(t, "delete", "foo")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertContains(t, out, "Deleting VM 'foo'", "Deletion complete!")
	if vm.Exists(f.env, "foo") {
		t.Error("bundle still exists")
	}
}

func TestDeleteCommandRunning(t *testing.T) {
	f := newFixture(t)
	conf := f.addVM(t, "foo")
	f.runner.SetRunning(conf)

	out, err := f.run(t, "delete", "foo")
	if code := exitCode(t, err); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	assertContains(t, out, "VM 'foo' is currently running")
	if !vm.Exists(f.env, "foo") {
		t.Fatal("running VM was deleted without --force")
	}

	out, err = f.run(t, "delete", "foo", "--force")
	if err != nil {
		t.Fatalf("delete --force: %v", err)
	}
	assertContains(t, out, "Halting 'foo'", "Deletion complete!")
	if diff := cmp.Diff([][]string{{"stop", conf, "hard"}}, f.runner.CallsTo("stop")); diff != "" {
		t.Errorf("stop calls mismatch (-want +got):\n%s", diff)
	}
	if vm.Exists(f.env, "foo") {
		t.Error("bundle still exists")
	}
}

func TestInfoCommand(t *testing.T) {
	f := newFixture(t)
	conf := f.addVM(t, "foo")
	f.runner.SetRunning(conf)
	f.leases.Leases = []lease.Lease{{IP: "172.16.32.128", MAC: "00:0c:29:26:49:2c"}}

	out, err := f.run(t, "info", "foo")
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	assertContains(t, out, "Name:", "foo", "running", conf, "00:0c:29:26:49:2c", "172.16.32.128")

	out, err = f.run(t, "info", "foo", "-o", "json")
	if err != nil {
		t.Fatalf("info -o json: %v", err)
	}
	var fromJSON vm.Info
	if err := json.Unmarshal([]byte(out), &fromJSON); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if fromJSON.IPAddress != "172.16.32.128" || fromJSON.State != "running" {
		t.Errorf("json info = %+v", fromJSON)
	}

	out, err = f.run(t, "info", "foo", "-o", "yaml")
	if err != nil {
		t.Fatalf("info -o yaml: %v", err)
	}
	var fromYAML vm.Info
	if err := yaml.Unmarshal([]byte(out), &fromYAML); err != nil {
		t.Fatalf("invalid yaml %q: %v", out, err)
	}
	if fromYAML.ConfFile != conf || fromYAML.MACAddress != "00:0c:29:26:49:2c" {
		t.Errorf("yaml info = %+v", fromYAML)
	}
}

func TestInfoCommandBadFormat(t *testing.T) {
	f := newFixture(t)
	f.addVM(t, "foo")

	_, err := f.run(t, "info", "foo", "-o", "xml")
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}
	if !strings.Contains(err.Error(), `unknown output format "xml"`) {
		t.Errorf("error = %v", err)
	}
}
