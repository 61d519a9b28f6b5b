package vm

import (
	"path/filepath"
	"testing"

	"github.com/javanstorm/fusionctl/internal/testutil"
	"github.com/spf13/afero"
)

// testEnv bundles an in-memory Env with handles on its fakes.
type testEnv struct {
	*Env
	fs     afero.Fs
	runner *testutil.FakeRunner
	leases *testutil.FakeLeases
	meta   *testutil.FakeMetadata
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll(testutil.VMDir, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	te := &testEnv{
		fs:     fs,
		runner: testutil.NewFakeRunner(),
		leases: &testutil.FakeLeases{},
		meta:   testutil.NewFakeMetadata(),
	}
	te.runner.SetRunning()
	te.Env = &Env{
		Fs:       fs,
		Runner:   te.runner,
		Leases:   te.leases,
		Metadata: te.meta,
		VMDir:    testutil.VMDir,
	}
	return te
}

// addVM creates a standard bundle for name and returns its .vmx path.
func (te *testEnv) addVM(t *testing.T, name string) string {
	t.Helper()

	bundle := testutil.CreateBundle(t, te.fs, te.VMDir, name, testutil.BundleFiles(name))
	return filepath.Join(bundle, name+ConfExt)
}
