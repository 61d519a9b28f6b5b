package vm

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javanstorm/fusionctl/internal/testutil"
	"github.com/javanstorm/fusionctl/internal/vmx"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone(t *testing.T) {
	te := newTestEnv(t)
	te.addVM(t, "base")

	res := Clone(context.Background(), te.Env, "base", "web")
	require.True(t, res.Successful(), res.Output)

	bundle := BundlePath(te.Env, "web")
	assert.Equal(t, []string{
		"web-s001.vmdk",
		"web-s002.vmdk",
		"web.log",
		"web.nvram",
		"web.vmdk",
		"web.vmsd",
		"web.vmx",
		"web.vmxf",
	}, testutil.ListFiles(t, te.fs, bundle))

	// The source bundle is untouched.
	assert.Equal(t, len(testutil.BundleFiles("base")), len(testutil.ListFiles(t, te.fs, BundlePath(te.Env, "base"))))

	conf := readFile(t, te.fs, filepath.Join(bundle, "web.vmx"))
	assert.NotContains(t, conf, "base")
	assert.NotContains(t, conf, "generatedAddress")
	assert.Equal(t, 1, strings.Count(conf, "tools.remindInstall"))
	assert.Equal(t, 1, strings.Count(conf, "uuid.action"))
	assert.True(t, strings.HasSuffix(conf, "\n"+vmx.RemindInstallLine+"\n"+vmx.UUIDActionLine+"\n"), conf)
	assert.Contains(t, conf, `displayName = "web"`)
	assert.Contains(t, conf, `ethernet0.addressType = "generated"`)

	assert.Contains(t, readFile(t, te.fs, filepath.Join(bundle, "web.vmxf")), "web.vmx")
	disk := readFile(t, te.fs, filepath.Join(bundle, "web.vmdk"))
	assert.Contains(t, disk, `"web-s001.vmdk"`)
	assert.Contains(t, disk, `"web-s002.vmdk"`)

	// Binary extents are copied as is.
	assert.Equal(t, "KDMV\x01\x00\x00\x00", readFile(t, te.fs, filepath.Join(bundle, "web-s001.vmdk")))

	entry, ok := te.meta.Entries[bundle]
	require.True(t, ok, "clone not recorded")
	assert.Equal(t, "web", entry.Name)
	assert.Equal(t, "base", entry.ClonedFrom)
}

func TestCloneHasNoMACAddress(t *testing.T) {
	te := newTestEnv(t)
	te.addVM(t, "base")

	require.True(t, Clone(context.Background(), te.Env, "base", "web").Successful())

	_, ok := New(te.Env, "web").MACAddress()
	assert.False(t, ok)
	mac, ok := New(te.Env, "base").MACAddress()
	assert.True(t, ok)
	assert.Equal(t, "00:0c:29:26:49:2c", mac)
}

func TestCloneMissingSource(t *testing.T) {
	te := newTestEnv(t)

	res := Clone(context.Background(), te.Env, "ghost", "web")
	require.False(t, res.Successful())
	assert.Contains(t, res.Output, "Unable to find the source VM ghost")
	assert.False(t, Exists(te.Env, "web"))
}

func TestCloneExistingTarget(t *testing.T) {
	te := newTestEnv(t)
	te.addVM(t, "base")
	te.addVM(t, "web")
	before := readFile(t, te.fs, filepath.Join(BundlePath(te.Env, "web"), "web.vmx"))

	res := Clone(context.Background(), te.Env, "base", "web")
	require.False(t, res.Successful())
	assert.Contains(t, res.Output, "The target VM web already exists")
	assert.Equal(t, before, readFile(t, te.fs, filepath.Join(BundlePath(te.Env, "web"), "web.vmx")))
	assert.Empty(t, te.meta.Entries)
}

func TestCloneKeepsStrayNames(t *testing.T) {
	te := newTestEnv(t)
	files := testutil.BundleFiles("base")
	files[".DS_Store"] = "x"
	testutil.CreateBundle(t, te.fs, te.VMDir, "base", files)

	require.True(t, Clone(context.Background(), te.Env, "base", "web").Successful())

	ok, err := afero.Exists(te.fs, filepath.Join(BundlePath(te.Env, "web"), ".DS_Store"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCloneAmbiguousExtent(t *testing.T) {
	te := newTestEnv(t)
	files := testutil.BundleFiles("base")
	files["base-s001-s002.vmdk"] = "KDMV"
	testutil.CreateBundle(t, te.fs, te.VMDir, "base", files)

	res := Clone(context.Background(), te.Env, "base", "web")
	require.False(t, res.Successful())
	assert.Contains(t, res.Output, "ambiguous disk extent")
}

func TestCloneWithSnapshotDelta(t *testing.T) {
	te := newTestEnv(t)
	files := testutil.BundleFiles("base")
	files["base-000001.vmdk"] = `# Disk DescriptorFile
parentFileNameHint="base.vmdk"
RW 4192256 SPARSE "base-000001-s001.vmdk"
`
	files["base-000001-s001.vmdk"] = "KDMV\x01\x00\x00\x00"
	testutil.CreateBundle(t, te.fs, te.VMDir, "base", files)

	res := Clone(context.Background(), te.Env, "base", "web")
	require.False(t, res.Successful())
	assert.Contains(t, res.Output, ErrUnsupportedBundle.Error())

	// Nothing is left behind, so the clone can be retried once the
	// snapshot is consolidated.
	ok, err := afero.Exists(te.fs, BundlePath(te.Env, "web"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, te.meta.Entries)
	assert.Len(t, testutil.ListFiles(t, te.fs, BundlePath(te.Env, "base")), len(files))
}

func TestCloneNameInExtension(t *testing.T) {
	te := newTestEnv(t)
	te.addVM(t, "vm")

	res := Clone(context.Background(), te.Env, "vm", "web")
	require.True(t, res.Successful(), res.Output)

	bundle := BundlePath(te.Env, "web")
	assert.Equal(t, []string{
		"web-s001.vmdk",
		"web-s002.vmdk",
		"web.log",
		"web.nvram",
		"web.vmdk",
		"web.vmsd",
		"web.vmx",
		"web.vmxf",
	}, testutil.ListFiles(t, te.fs, bundle))

	conf := readFile(t, te.fs, filepath.Join(bundle, "web.vmx"))
	assert.Contains(t, conf, `scsi0:0.fileName = "web.vmdk"`)
	assert.Contains(t, conf, `extendedConfigFile = "web.vmxf"`)
	assert.Contains(t, readFile(t, te.fs, filepath.Join(bundle, "web.vmxf")), `<vmxPathName type="string">web.vmx</vmxPathName>`)
	assert.Contains(t, readFile(t, te.fs, filepath.Join(bundle, "web.vmdk")), `"web-s001.vmdk"`)
}

func TestCloneKeepsCollidingLogs(t *testing.T) {
	te := newTestEnv(t)
	files := testutil.BundleFiles("base")
	files["vmware-0.log"] = "older log\n"
	testutil.CreateBundle(t, te.fs, te.VMDir, "base", files)

	require.True(t, Clone(context.Background(), te.Env, "base", "web").Successful())

	bundle := BundlePath(te.Env, "web")
	// vmware-0.log sorts first and takes the new name.
	assert.Equal(t, "older log\n", readFile(t, te.fs, filepath.Join(bundle, "web.log")))
	assert.Equal(t, "log\n", readFile(t, te.fs, filepath.Join(bundle, "vmware.log")))
}

func TestPlanRenames(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		files   []string
		want    []rename
		wantErr error
	}{
		{
			name:  "split disk",
			from:  "base",
			files: []string{"base.vmx", "base.vmdk", "base-s001.vmdk"},
			want: []rename{
				{"base-s001.vmdk", "web-s001.vmdk"},
				{"base.vmdk", "web.vmdk"},
				{"base.vmx", "web.vmx"},
			},
		},
		{
			name:  "extension untouched",
			from:  "vm",
			files: []string{"vm.vmx", "vm.vmsd"},
			want: []rename{
				{"vm.vmsd", "web.vmsd"},
				{"vm.vmx", "web.vmx"},
			},
		},
		{
			name:  "other files yield",
			from:  "base",
			files: []string{"base.log", "vmware.log"},
			want:  []rename{{"base.log", "web.log"}},
		},
		{
			name:    "delta disk collides",
			from:    "base",
			files:   []string{"base.vmdk", "base-000001.vmdk"},
			wantErr: ErrUnsupportedBundle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			for _, f := range tt.files {
				testutil.WriteFile(t, fs, filepath.Join("/b", f), "x")
			}

			got, err := planRenames(fs, "/b", tt.from, "web")
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReplaceablePart(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr error
	}{
		{"base.vmx", "base", nil},
		{"base.vmdk", "base", nil},
		{"base-s001.vmdk", "base", nil},
		{"my-sql-s012.vmdk", "my-sql", nil},
		{"vmware.log", "vmware", nil},
		{".DS_Store", "", nil},
		{"base-s1-s2.vmdk", "", ErrUnsupportedBundle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := replaceablePart(tt.name)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMembersToRename(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, f := range []string{"a.log", "base.vmx", "z.txt", "base-s001.vmdk"} {
		testutil.WriteFile(t, fs, filepath.Join("/b", f), "x")
	}

	got, err := membersToRename(fs, "/b", "base")
	require.NoError(t, err)
	assert.Equal(t, []string{"base-s001.vmdk", "base.vmx", "a.log", "z.txt"}, got)
}

func TestWriteFileAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/b/x.vmx", []byte("old"), 0600))

	require.NoError(t, writeFileAtomic(fs, "/b/x.vmx", []byte("new")))

	assert.Equal(t, "new", readFile(t, fs, "/b/x.vmx"))
	info, err := fs.Stat("/b/x.vmx")
	require.NoError(t, err)
	assert.Equal(t, "-rw-------", info.Mode().Perm().String())
	assert.Equal(t, []string{"x.vmx"}, testutil.ListFiles(t, fs, "/b"))
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}
