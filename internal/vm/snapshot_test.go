package vm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshots(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{"summary last", "snap1\nsnap2\nTotal snapshots: 2\n", []string{"snap1", "snap2"}},
		{"summary first", "Total snapshots: 2\nclean install\n  before upgrade  \n", []string{"clean install", "before upgrade"}},
		{"none", "Total snapshots: 0\n", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			te := newTestEnv(t)
			conf := te.addVM(t, "web")
			te.runner.Set("listSnapshots", 0, tt.output)

			res := New(te.Env, "web").Snapshots(context.Background())
			require.True(t, res.Successful(), res.Output)
			assert.Equal(t, tt.want, res.Data)
			assert.Equal(t, [][]string{{"listSnapshots", conf}}, te.runner.CallsTo("listSnapshots"))
		})
	}
}

func TestSnapshotsFailure(t *testing.T) {
	te := newTestEnv(t)
	te.addVM(t, "web")
	te.runner.Set("listSnapshots", 255, "Error: Unknown error")

	res := New(te.Env, "web").Snapshots(context.Background())
	require.False(t, res.Successful())
	assert.Equal(t, 255, res.Code)
	assert.Equal(t, "Error: Unknown error", res.Output)
}

func TestCreateSnapshot(t *testing.T) {
	te := newTestEnv(t)
	conf := te.addVM(t, "web")

	res := New(te.Env, "web").CreateSnapshot(context.Background(), "before upgrade")
	require.True(t, res.Successful())
	assert.Equal(t, [][]string{{"snapshot", conf, "before upgrade"}}, te.runner.CallsTo("snapshot"))
}

func TestRevertToSnapshot(t *testing.T) {
	te := newTestEnv(t)
	conf := te.addVM(t, "web")
	te.runner.Set("revertToSnapshot", 255, "Error: A snapshot with the name does not exist")

	res := New(te.Env, "web").RevertToSnapshot(context.Background(), "gone")
	require.False(t, res.Successful())
	assert.Equal(t, 255, res.Code)
	assert.Equal(t, [][]string{{"revertToSnapshot", conf, "gone"}}, te.runner.CallsTo("revertToSnapshot"))
}

func TestSnapshotOnMissingVM(t *testing.T) {
	te := newTestEnv(t)

	res := New(te.Env, "ghost").CreateSnapshot(context.Background(), "s")
	require.False(t, res.Successful())
	assert.Contains(t, res.Output, "Unable to find a config file for VM 'ghost'")
	assert.Empty(t, te.runner.CallsTo("snapshot"))
}
