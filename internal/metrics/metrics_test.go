package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIdempotentAndCountersWork(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	// idempotent: calling again should be no-op
	require.NoError(t, Register(reg))

	before := testutil.ToFloat64(spawns.WithLabelValues("ok"))
	IncSpawn(true)
	IncSpawn(true)
	IncSpawn(false)
	IncFlags([]string{"POSIX_SPAWN_SETPGROUP"})
	SetLastPID(4242)
	ObserveExit(3, "", 0.25)
	ObserveExit(-1, "terminated", 1)

	assert.Equal(t, before+2, testutil.ToFloat64(spawns.WithLabelValues("ok")))
	assert.Equal(t, float64(4242), testutil.ToFloat64(lastPID))
	assert.GreaterOrEqual(t, testutil.ToFloat64(exits.WithLabelValues("3", "")), float64(1))
	assert.GreaterOrEqual(t, testutil.ToFloat64(exits.WithLabelValues("-1", "terminated")), float64(1))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	wantNames := map[string]bool{
		"posixspawn_spawn_total":                 false,
		"posixspawn_spawn_flags_total":           false,
		"posixspawn_child_exits_total":           false,
		"posixspawn_child_wait_duration_seconds": false,
		"posixspawn_child_last_pid":              false,
	}
	for _, mf := range mfs {
		if _, ok := wantNames[mf.GetName()]; ok {
			wantNames[mf.GetName()] = true
			assert.NotEmpty(t, mf.GetMetric(), mf.GetName())
		}
	}
	for n, ok := range wantNames {
		assert.True(t, ok, "expected to find metric %s", n)
	}
}

func TestRegisterIntoSecondRegistry(t *testing.T) {
	require.NoError(t, Register(prometheus.NewRegistry()))
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	SetLastPID(7)
	n, err := testutil.GatherAndCount(reg, "posixspawn_child_last_pid")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	IncSpawn(true)

	path := filepath.Join(t.TempDir(), "posixspawn.prom")
	require.NoError(t, WriteTextfile(path, reg))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(b), `posixspawn_spawn_total{result="ok"}`), string(b))
}
