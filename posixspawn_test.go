package posixspawn

import (
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireUnix(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires Unix-like environment")
	}
}

func TestParseFlagsFacade(t *testing.T) {
	assert.Equal(t, int16(0x88), ParseFlags("POSIX_SPAWN_SETSIGMASK|POSIX_SPAWN_START_SUSPENDED"))
	assert.Len(t, Constants(), 13)
	assert.Equal(t, []string{"POSIX_SPAWN_SETSIGMASK", "POSIX_SPAWN_START_SUSPENDED"}, FlagNames(0x88))
}

func TestSpawnFacade(t *testing.T) {
	requireUnix(t)
	c, err := Spawn(Request{Flags: ParseFlags("POSIX_SPAWN_SETPGROUP"), Args: []string{"/bin/sh", "-c", "exit 4"}})
	require.NoError(t, err)
	assert.Positive(t, c.Pid)
	st, err := c.Wait()
	require.NoError(t, err)
	assert.Equal(t, 4, st.ExitCode())
}

func TestMetricsHandlerFacade(t *testing.T) {
	require.NoError(t, RegisterMetricsDefault())
	// registering twice is fine
	require.NoError(t, RegisterMetricsDefault())

	srv := httptest.NewServer(MetricsHandler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var sb strings.Builder
	_, _ = io.Copy(&sb, resp.Body)
	assert.Contains(t, sb.String(), "posixspawn_child_last_pid")
}
