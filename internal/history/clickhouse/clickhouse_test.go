package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
	"github.com/AlexanderOMara/posixspawn/internal/history"
)

// setupClickHouseContainer starts a ClickHouse container for testing
func setupClickHouseContainer(ctx context.Context, t *testing.T) (testcontainers.Container, string) {
	t.Helper()

	clickHouseContainer, err := clickhouse.Run(ctx,
		"clickhouse/clickhouse-server:24.3.2.23",
		clickhouse.WithUsername("default"),
		clickhouse.WithPassword(""),
		clickhouse.WithDatabase("default"),
		testcontainers.WithWaitStrategy(
			wait.ForHTTP("/ping").
				WithPort("8123/tcp").
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "start ClickHouse container")

	host, err := clickHouseContainer.Host(ctx)
	require.NoError(t, err)
	port, err := clickHouseContainer.MappedPort(ctx, "9000")
	require.NoError(t, err)
	return clickHouseContainer, host + ":" + port.Port()
}

func TestClickHouseSink_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, addr := setupClickHouseContainer(ctx, t)
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Errorf("Failed to terminate ClickHouse container: %v", err)
		}
	}()

	sink, err := New(Options{Addr: addr})
	require.NoError(t, err)
	defer func() { assert.NoError(t, sink.Close()) }()

	rec := history.Record{
		PID:   12345,
		Path:  "/bin/sleep",
		Args:  []string{"sleep", "1"},
		Flags: flags.StartSuspended,
	}
	require.NoError(t, sink.Send(ctx, history.Event{Type: history.EventSpawn, OccurredAt: time.Now(), Record: rec}))
	status := 0
	rec.Status = &status
	require.NoError(t, sink.Send(ctx, history.Event{Type: history.EventExit, OccurredAt: time.Now(), Record: rec}))

	var count uint64
	require.NoError(t, sink.conn.QueryRow(ctx,
		"SELECT count() FROM "+history.DefaultTable+" WHERE pid = 12345").Scan(&count))
	assert.Equal(t, uint64(2), count)
}

func TestClickHouseSink_Unreachable(t *testing.T) {
	_, err := New(Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
