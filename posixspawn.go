package posixspawn

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
	"github.com/AlexanderOMara/posixspawn/internal/history"
	"github.com/AlexanderOMara/posixspawn/internal/history/factory"
	"github.com/AlexanderOMara/posixspawn/internal/metrics"
	"github.com/AlexanderOMara/posixspawn/internal/spawn"
)

// Re-export core types for external consumers.
// These are aliases so conversions are zero-cost.

type Constant = flags.Constant

type Request = spawn.Request

type Child = spawn.Child

type Status = spawn.Status

type HistorySink = history.Sink

// ParseFlags reduces a pipe-delimited flag expression to a spawn mask.
func ParseFlags(expr string) int16 { return flags.Parse(expr) }

// Constants returns the named flags in lookup order.
func Constants() []Constant { return flags.Table() }

// FlagNames lists the constants fully contained in mask.
func FlagNames(mask int16) []string { return flags.Names(mask) }

// Spawn starts req with the default logger.
func Spawn(req Request) (*Child, error) { return SpawnWithLogger(req, nil) }

// SpawnWithLogger starts req, logging diagnostics to l. Spawn counters are
// recorded once RegisterMetrics has been called.
func SpawnWithLogger(req Request, l *slog.Logger) (*Child, error) {
	c, err := spawn.New(l).Spawn(req)
	metrics.IncSpawn(err == nil)
	if err != nil {
		return nil, err
	}
	metrics.IncFlags(flags.Names(req.Flags))
	metrics.SetLastPID(c.Pid)
	return c, nil
}

// NewHistorySink opens a history sink for a sqlite, postgres or clickhouse DSN.
func NewHistorySink(dsn string) (HistorySink, error) { return factory.NewSinkFromDSN(dsn) }

// Metrics helpers

func RegisterMetrics(r prometheus.Registerer) error { return metrics.Register(r) }
func RegisterMetricsDefault() error                 { return metrics.Register(prometheus.DefaultRegisterer) }

// MetricsHandler returns an http.Handler serving the default registry.
func MetricsHandler() http.Handler { return promhttp.Handler() }
