package metrics

import (
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Package-level Prometheus collectors. They are registered via Register.
var (
	regOK atomic.Bool

	spawns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "posixspawn",
			Subsystem: "spawn",
			Name:      "total",
			Help:      "Number of spawn attempts by result (ok or error).",
		}, []string{"result"},
	)
	flagUse = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "posixspawn",
			Subsystem: "spawn",
			Name:      "flags_total",
			Help:      "Number of spawns that carried each named flag.",
		}, []string{"flag"},
	)
	exits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "posixspawn",
			Subsystem: "child",
			Name:      "exits_total",
			Help:      "Number of waited children by exit code or terminating signal.",
		}, []string{"code", "signal"},
	)
	waitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "posixspawn",
			Subsystem: "child",
			Name:      "wait_duration_seconds",
			Help:      "Time spent waiting for the child with -w.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	lastPID = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "posixspawn",
			Subsystem: "child",
			Name:      "last_pid",
			Help:      "PID of the most recently spawned child.",
		},
	)
)

// Register registers all metrics with the provided registerer. Collectors
// already present in r are kept.
func Register(r prometheus.Registerer) error {
	cs := []prometheus.Collector{spawns, flagUse, exits, waitDuration, lastPID}
	for _, c := range cs {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	regOK.Store(true)
	return nil
}

// WriteTextfile writes everything g gathers to path in the text exposition
// format, atomically, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

// Below are lightweight helpers used by internal packages to record metrics.
// They no-op if Register hasn't been called.

func IncSpawn(ok bool) {
	if !regOK.Load() {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	spawns.WithLabelValues(result).Inc()
}

func IncFlags(names []string) {
	if regOK.Load() {
		for _, n := range names {
			flagUse.WithLabelValues(n).Inc()
		}
	}
}

func SetLastPID(pid int) {
	if regOK.Load() {
		lastPID.Set(float64(pid))
	}
}

// ObserveExit records a waited child. code is -1 for signaled children.
func ObserveExit(code int, signal string, seconds float64) {
	if regOK.Load() {
		exits.WithLabelValues(strconv.Itoa(code), signal).Inc()
		waitDuration.Observe(seconds)
	}
}
