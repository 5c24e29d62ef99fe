package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/AlexanderOMara/posixspawn/internal/config"
	"github.com/AlexanderOMara/posixspawn/internal/flags"
	"github.com/AlexanderOMara/posixspawn/internal/history"
	"github.com/AlexanderOMara/posixspawn/internal/history/factory"
	"github.com/AlexanderOMara/posixspawn/internal/logger"
	"github.com/AlexanderOMara/posixspawn/internal/metrics"
	"github.com/AlexanderOMara/posixspawn/internal/spawn"
)

// command runs one spawn. stdout carries only the PID/EXIT/ERROR contract;
// diagnostics go to stderr or the log file.
type command struct {
	stdout io.Writer
	stderr io.Writer
}

// loadConfig merges the TOML file, POSIXSPAWN_* variables and the flags
// the user actually set.
func loadConfig(cmd *cobra.Command, f *SpawnFlags) (config.Config, error) {
	v := config.New()
	for key, name := range viperKeys {
		if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return config.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return config.Load(v, f.ConfigPath)
}

// Spawn implements the root command.
func (c command) Spawn(cmd *cobra.Command, f *SpawnFlags, args []string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	if err := cfg.Validate(args); err != nil {
		return err
	}

	log, closer, err := logger.New(cfg.Log, c.stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	if cfg.MetricsFile != "" {
		reg := prometheus.NewRegistry()
		if err := metrics.Register(reg); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		defer func() {
			if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
				log.Warn("write metrics textfile", "path", cfg.MetricsFile, "error", err)
			}
		}()
	}

	var sink history.Sink
	if cfg.History != "" {
		s, err := factory.NewSinkFromDSN(cfg.History)
		if err != nil {
			log.Warn("history disabled", "error", err)
		} else {
			sink = s
			defer func() { _ = sink.Close() }()
		}
	}

	environ, err := cfg.Environ(f.EnvKVs)
	if err != nil {
		return err
	}

	req := spawn.Request{
		Flags: flags.Parse(cfg.Flags),
		Path:  cfg.Path,
		Args:  args,
		Env:   environ,
	}
	rec := history.Record{Path: req.Executable(), Args: req.Args, Flags: req.Flags}
	ctx := context.Background()

	child, err := spawn.New(log).Spawn(req)
	if err != nil {
		metrics.IncSpawn(false)
		rec.Err = err.Error()
		c.record(ctx, log, sink, history.EventError, rec)
		_, _ = fmt.Fprintf(c.stdout, "ERROR: %v\n", err)
		return &exitError{code: 1, err: err}
	}
	_, _ = fmt.Fprintf(c.stdout, "PID: %d\n", child.Pid)

	metrics.IncSpawn(true)
	metrics.IncFlags(flags.Names(req.Flags))
	metrics.SetLastPID(child.Pid)
	rec.PID = child.Pid
	c.record(ctx, log, sink, history.EventSpawn, rec)
	if cfg.PIDFile != "" {
		if err := spawn.WritePIDFile(cfg.PIDFile, child.Pid, req); err != nil {
			log.Warn("write pid file", "path", cfg.PIDFile, "error", err)
		}
	}

	if !cfg.Wait {
		return nil
	}
	started := time.Now()
	status, err := child.Wait()
	if err != nil {
		_, _ = fmt.Fprintf(c.stderr, "ERROR: %v\n", err)
		return nil
	}
	_, _ = fmt.Fprintf(c.stdout, "EXIT: %d\n", int(status))

	metrics.ObserveExit(status.ExitCode(), status.Signal(), time.Since(started).Seconds())
	raw := int(status)
	rec.Status = &raw
	c.record(ctx, log, sink, history.EventExit, rec)
	spawn.RemovePIDFile(cfg.PIDFile)
	log.Info("child exited", "pid", child.Pid, "status", raw, "code", status.ExitCode(), "signal", status.Signal())
	return nil
}

func (c command) record(ctx context.Context, log *slog.Logger, s history.Sink, t history.EventType, rec history.Record) {
	if err := history.Send(ctx, s, history.Event{Type: t, Record: rec}); err != nil {
		log.Warn("history send failed", "type", t, "error", err)
	}
}
