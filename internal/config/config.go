package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/AlexanderOMara/posixspawn/internal/env"
	"github.com/AlexanderOMara/posixspawn/internal/logger"
)

// EnvPrefix prefixes environment variables that override config keys,
// e.g. POSIXSPAWN_LOG_LEVEL for log.level.
const EnvPrefix = "POSIXSPAWN"

// Config is the merged configuration of one invocation. Keys map to the
// TOML file, to POSIXSPAWN_* variables and to bound command-line flags.
//
//	flags = "POSIX_SPAWN_SETPGROUP|POSIX_SPAWN_SETSIGDEF"
//	wait = true
//	env = ["GREETING=hello"]
//	env_files = ["/etc/child.env"]
//	pid_file = "/run/child.pid"
//	history = "sqlite:///var/lib/posixspawn/history.db"
//	metrics_file = "/var/lib/node_exporter/posixspawn.prom"
//
//	[log]
//	level = "debug"
//	file = "/var/log/posixspawn.log"
type Config struct {
	Flags       string        `mapstructure:"flags"`
	Path        string        `mapstructure:"path"`
	Wait        bool          `mapstructure:"wait"`
	Env         []string      `mapstructure:"env"`
	EnvFiles    []string      `mapstructure:"env_files"`
	UseOSEnv    bool          `mapstructure:"use_os_env"`
	PIDFile     string        `mapstructure:"pid_file"`
	History     string        `mapstructure:"history"`
	MetricsFile string        `mapstructure:"metrics_file"`
	Log         logger.Config `mapstructure:"log"`
}

// New returns a viper instance with defaults and environment lookup set up.
// Callers bind their flags to it and then call Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("flags", "")
	v.SetDefault("path", "")
	v.SetDefault("wait", false)
	v.SetDefault("env", []string{})
	v.SetDefault("env_files", []string{})
	v.SetDefault("use_os_env", true)
	v.SetDefault("pid_file", "")
	v.SetDefault("history", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", logger.DefaultMaxSizeMB)
	v.SetDefault("log.max_backups", logger.DefaultMaxBackups)
	v.SetDefault("log.max_age_days", logger.DefaultMaxAgeDays)
	v.SetDefault("log.compress", false)
	v.SetDefault("log.color", false)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the TOML file at path (optional) into v and decodes the result.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return c, nil
}

// Environ returns the child environment, or nil when the configuration does
// not change it (the child then inherits ours unchanged). extra entries
// are applied last, after Env.
func (c Config) Environ(extra []string) ([]string, error) {
	if c.UseOSEnv && len(c.Env) == 0 && len(c.EnvFiles) == 0 && len(extra) == 0 {
		return nil, nil
	}
	e := env.New(c.UseOSEnv)
	for _, p := range c.EnvFiles {
		if err := e.LoadFile(p); err != nil {
			return nil, fmt.Errorf("env file: %w", err)
		}
	}
	if err := e.SetPairs(c.Env); err != nil {
		return nil, err
	}
	if err := e.SetPairs(extra); err != nil {
		return nil, err
	}
	return e.Environ(), nil
}

// ErrEmptyConfig is returned by Validate when the request has nothing to run.
var ErrEmptyConfig = errors.New("nothing to spawn: no path and no arguments")

// Validate checks a config against the positional arguments it will run.
func (c Config) Validate(args []string) error {
	if c.Path == "" && len(args) == 0 {
		return ErrEmptyConfig
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
