package main

// SpawnFlags holds the command line flags, decoupled from cobra for testing.
type SpawnFlags struct {
	Flags       string
	Path        string
	Wait        bool
	ConfigPath  string
	EnvKVs      []string
	PIDFile     string
	History     string
	MetricsFile string
	LogLevel    string
	LogFile     string
	LogFormat   string
	Help        bool // set when -h/--help was given
}

// viperKeys maps config keys to the flags that override them.
var viperKeys = map[string]string{
	"flags":        "flags",
	"path":         "path",
	"wait":         "wait",
	"pid_file":     "pid-file",
	"history":      "history",
	"metrics_file": "metrics-file",
	"log.level":    "log-level",
	"log.file":     "log-file",
	"log.format":   "log-format",
}
