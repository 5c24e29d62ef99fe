package spawn

import (
	"context"
	"log/slog"
	"sync"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
)

// Status is the raw wait status of a child, as returned by waitpid.
type Status int

// Child is a spawned process.
type Child struct {
	Pid int

	once   sync.Once
	wait   func() (Status, error)
	status Status
	err    error
}

// Wait blocks until the child exits and returns its raw wait status.
// Repeated calls return the first result.
func (c *Child) Wait() (Status, error) {
	c.once.Do(func() {
		c.status, c.err = c.wait()
		if c.err != nil {
			c.err = wrap("waitpid", "", c.err)
		}
	})
	return c.status, c.err
}

// Spawner starts children with a flag mask installed in their spawn
// attributes.
type Spawner struct {
	Logger *slog.Logger
}

// New returns a Spawner logging to logger, or to slog.Default when nil.
func New(logger *slog.Logger) *Spawner {
	return &Spawner{Logger: logger}
}

func (s *Spawner) logger() *slog.Logger {
	if s == nil || s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Spawn creates the child described by req. On success the child is running
// (or stopped, with POSIX_SPAWN_START_SUSPENDED). With POSIX_SPAWN_SETEXEC
// the current process image is replaced and Spawn only returns on failure.
func (s *Spawner) Spawn(req Request) (*Child, error) {
	log := s.logger()
	if err := req.Validate(); err != nil {
		log.Debug("spawn request rejected", "path", req.Executable(), "error", err)
		return nil, wrap("posix_spawn", req.Executable(), err)
	}
	plan := PlanFor(req.Flags)
	log.Debug("spawning",
		"path", req.Executable(),
		"args", req.Args,
		"flags", req.FlagsHex(),
		"names", flags.Names(req.Flags))
	for _, name := range plan.Ignored {
		log.Warn("spawn flag has no effect on this platform", "flag", name)
	}
	if plan.Unknown != 0 {
		log.Warn("spawn flags contain unknown bits", "bits", Request{Flags: plan.Unknown}.FlagsHex())
	}

	child, err := s.start(req, plan)
	if err != nil {
		return nil, wrap("posix_spawn", req.Executable(), err)
	}
	if log.Enabled(context.Background(), slog.LevelDebug) {
		state, _ := State(child.Pid)
		log.Debug("spawned", "pid", child.Pid, "state", state)
	}
	return child, nil
}
