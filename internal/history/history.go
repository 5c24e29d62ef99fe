package history

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/AlexanderOMara/posixspawn/internal/flags"
)

// EventType defines the kind of spawn event.
type EventType string

const (
	EventSpawn EventType = "spawn" // child created
	EventExit  EventType = "exit"  // child waited for
	EventError EventType = "error" // spawn failed
)

// DefaultTable is the table (or ClickHouse table) events are written to.
const DefaultTable = "spawn_history"

// Record describes the child an event is about.
type Record struct {
	PID    int      `json:"pid"`
	Path   string   `json:"path"`
	Args   []string `json:"args"`
	Flags  int16    `json:"flags"`
	Status *int     `json:"status,omitempty"` // raw wait status, exit events only
	Err    string   `json:"error,omitempty"`
}

// FlagNames joins the names of the flags set in Flags with '|', the same
// notation -f accepts.
func (r Record) FlagNames() string {
	return strings.Join(flags.Names(r.Flags), "|")
}

// ArgsJSON encodes Args as a JSON array for storage in a text column.
func (r Record) ArgsJSON() string {
	if r.Args == nil {
		return "[]"
	}
	b, err := json.Marshal(r.Args)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// Event is one history entry.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Record     Record    `json:"record"`
}

// Sink is a destination for history events.
// Implementations must be safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}

// SendTimeout bounds a single Send made through Send.
const SendTimeout = 5 * time.Second

// Send delivers e to s under SendTimeout. A nil sink is a no-op.
func Send(ctx context.Context, s Sink, e Event) error {
	if s == nil {
		return nil
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}
	ctx, cancel := context.WithTimeout(ctx, SendTimeout)
	defer cancel()
	return s.Send(ctx, e)
}

// NullString returns nil for an empty string so it is stored as NULL.
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullInt returns nil for a nil pointer so it is stored as NULL.
func NullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
