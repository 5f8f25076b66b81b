// Package actionlog records every successful mutating command of a session
// together with frozen copies of the document before and after it ran.
package actionlog

import (
	"crypto/rand"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/aidanlsb/modeler/internal/schema"
)

// Entry is one logged command. Before and After are deep copies and are never
// modified once the entry is appended.
type Entry struct {
	ID      ulid.ULID
	Command string
	Time    time.Time
	Params  map[string]string
	// Result is the typed record returned by the command, used to invert it.
	Result any
	Before *schema.Schema
	After  *schema.Schema
}

// Param returns a bound parameter of the entry.
func (e Entry) Param(name string) string {
	return e.Params[name]
}

// Log is an append-only, ordered list of entries.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
	entropy io.Reader
}

// Option configures a Log.
type Option func(*Log)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Log) {
		l.now = now
	}
}

// New returns an empty log.
func New(opts ...Option) *Log {
	l := &Log{
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append records a command. The parameters and both schemas are copied, so
// later changes by the caller never reach the log.
func (l *Log) Append(command string, params map[string]string, result any, before, after *schema.Schema) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	p := make(map[string]string, len(params))
	for k, v := range params {
		p[k] = v
	}
	e := Entry{
		ID:      ulid.MustNew(ulid.Timestamp(now), l.entropy),
		Command: command,
		Time:    now,
		Params:  p,
		Result:  result,
		Before:  before.Clone(),
		After:   after.Clone(),
	}
	l.entries = append(l.entries, e)
	return e
}

// Entries returns the entries in append order.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.entries)
}

// Len returns the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// First returns the oldest entry.
func (l *Log) First() (Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[0], true
}
