package transcript

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Chart describes one renderable chart. Data and Layout are opaque
// payloads handed to the external renderer untouched; the client only
// checks that a trace payload is present.
type Chart struct {
	Title  string          `json:"title"`
	Data   json.RawMessage `json:"data"`
	Layout json.RawMessage `json:"layout,omitempty"`
}

// HasData reports whether the descriptor carries a usable trace payload.
func (c Chart) HasData() bool {
	trimmed := strings.TrimSpace(string(c.Data))
	return trimmed != "" && trimmed != "null"
}

// Entry is a single conversation message. IsUser discriminates the two
// variants: user entries carry only content, assistant entries may also
// carry insights and charts.
type Entry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsUser    bool      `json:"is_user"`
	Insights  []string  `json:"insights,omitempty"`
	Charts    []Chart   `json:"charts,omitempty"`
}

// NewUserEntry creates a user entry timestamped now.
func NewUserEntry(content string) Entry {
	return Entry{
		ID:        uuid.New().String(),
		Content:   content,
		Timestamp: time.Now(),
		IsUser:    true,
	}
}

// NewAssistantEntry creates an assistant entry timestamped now. Nil
// insights or charts become empty slices so consumers never see null.
func NewAssistantEntry(content string, insights []string, charts []Chart) Entry {
	if insights == nil {
		insights = []string{}
	}
	if charts == nil {
		charts = []Chart{}
	}
	return Entry{
		ID:        uuid.New().String(),
		Content:   content,
		Timestamp: time.Now(),
		IsUser:    false,
		Insights:  insights,
		Charts:    charts,
	}
}

// Log is the ordered conversation transcript. It is append-only: entries
// are never mutated or reordered after insertion, and insertion order is
// conversation order. Log is not safe for concurrent use; the owning
// engine serializes access.
type Log struct {
	entries []Entry
}

// Append adds an entry to the end of the transcript.
func (l *Log) Append(e Entry) {
	l.entries = append(l.entries, e)
}

// Reset drops every entry. Used when a session is destroyed or replaced;
// a fresh session always starts a fresh transcript.
func (l *Log) Reset() {
	l.entries = nil
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the transcript in insertion order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Last returns the most recent entry, if any.
func (l *Log) Last() (Entry, bool) {
	if len(l.entries) == 0 {
		return Entry{}, false
	}
	return l.entries[len(l.entries)-1], true
}
