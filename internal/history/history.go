// Package history keeps capacity-bounded, insertion-ordered logs of recently
// evaluated chat messages and party finder listings, with their verdicts,
// for the reporting consumer.
package history

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xivtools/nosol/internal/chat"
)

// Entry is one evaluated message or listing. Entries are never mutated after
// they are appended.
type Entry struct {
	ID                string       `json:"id"`
	RecordedAt        time.Time    `json:"recorded_at"`
	Channel           chat.Channel `json:"channel"`
	ChannelName       string       `json:"channel_name"`
	SenderID          uint64       `json:"sender_id,omitempty"`
	Sender            string       `json:"sender"`
	Text              string       `json:"text"`
	Suppressed        bool         `json:"suppressed"`
	Reason            string       `json:"reason,omitempty"`
	ClassifierVersion string       `json:"classifier_version,omitempty"`
}

// NewEntry fills in the identifier, timestamp and channel name for an entry.
func NewEntry(e Entry) Entry {
	e.ID = uuid.NewString()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = time.Now().UTC()
	}

	e.ChannelName = e.Channel.String()

	return e
}

// Log is one bounded partition. Oldest entries are evicted on overflow.
type Log struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

// NewLog returns a log bounded at limit entries. A non-positive limit keeps
// the log unbounded.
func NewLog(limit int) *Log {
	return &Log{limit: limit}
}

// Append records e, evicting the oldest entries beyond the capacity bound.
func (l *Log) Append(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, e)

	if l.limit > 0 && len(l.entries) > l.limit {
		l.entries = append([]Entry(nil), l.entries[len(l.entries)-l.limit:]...)
	}
}

// Clear drops every entry.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
}

// Snapshot returns the entries in insertion order. The returned slice is a
// copy.
func (l *Log) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]Entry(nil), l.entries...)
}

// Len returns the current entry count.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.entries)
}

// Store bundles the two partitions: one for chat messages, one for party
// finder listings. Only the listing partition is ever cleared automatically
// (on a batch-number transition).
type Store struct {
	Chat     *Log
	Listings *Log
}

// NewStore returns a store with both partitions bounded at limit.
func NewStore(limit int) *Store {
	return &Store{
		Chat:     NewLog(limit),
		Listings: NewLog(limit),
	}
}
