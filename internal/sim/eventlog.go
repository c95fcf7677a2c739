package sim

import (
	"sync"
	"time"

	"github.com/signalsfoundry/planetary-defense-sim/model"
)

// EventLog is the append-only, bounded record of notable occurrences. When
// the cap is reached the oldest entries are evicted first.
type EventLog struct {
	mu      sync.RWMutex
	cap     int
	entries []model.EventEntry
	// onAppend, when set, is invoked for every appended entry after it is
	// stored. The WebSocket hub uses it to push events live.
	onAppend func(model.EventEntry)
}

// NewEventLog creates a log bounded at cap entries.
func NewEventLog(cap int) *EventLog {
	if cap < 1 {
		cap = 1
	}
	return &EventLog{cap: cap}
}

// SetSink registers a callback fired on every append. Only one sink is
// supported; setting replaces the previous one.
func (l *EventLog) SetSink(fn func(model.EventEntry)) {
	l.mu.Lock()
	l.onAppend = fn
	l.mu.Unlock()
}

// Append records an entry, evicting the oldest when full.
func (l *EventLog) Append(ts time.Time, cat model.EventCategory, sev model.EventSeverity, objectID, msg string) {
	entry := model.EventEntry{
		Timestamp: ts,
		Category:  cat,
		Severity:  sev,
		ObjectID:  objectID,
		Message:   msg,
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
	sink := l.onAppend
	l.mu.Unlock()

	if sink != nil {
		sink(entry)
	}
}

// Snapshot returns a copy of the log, oldest first.
func (l *EventLog) Snapshot() []model.EventEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.EventEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the current entry count.
func (l *EventLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear empties the log. Used on full reset.
func (l *EventLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}
