package service

import (
	"sync"
	"time"
)

// EventLogEntry is one received webhook event kept for inspection
type EventLogEntry struct {
	ReceivedAt time.Time   `json:"received_at"`
	SenderID   string      `json:"sender_id"`
	Kind       string      `json:"kind"`
	Payload    interface{} `json:"payload"`
}

// EventLog keeps the most recent webhook events in a fixed-size ring,
// newest first. It is bounded so a busy page cannot grow it without limit.
type EventLog struct {
	mu      sync.Mutex
	entries []EventLogEntry
	head    int
	size    int
}

// NewEventLog creates an event log holding at most max entries.
func NewEventLog(max int) *EventLog {
	if max <= 0 {
		max = 100
	}
	return &EventLog{entries: make([]EventLogEntry, max)}
}

// Push records an entry at the head, overwriting the oldest slot when full.
func (l *EventLog) Push(entry EventLogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.entries)
	l.head = (l.head + n - 1) % n
	l.entries[l.head] = entry
	if l.size < n {
		l.size++
	}
}

// Snapshot returns a copy of the current entries, newest first.
func (l *EventLog) Snapshot() []EventLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]EventLogEntry, l.size)
	for i := 0; i < l.size; i++ {
		out[i] = l.entries[(l.head+i)%len(l.entries)]
	}
	return out
}

// Len reports the number of stored entries.
func (l *EventLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.size
}
