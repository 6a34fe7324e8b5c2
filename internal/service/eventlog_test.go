package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLogNewestFirst(t *testing.T) {
	log := NewEventLog(100)

	log.Push(EventLogEntry{SenderID: "a", ReceivedAt: time.Now()})
	log.Push(EventLogEntry{SenderID: "b", ReceivedAt: time.Now()})
	log.Push(EventLogEntry{SenderID: "c", ReceivedAt: time.Now()})

	entries := log.Snapshot()
	require.Len(t, entries, 3)
	assert.Equal(t, "c", entries[0].SenderID)
	assert.Equal(t, "a", entries[2].SenderID)
}

func TestEventLogBounded(t *testing.T) {
	log := NewEventLog(100)

	for i := 0; i < 250; i++ {
		log.Push(EventLogEntry{SenderID: fmt.Sprintf("sender-%d", i)})
	}

	assert.Equal(t, 100, log.Len())
	entries := log.Snapshot()
	require.Len(t, entries, 100)
	// the newest entry survives, the oldest were evicted
	assert.Equal(t, "sender-249", entries[0].SenderID)
	assert.Equal(t, "sender-150", entries[99].SenderID)
}

func TestEventLogWrapAroundOrdering(t *testing.T) {
	log := NewEventLog(3)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		log.Push(EventLogEntry{SenderID: id})
	}

	entries := log.Snapshot()
	require.Len(t, entries, 3)
	assert.Equal(t, "e", entries[0].SenderID)
	assert.Equal(t, "d", entries[1].SenderID)
	assert.Equal(t, "c", entries[2].SenderID)
}

func TestEventLogSnapshotIsACopy(t *testing.T) {
	log := NewEventLog(10)
	log.Push(EventLogEntry{SenderID: "a"})

	snap := log.Snapshot()
	snap[0].SenderID = "mutated"

	assert.Equal(t, "a", log.Snapshot()[0].SenderID)
}

func TestEventLogConcurrentPush(t *testing.T) {
	log := NewEventLog(50)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				log.Push(EventLogEntry{SenderID: fmt.Sprintf("w%d-%d", n, j)})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, log.Len())
}
