package queue

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"orbis-relay/internal/webhook"
)

// DefaultTTL is how long an entry stays deliverable after injection.
const DefaultTTL = 60 * time.Second

// rfc3339Milli matches the millisecond ISO strings the rest of the wire
// format uses, so injected_at and injected_timestamp agree exactly.
const rfc3339Milli = "2006-01-02T15:04:05.000Z07:00"

// Entry is a normalized incident sitting in the pending queue. The incident
// fields are inlined so wire payloads match the canonical webhook shape with
// the queue metadata alongside.
type Entry struct {
	webhook.Incident
	ID                string `json:"id"`
	InjectedAt        string `json:"injected_at"`
	InjectedTimestamp int64  `json:"injected_timestamp"`
	SessionID         string `json:"session_id"`
}

// Queue holds pending incidents in process memory until clients poll them
// out. State lives only in this process: a restart loses everything, and no
// cross-instance sharing is attempted here.
type Queue struct {
	mu      sync.Mutex
	entries []Entry
	ttl     time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

func New(logger *slog.Logger) *Queue {
	return NewWithClock(logger, DefaultTTL, time.Now)
}

// NewWithClock injects the TTL and clock so eviction is testable without
// real timers.
func NewWithClock(logger *slog.Logger, ttl time.Duration, now func() time.Time) *Queue {
	return &Queue{
		ttl:    ttl,
		now:    now,
		logger: logger,
	}
}

// Enqueue appends a normalized incident and returns the stored entry.
// There is no dedup at this layer: re-ingesting an incident id creates a
// second entry, and clients are expected to collapse duplicates.
func (q *Queue) Enqueue(inc *webhook.Incident) Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sweepExpired()

	now := q.now()
	id := inc.IncidentID
	if id == "" {
		// Epoch-ms fallback, same as the id the entry timestamp carries.
		// Can collide under rapid bursts.
		id = strconv.FormatInt(now.UnixMilli(), 10)
	}

	entry := Entry{
		Incident:          *inc,
		ID:                id,
		InjectedAt:        now.UTC().Format(rfc3339Milli),
		InjectedTimestamp: now.UnixMilli(),
		SessionID:         uuid.NewString(),
	}
	q.entries = append(q.entries, entry)
	q.logger.Debug("incident queued", "id", entry.ID, "queue_length", len(q.entries))
	return entry
}

// ListSince returns, in insertion order, every unexpired entry injected
// strictly after sinceMs. It never mutates the stored entries, so repeated
// calls with the same cursor return the same items.
func (q *Queue) ListSince(sinceMs int64) []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sweepExpired()

	out := make([]Entry, 0, len(q.entries))
	for _, e := range q.entries {
		if e.InjectedTimestamp > sinceMs {
			out = append(out, e)
		}
	}
	return out
}

// Poll returns the entries injected strictly after sinceMs together with the
// cursor for the next poll. The cursor is read under the same lock as the
// listing and sits one millisecond below the clock, so an entry enqueued
// after Poll returns always lands strictly after the cursor. An entry sharing
// the cursor's millisecond can be delivered twice; clients collapse those.
func (q *Queue) Poll(sinceMs int64) ([]Entry, int64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sweepExpired()

	out := make([]Entry, 0, len(q.entries))
	for _, e := range q.entries {
		if e.InjectedTimestamp > sinceMs {
			out = append(out, e)
		}
	}
	return out, q.now().UnixMilli() - 1
}

// Drain returns all unexpired entries and clears the queue. This is the
// legacy single-consumer read; concurrent pollers should use ListSince.
func (q *Queue) Drain() []Entry {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sweepExpired()

	out := q.entries
	q.entries = nil
	return out
}

// Len reports the number of unexpired entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sweepExpired()
	return len(q.entries)
}

// sweepExpired lazily evicts entries older than the TTL. Called under the
// lock before every read or write; there is no background timer.
func (q *Queue) sweepExpired() {
	nowMs := q.now().UnixMilli()
	kept := q.entries[:0]
	evicted := 0
	for _, e := range q.entries {
		if nowMs-e.InjectedTimestamp >= q.ttl.Milliseconds() {
			evicted++
			continue
		}
		kept = append(kept, e)
	}
	q.entries = kept
	if evicted > 0 {
		q.logger.Debug("expired incidents evicted", "count", evicted, "remaining", len(q.entries))
	}
}
