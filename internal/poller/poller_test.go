package poller

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"orbis-relay/internal/queue"
	"orbis-relay/internal/tasks"
	"orbis-relay/internal/webhook"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEgress serves a fixed entry set from /webhook-inject and records the
// cursors it was asked for.
type fakeEgress struct {
	mu      sync.Mutex
	entries []queue.Entry
	current int64
	sinces  []int64
}

func (f *fakeEgress) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		f.mu.Lock()
		f.sinces = append(f.sinces, since)
		resp := map[string]any{
			"success":           true,
			"webhooks":          f.entries,
			"count":             len(f.entries),
			"total_in_queue":    len(f.entries),
			"current_timestamp": f.current,
			"timestamp":         time.Now().Format(time.RFC3339),
		}
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})
}

func entry(id, typ string) queue.Entry {
	return queue.Entry{
		Incident: webhook.Incident{
			IncidentID: id,
			CollectedData: webhook.CollectedData{
				Type:     typ,
				Location: "Rua A",
				Urgency:  webhook.UrgencyMedia,
			},
			AIAnalysis: webhook.AIAnalysis{Confidence: 85, Priority: webhook.UrgencyMedia},
			Timestamp:  "2025-03-10T12:00:00Z",
		},
		ID:                id,
		InjectedAt:        "2025-03-10T12:00:00Z",
		InjectedTimestamp: 1741608000000,
		SessionID:         "s-" + id,
	}
}

type countingNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *countingNotifier) Notify(string, string) {
	n.mu.Lock()
	n.count++
	n.mu.Unlock()
}

func (n *countingNotifier) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}

func TestPollOnceCreatesTasks(t *testing.T) {
	egress := &fakeEgress{entries: []queue.Entry{entry("x1", "lixo")}, current: 42}
	ts := httptest.NewServer(egress.handler())
	defer ts.Close()

	cache := tasks.NewCache()
	notifier := &countingNotifier{}
	p := New(ts.URL, cache, testLogger(), Options{Notifier: notifier})

	if err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce failed: %v", err)
	}

	got, ok := cache.Get("x1")
	if !ok {
		t.Fatal("task x1 missing from cache")
	}
	if got.Type != "trash" || got.Status != tasks.StatusTodo || got.Source != tasks.SourcePopulation {
		t.Errorf("unexpected task projection: %+v", got)
	}
	if notifier.Count() != 1 {
		t.Errorf("notifications = %d, want 1", notifier.Count())
	}
}

func TestRedeliveryIsDeduplicated(t *testing.T) {
	egress := &fakeEgress{entries: []queue.Entry{entry("dup1", "lixo"), entry("dup1", "lixo")}, current: 1}
	ts := httptest.NewServer(egress.handler())
	defer ts.Close()

	cache := tasks.NewCache()
	notifier := &countingNotifier{}
	p := New(ts.URL, cache, testLogger(), Options{Notifier: notifier})

	// Two poll cycles over a server that never advances its cursor.
	for i := 0; i < 2; i++ {
		if err := p.PollOnce(context.Background()); err != nil {
			t.Fatalf("PollOnce failed: %v", err)
		}
	}

	if cache.Len() != 1 {
		t.Fatalf("cache holds %d tasks for dup1, want exactly 1", cache.Len())
	}
	if notifier.Count() != 1 {
		t.Errorf("notifications = %d, want exactly 1", notifier.Count())
	}
}

func TestCacheDedupCatchesSeenSetReset(t *testing.T) {
	egress := &fakeEgress{entries: []queue.Entry{entry("dup2", "crime")}, current: 1}
	ts := httptest.NewServer(egress.handler())
	defer ts.Close()

	cache := tasks.NewCache()
	p := New(ts.URL, cache, testLogger(), Options{})

	if err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce failed: %v", err)
	}
	// Simulate the periodic seen-set reset, then re-deliver the same id.
	p.resetSeen()
	if err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce failed: %v", err)
	}

	if cache.Len() != 1 {
		t.Fatalf("cache-level dedup failed: %d tasks for dup2", cache.Len())
	}
}

func TestCursorAdvancesToCurrentTimestamp(t *testing.T) {
	egress := &fakeEgress{current: 4242}
	ts := httptest.NewServer(egress.handler())
	defer ts.Close()

	p := New(ts.URL, tasks.NewCache(), testLogger(), Options{})

	if err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce failed: %v", err)
	}
	if p.Cursor() != 4242 {
		t.Fatalf("cursor = %d, want 4242", p.Cursor())
	}

	if err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("second PollOnce failed: %v", err)
	}
	egress.mu.Lock()
	defer egress.mu.Unlock()
	if len(egress.sinces) != 2 || egress.sinces[1] != 4242 {
		t.Errorf("server saw cursors %v, want second request at 4242", egress.sinces)
	}
}

// fakePending returns its incidents once, then nothing, like a drained store.
type fakePending struct {
	mu        sync.Mutex
	incidents []webhook.Incident
}

func (f *fakePending) Drain() ([]webhook.Incident, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.incidents
	f.incidents = nil
	return out, nil
}

func TestFallbackChannelSharesDedup(t *testing.T) {
	egress := &fakeEgress{entries: []queue.Entry{entry("f1", "inundacao")}, current: 1}
	ts := httptest.NewServer(egress.handler())
	defer ts.Close()

	cache := tasks.NewCache()
	pending := &fakePending{incidents: []webhook.Incident{entry("f1", "inundacao").Incident}}
	p := New(ts.URL, cache, testLogger(), Options{Fallback: pending})

	if err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce failed: %v", err)
	}
	p.PollFallback()

	if cache.Len() != 1 {
		t.Fatalf("fallback channel bypassed dedup: %d tasks", cache.Len())
	}
}

func TestPollErrorIsSwallowedByRun(t *testing.T) {
	cache := tasks.NewCache()
	// Point at a closed server so every poll fails.
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	p := New(ts.URL, cache, testLogger(), Options{
		PollInterval:     5 * time.Millisecond,
		FallbackInterval: 5 * time.Millisecond,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	if err := p.Run(ctx); err != nil {
		t.Fatalf("Run should swallow poll failures, got %v", err)
	}
}
