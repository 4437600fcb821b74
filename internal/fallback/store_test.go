package fallback

import (
	"path/filepath"
	"testing"

	"orbis-relay/internal/webhook"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "pending.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func incident(id string) *webhook.Incident {
	return &webhook.Incident{
		IncidentID: id,
		CollectedData: webhook.CollectedData{
			Type:     "lixo",
			Location: "Rua A",
			Urgency:  webhook.UrgencyMedia,
			Photos:   []string{},
		},
		Timestamp: "2025-03-10T12:00:00Z",
	}
}

func TestPushDrainRoundTrip(t *testing.T) {
	store := openTestStore(t)

	if err := store.Push(incident("a")); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if err := store.Push(incident("b")); err != nil {
		t.Fatalf("Push failed: %v", err)
	}

	got, err := store.Drain()
	if err != nil {
		t.Fatalf("Drain failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Drain returned %d incidents, want 2", len(got))
	}
	if got[0].IncidentID != "a" || got[1].IncidentID != "b" {
		t.Errorf("Drain order = %q, %q, want insertion order", got[0].IncidentID, got[1].IncidentID)
	}
}

func TestDrainClears(t *testing.T) {
	store := openTestStore(t)

	if err := store.Push(incident("a")); err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if _, err := store.Drain(); err != nil {
		t.Fatalf("Drain failed: %v", err)
	}

	got, err := store.Drain()
	if err != nil {
		t.Fatalf("second Drain failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("second Drain returned %d incidents, want 0", len(got))
	}
}

func TestDrainOnEmptyStore(t *testing.T) {
	store := openTestStore(t)
	got, err := store.Drain()
	if err != nil {
		t.Fatalf("Drain on empty store failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("empty store returned %d incidents", len(got))
	}
}
