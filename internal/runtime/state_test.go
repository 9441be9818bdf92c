package runtime

import (
	"path/filepath"
	"testing"

	"github.com/felixgeelhaar/pond/internal/ritual"
	"github.com/felixgeelhaar/pond/internal/store"
)

func newTestStorage(t *testing.T) store.Storage {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewSQLiteStore(filepath.Join(dir, "pond.db"), filepath.Join(dir, "cards"))
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStateManager_TrackAndGet(t *testing.T) {
	sm := NewStateManager(newTestStorage(t))

	st := ritual.NewState("The ferry crossing", "We stood at the rail.")
	if err := sm.Track("s1", st); err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	got, err := sm.Get("s1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != st {
		t.Error("expected the tracked state back")
	}

	if _, err := sm.Get("missing"); err == nil {
		t.Error("expected error for unknown session")
	}
}

func TestStateManager_Rehydrate(t *testing.T) {
	storage := newTestStorage(t)
	sm := NewStateManager(storage)

	st := ritual.NewState("Rehydration", "An offering.")
	st.Level = 1
	st.Round = 2
	st.Summaries = append(st.Summaries, ritual.Summary{Level: "Descriptive", Text: "What happened."})
	if err := sm.Track("s1", st); err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if err := sm.Persist("s1", "active"); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	// A fresh manager over the same store simulates a restart.
	sm2 := NewStateManager(storage)
	got, err := sm2.Get("s1")
	if err != nil {
		t.Fatalf("Get after restart failed: %v", err)
	}
	if got.Level != 1 || got.Round != 2 {
		t.Errorf("expected level 1 round 2, got level %d round %d", got.Level, got.Round)
	}
	if len(got.Summaries) != 1 {
		t.Errorf("expected one summary, got %d", len(got.Summaries))
	}
	if got.Title != "Rehydration" {
		t.Errorf("expected title preserved, got %q", got.Title)
	}
}

func TestStateManager_Persist(t *testing.T) {
	storage := newTestStorage(t)
	sm := NewStateManager(storage)

	st := ritual.NewState("Persist", "An offering.")
	if err := sm.Track("s1", st); err != nil {
		t.Fatalf("Track failed: %v", err)
	}

	st.Phase = ritual.PhaseDone
	if err := sm.Persist("s1", "done"); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	session, err := storage.GetSession("s1")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if session.Status != "done" {
		t.Errorf("expected status done, got %q", session.Status)
	}

	if err := sm.Persist("untracked", "active"); err == nil {
		t.Error("expected error persisting untracked session")
	}
}

func TestStateManager_Forget(t *testing.T) {
	storage := newTestStorage(t)
	sm := NewStateManager(storage)

	if err := sm.Track("s1", ritual.NewState("Forget", "x")); err != nil {
		t.Fatalf("Track failed: %v", err)
	}
	if len(sm.Active()) != 1 {
		t.Fatalf("expected one active session")
	}

	sm.Forget("s1")
	if len(sm.Active()) != 0 {
		t.Error("expected no active sessions after Forget")
	}

	// Forget leaves the store row, so the session rehydrates.
	if _, err := sm.Get("s1"); err != nil {
		t.Errorf("expected rehydration after Forget, got %v", err)
	}
}
