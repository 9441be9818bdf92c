package memory

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/pond/internal/observe"
	"github.com/felixgeelhaar/pond/internal/provider"
	"github.com/felixgeelhaar/pond/internal/store"
)

// noEmbed chats fine but cannot embed.
type noEmbed struct {
	*provider.StubProvider
}

func (noEmbed) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embedding unavailable")
}

func newTestPool(t *testing.T, p provider.Provider) (*Pool, store.Storage) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewSQLiteStore(filepath.Join(dir, "pond.db"), filepath.Join(dir, "cards"))
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewPool(p, s, observe.New(&bytes.Buffer{}, false)), s
}

func testMemory(title string) *store.Memory {
	return &store.Memory{
		CreatedAt: time.Now(),
		Title:     title,
		Offering:  "an offering",
		Summaries: []store.LevelSummary{{Level: "Descriptive", Text: "What happened."}},
		Choice:    "float",
		Artifact:  "A clear note about " + title + ".",
	}
}

func TestRememberAndRecall(t *testing.T) {
	ctx := context.Background()
	pool, _ := newTestPool(t, provider.NewStubProvider())

	id, err := pool.Remember(ctx, testMemory("The ferry crossing"))
	if err != nil {
		t.Fatalf("Remember failed: %v", err)
	}
	if id == 0 {
		t.Error("expected non-zero memory id")
	}

	echoes := pool.Recall(ctx, "crossing water at night", 3)
	if len(echoes) != 1 {
		t.Fatalf("expected one echo, got %d", len(echoes))
	}
	if !strings.Contains(echoes[0], "The ferry crossing") {
		t.Errorf("expected title in echo, got %q", echoes[0])
	}
	if !strings.Contains(echoes[0], "A clear note") {
		t.Errorf("expected artifact in echo, got %q", echoes[0])
	}
}

func TestRecallLimit(t *testing.T) {
	ctx := context.Background()
	pool, _ := newTestPool(t, provider.NewStubProvider())

	for _, title := range []string{"One", "Two", "Three", "Four"} {
		if _, err := pool.Remember(ctx, testMemory(title)); err != nil {
			t.Fatalf("Remember failed: %v", err)
		}
	}

	if got := pool.Recall(ctx, "anything", 2); len(got) != 2 {
		t.Errorf("expected 2 echoes, got %d", len(got))
	}
	if got := pool.Recall(ctx, "anything", 0); len(got) != DefaultEchoes {
		t.Errorf("expected default %d echoes, got %d", DefaultEchoes, len(got))
	}
}

func TestRecallDegradesSilently(t *testing.T) {
	ctx := context.Background()

	t.Run("empty query", func(t *testing.T) {
		pool, _ := newTestPool(t, provider.NewStubProvider())
		if got := pool.Recall(ctx, "   ", 3); got != nil {
			t.Errorf("expected nil echoes, got %v", got)
		}
	})

	t.Run("embed failure", func(t *testing.T) {
		pool, _ := newTestPool(t, noEmbed{provider.NewStubProvider()})
		if got := pool.Recall(ctx, "anything", 3); got != nil {
			t.Errorf("expected nil echoes on embed failure, got %v", got)
		}
	})
}

func TestRememberWithoutEmbedding(t *testing.T) {
	ctx := context.Background()
	pool, s := newTestPool(t, noEmbed{provider.NewStubProvider()})

	if _, err := pool.Remember(ctx, testMemory("Unembedded")); err != nil {
		t.Fatalf("Remember should not fail on embed error: %v", err)
	}

	memories, err := s.ListMemories()
	if err != nil {
		t.Fatalf("ListMemories failed: %v", err)
	}
	if len(memories) != 1 {
		t.Fatalf("expected memory stored without vector, got %d", len(memories))
	}

	// It never echoes without a vector.
	items, err := s.SearchMemory([]float32{0.1, 0.2, 0.3}, 3)
	if err != nil {
		t.Fatalf("SearchMemory failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no searchable items, got %d", len(items))
	}
}
