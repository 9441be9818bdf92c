package store

import (
	"encoding/json"
	"time"
)

// Session is one ritual in progress or completed, with its full state
// serialized so a restarted server can pick it back up.
type Session struct {
	ID        string
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
	Status    string          // "active", "done", "abandoned"
	State     json.RawMessage // ritual.State, opaque to the store
}

// Memory is an archived reflection, the durable record a finished
// ritual leaves behind.
type Memory struct {
	ID        int64             `json:"id,omitempty"`
	CreatedAt time.Time         `json:"timestamp"`
	Title     string            `json:"title"`
	Offering  string            `json:"offering"`
	Summaries []LevelSummary    `json:"summaries"`
	Choice    string            `json:"archive_choice"`
	Artifact  string            `json:"artifact"`
	Meta      map[string]string `json:"meta,omitempty"`
}

// LevelSummary pairs a level name with its closing synthesis.
type LevelSummary struct {
	Level string `json:"level"`
	Text  string `json:"summary"`
}

// Key is the glob-matchable identity of a memory, <choice>/<title-slug>.
func (m Memory) Key() string {
	return m.Choice + "/" + Slug(m.Title)
}

// Card is a rendered artifact kept on disk beside the database,
// usually the HTML pond card of a finished ritual.
type Card struct {
	ID        string
	SessionID string
	Path      string // relative path in the card directory
	Kind      string // e.g. "pond_card", "transcript"
	CreatedAt time.Time
}

// MemoryItem is a memory scored against a query vector.
type MemoryItem struct {
	Memory     Memory
	Similarity float32
}

// Storage is the persistence boundary shared by the server and the CLI.
type Storage interface {
	// Sessions
	CreateSession(session *Session) error
	GetSession(id string) (*Session, error)
	UpdateSession(session *Session) error
	ListSessions(status string) ([]*Session, error)
	DeleteSession(id string) error

	// Memories
	AddMemory(memory *Memory, vector []float32) (int64, error)
	ListMemories() ([]Memory, error)
	SearchMemory(vector []float32, limit int) ([]MemoryItem, error)
	ExportJSONL(path string, match func(Memory) bool) (int, error)

	// Cards
	SaveCard(card *Card, content []byte) error
	GetCard(id string) (*Card, []byte, error)
	ListCards(sessionID string) ([]*Card, error)

	// Configuration
	SetConfig(key, value string) error
	GetConfig(key string) (string, error)

	Close() error
}
