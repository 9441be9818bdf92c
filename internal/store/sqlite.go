package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var slugRx = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases a title into a filesystem and glob friendly form.
func Slug(title string) string {
	s := slugRx.ReplaceAllString(strings.ToLower(strings.TrimSpace(title)), "-")
	return strings.Trim(s, "-")
}

type SQLiteStore struct {
	db      *sql.DB
	cardDir string
}

func NewSQLiteStore(dbPath, cardDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}
	if err := os.MkdirAll(cardDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create card directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db, cardDir: cardDir}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			title TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			status TEXT,
			state TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS memories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at DATETIME,
			title TEXT,
			offering TEXT,
			summaries TEXT,
			choice TEXT,
			artifact TEXT,
			meta TEXT,
			vector BLOB
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			session_id TEXT,
			path TEXT,
			kind TEXT,
			created_at DATETIME,
			FOREIGN KEY(session_id) REFERENCES sessions(id)
		);`,
		`CREATE TABLE IF NOT EXISTS configuration (
			key TEXT PRIMARY KEY,
			value TEXT
		);`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Configuration

func (s *SQLiteStore) SetConfig(key, value string) error {
	query := `INSERT INTO configuration (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	_, err := s.db.Exec(query, key, value)
	return err
}

func (s *SQLiteStore) GetConfig(key string) (string, error) {
	row := s.db.QueryRow(`SELECT value FROM configuration WHERE key = ?`, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Sessions

func (s *SQLiteStore) CreateSession(session *Session) error {
	query := `INSERT INTO sessions (id, title, created_at, updated_at, status, state) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query, session.ID, session.Title, session.CreatedAt, session.UpdatedAt, session.Status, string(session.State))
	return err
}

func (s *SQLiteStore) GetSession(id string) (*Session, error) {
	row := s.db.QueryRow(`SELECT id, title, created_at, updated_at, status, state FROM sessions WHERE id = ?`, id)

	var session Session
	var state string
	if err := row.Scan(&session.ID, &session.Title, &session.CreatedAt, &session.UpdatedAt, &session.Status, &state); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session not found: %s", id)
		}
		return nil, err
	}
	session.State = json.RawMessage(state)
	return &session, nil
}

func (s *SQLiteStore) UpdateSession(session *Session) error {
	query := `UPDATE sessions SET updated_at = ?, status = ?, state = ? WHERE id = ?`
	_, err := s.db.Exec(query, time.Now(), session.Status, string(session.State), session.ID)
	return err
}

func (s *SQLiteStore) ListSessions(status string) ([]*Session, error) {
	query := `SELECT id, title, created_at, updated_at, status, state FROM sessions`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		var sess Session
		var state string
		if err := rows.Scan(&sess.ID, &sess.Title, &sess.CreatedAt, &sess.UpdatedAt, &sess.Status, &state); err != nil {
			return nil, err
		}
		sess.State = json.RawMessage(state)
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

func (s *SQLiteStore) DeleteSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// Cards

func (s *SQLiteStore) SaveCard(card *Card, content []byte) error {
	fullPath := filepath.Join(s.cardDir, card.Path)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0750); err != nil {
		return fmt.Errorf("failed to create card dir: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write card content: %w", err)
	}

	query := `INSERT INTO cards (id, session_id, path, kind, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query, card.ID, card.SessionID, card.Path, card.Kind, card.CreatedAt)
	return err
}

func (s *SQLiteStore) GetCard(id string) (*Card, []byte, error) {
	row := s.db.QueryRow(`SELECT id, session_id, path, kind, created_at FROM cards WHERE id = ?`, id)

	var card Card
	if err := row.Scan(&card.ID, &card.SessionID, &card.Path, &card.Kind, &card.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("card not found: %s", id)
		}
		return nil, nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.cardDir, card.Path)) // #nosec G304
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read card content: %w", err)
	}
	return &card, content, nil
}

func (s *SQLiteStore) ListCards(sessionID string) ([]*Card, error) {
	rows, err := s.db.Query(`SELECT id, session_id, path, kind, created_at FROM cards WHERE session_id = ?`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []*Card
	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.SessionID, &c.Path, &c.Kind, &c.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, &c)
	}
	return cards, rows.Err()
}
