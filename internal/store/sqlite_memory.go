package store

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
)

func (s *SQLiteStore) AddMemory(memory *Memory, vector []float32) (int64, error) {
	var vecBlob []byte
	if len(vector) > 0 {
		vecBuf := new(bytes.Buffer)
		if err := binary.Write(vecBuf, binary.LittleEndian, vector); err != nil {
			return 0, fmt.Errorf("failed to encode vector: %w", err)
		}
		vecBlob = vecBuf.Bytes()
	}

	sumJSON, err := json.Marshal(memory.Summaries)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal summaries: %w", err)
	}
	metaJSON, err := json.Marshal(memory.Meta)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal meta: %w", err)
	}

	query := `INSERT INTO memories (created_at, title, offering, summaries, choice, artifact, meta, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.Exec(query, memory.CreatedAt, memory.Title, memory.Offering,
		string(sumJSON), memory.Choice, memory.Artifact, string(metaJSON), vecBlob)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) ListMemories() ([]Memory, error) {
	rows, err := s.db.Query(`SELECT id, created_at, title, offering, summaries, choice, artifact, meta
		FROM memories ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memories []Memory
	for rows.Next() {
		m, err := scanMemory(rows.Scan)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

func scanMemory(scan func(...any) error) (Memory, error) {
	var m Memory
	var sumJSON, metaJSON string
	if err := scan(&m.ID, &m.CreatedAt, &m.Title, &m.Offering, &sumJSON, &m.Choice, &m.Artifact, &metaJSON); err != nil {
		return Memory{}, err
	}
	if err := json.Unmarshal([]byte(sumJSON), &m.Summaries); err != nil {
		return Memory{}, fmt.Errorf("failed to unmarshal summaries: %w", err)
	}
	if metaJSON != "" && metaJSON != "null" {
		if err := json.Unmarshal([]byte(metaJSON), &m.Meta); err != nil {
			return Memory{}, fmt.Errorf("failed to unmarshal meta: %w", err)
		}
	}
	return m, nil
}

// SearchMemory loads every stored vector and scores it against the query.
// Linear scan is fine at journal scale.
func (s *SQLiteStore) SearchMemory(queryVector []float32, limit int) ([]MemoryItem, error) {
	rows, err := s.db.Query(`SELECT id, created_at, title, offering, summaries, choice, artifact, meta, vector
		FROM memories WHERE vector IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []MemoryItem
	for rows.Next() {
		var m Memory
		var sumJSON, metaJSON string
		var vecBlob []byte
		if err := rows.Scan(&m.ID, &m.CreatedAt, &m.Title, &m.Offering, &sumJSON, &m.Choice, &m.Artifact, &metaJSON, &vecBlob); err != nil {
			continue
		}
		if len(vecBlob) == 0 {
			continue
		}
		json.Unmarshal([]byte(sumJSON), &m.Summaries)
		json.Unmarshal([]byte(metaJSON), &m.Meta)

		vector := make([]float32, len(vecBlob)/4)
		if err := binary.Read(bytes.NewReader(vecBlob), binary.LittleEndian, &vector); err != nil {
			continue
		}

		scored = append(scored, MemoryItem{
			Memory:     m,
			Similarity: cosineSimilarity(queryVector, vector),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, rows.Err()
}

// ExportJSONL writes matching memories to a JSONL file, one record per
// line, and reports how many were written. A nil match exports all.
func (s *SQLiteStore) ExportJSONL(path string, match func(Memory) bool) (int, error) {
	memories, err := s.ListMemories()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return 0, fmt.Errorf("failed to create export dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return 0, fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	count := 0
	for _, m := range memories {
		if match != nil && !match(m) {
			continue
		}
		line, err := json.Marshal(m)
		if err != nil {
			return count, fmt.Errorf("failed to marshal memory %d: %w", m.ID, err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return count, err
		}
		count++
	}
	if err := w.Flush(); err != nil {
		return count, err
	}
	return count, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, magA, magB float32
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (float32(math.Sqrt(float64(magA))) * float32(math.Sqrt(float64(magB))))
}
