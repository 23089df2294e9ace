// Package sqlite persists QA service snapshots so the CLI's index
// survives between invocations. Vectors are not stored; they are
// rebuilt from text and vocabulary on load.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"vindex/internal/domain"
	"vindex/internal/qa"
)

const schema = `
CREATE TABLE IF NOT EXISTS vocab (
	token TEXT PRIMARY KEY,
	idx   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS entries (
	id   INTEGER PRIMARY KEY,
	text TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS chunk_meta (
	entry_id  INTEGER PRIMARY KEY,
	doc_id    TEXT NOT NULL,
	chunk_idx INTEGER NOT NULL,
	start_off INTEGER NOT NULL,
	end_off   INTEGER NOT NULL,
	source    TEXT
);
CREATE TABLE IF NOT EXISTS state (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

// Store is a snapshot store backed by a single sqlite file.
type Store struct {
	db *sql.DB
}

// Open creates the database file (and parent directories) if needed and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the stored snapshot in one transaction.
func (s *Store) Save(snap qa.Snapshot) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	for _, table := range []string{"vocab", "entries", "chunk_meta", "state"} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for token, idx := range snap.Vocab {
		if _, err = tx.Exec("INSERT INTO vocab (token, idx) VALUES (?, ?)", token, idx); err != nil {
			return fmt.Errorf("save vocab: %w", err)
		}
	}
	for _, e := range snap.Index.Entries {
		if _, err = tx.Exec("INSERT INTO entries (id, text) VALUES (?, ?)", e.ID, e.Text); err != nil {
			return fmt.Errorf("save entry %d: %w", e.ID, err)
		}
	}
	for id, m := range snap.Meta {
		var source []byte
		if m.Source != nil {
			if source, err = json.Marshal(m.Source); err != nil {
				return fmt.Errorf("encode meta source: %w", err)
			}
		}
		_, err = tx.Exec(
			"INSERT INTO chunk_meta (entry_id, doc_id, chunk_idx, start_off, end_off, source) VALUES (?, ?, ?, ?, ?, ?)",
			id, m.DocID, m.ChunkIndex, m.Start, m.End, nullableText(source),
		)
		if err != nil {
			return fmt.Errorf("save meta %d: %w", id, err)
		}
	}
	if _, err = tx.Exec("INSERT INTO state (key, value) VALUES ('next_id', ?)", snap.Index.NextID); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return tx.Commit()
}

// Load reads the stored snapshot. The second return is false when the
// store has never been saved to.
func (s *Store) Load() (qa.Snapshot, bool, error) {
	snap := qa.Snapshot{
		Vocab: make(map[string]int),
		Meta:  make(map[int]domain.ChunkMeta),
	}
	var nextID int
	err := s.db.QueryRow("SELECT value FROM state WHERE key = 'next_id'").Scan(&nextID)
	if errors.Is(err, sql.ErrNoRows) {
		return qa.Snapshot{}, false, nil
	}
	if err != nil {
		return qa.Snapshot{}, false, fmt.Errorf("load state: %w", err)
	}
	snap.Index.NextID = nextID

	rows, err := s.db.Query("SELECT token, idx FROM vocab")
	if err != nil {
		return qa.Snapshot{}, false, fmt.Errorf("load vocab: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var token string
		var idx int
		if err := rows.Scan(&token, &idx); err != nil {
			return qa.Snapshot{}, false, err
		}
		snap.Vocab[token] = idx
	}
	if err := rows.Err(); err != nil {
		return qa.Snapshot{}, false, err
	}

	// Ascending id order restores the original insertion order, which
	// search relies on as the tie-break.
	entryRows, err := s.db.Query("SELECT id, text FROM entries ORDER BY id")
	if err != nil {
		return qa.Snapshot{}, false, fmt.Errorf("load entries: %w", err)
	}
	defer entryRows.Close()
	for entryRows.Next() {
		var e domain.IndexEntry
		if err := entryRows.Scan(&e.ID, &e.Text); err != nil {
			return qa.Snapshot{}, false, err
		}
		snap.Index.Entries = append(snap.Index.Entries, e)
	}
	if err := entryRows.Err(); err != nil {
		return qa.Snapshot{}, false, err
	}

	metaRows, err := s.db.Query("SELECT entry_id, doc_id, chunk_idx, start_off, end_off, source FROM chunk_meta")
	if err != nil {
		return qa.Snapshot{}, false, fmt.Errorf("load meta: %w", err)
	}
	defer metaRows.Close()
	for metaRows.Next() {
		var id int
		var m domain.ChunkMeta
		var source sql.NullString
		if err := metaRows.Scan(&id, &m.DocID, &m.ChunkIndex, &m.Start, &m.End, &source); err != nil {
			return qa.Snapshot{}, false, err
		}
		if source.Valid && source.String != "" {
			if err := json.Unmarshal([]byte(source.String), &m.Source); err != nil {
				return qa.Snapshot{}, false, fmt.Errorf("decode meta source %d: %w", id, err)
			}
		}
		snap.Meta[id] = m
	}
	if err := metaRows.Err(); err != nil {
		return qa.Snapshot{}, false, err
	}
	return snap, true, nil
}

func nullableText(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
