package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JournalEntry is one persisted history record: what the command stack
// did, to which surface, and a snapshot of that surface's drawing layer
// right after the change.
type JournalEntry struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"sessionId"`
	Seq          int64     `json:"seq"`
	Op           string    `json:"op"`
	Label        string    `json:"label"`
	SurfaceID    string    `json:"surfaceId"`
	SnapshotJSON string    `json:"snapshotJson"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Journal entries kept per session; older entries are pruned on append.
const historyKeep = 40

// HistoryStore manages the history journal in SQLite.
type HistoryStore struct {
	db *DB
}

func NewHistoryStore(db *DB) *HistoryStore {
	return &HistoryStore{db: db}
}

// Append records one entry at the next sequence number for its session
// and prunes the session's journal to the newest entries.
func (s *HistoryStore) Append(sessionID, op, label, surfaceID, snapshotJSON string) (*JournalEntry, error) {
	var seq int64
	err := s.db.Conn().QueryRow(
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM history_entries WHERE session_id = ?`,
		sessionID,
	).Scan(&seq)
	if err != nil {
		return nil, fmt.Errorf("next history seq: %w", err)
	}

	entry := &JournalEntry{
		ID:           uuid.New().String(),
		SessionID:    sessionID,
		Seq:          seq,
		Op:           op,
		Label:        label,
		SurfaceID:    surfaceID,
		SnapshotJSON: snapshotJSON,
		CreatedAt:    time.Now(),
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO history_entries (id, session_id, seq, op, label, surface_id, snapshot_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.SessionID, entry.Seq, entry.Op, entry.Label,
		entry.SurfaceID, entry.SnapshotJSON, entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert history entry: %w", err)
	}

	s.pruneIfNeeded(sessionID)
	return entry, nil
}

// List returns a session's newest entries, most recent first.
func (s *HistoryStore) List(sessionID string, limit int) ([]JournalEntry, error) {
	if limit <= 0 || limit > historyKeep {
		limit = historyKeep
	}
	rows, err := s.db.Conn().Query(
		`SELECT id, session_id, seq, op, label, surface_id, snapshot_json, created_at
		 FROM history_entries WHERE session_id = ? ORDER BY seq DESC LIMIT ?`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Op, &e.Label,
			&e.SurfaceID, &e.SnapshotJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Latest returns the most recent entry for a surface within a session,
// or nil when the surface has no journaled state.
func (s *HistoryStore) Latest(sessionID, surfaceID string) (*JournalEntry, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, session_id, seq, op, label, surface_id, snapshot_json, created_at
		 FROM history_entries WHERE session_id = ? AND surface_id = ?
		 ORDER BY seq DESC LIMIT 1`,
		sessionID, surfaceID,
	)
	var e JournalEntry
	err := row.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Op, &e.Label,
		&e.SurfaceID, &e.SnapshotJSON, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest history entry: %w", err)
	}
	return &e, nil
}

// ClearSession drops a session's journal.
func (s *HistoryStore) ClearSession(sessionID string) error {
	_, err := s.db.Conn().Exec(
		`DELETE FROM history_entries WHERE session_id = ?`, sessionID,
	)
	if err != nil {
		return fmt.Errorf("clear session history: %w", err)
	}
	return nil
}

func (s *HistoryStore) pruneIfNeeded(sessionID string) {
	// Best effort: a failed prune only delays reclamation.
	s.db.Conn().Exec(
		`DELETE FROM history_entries WHERE session_id = ? AND seq <= (
			SELECT COALESCE(MAX(seq), 0) - ? FROM history_entries WHERE session_id = ?
		)`,
		sessionID, historyKeep, sessionID,
	)
}
