package message

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const messageColumns = `id, chat_id, role, content, created_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed message store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create inserts msg, filling in CreatedAt when unset.
func (s *SQLiteStore) Create(ctx context.Context, msg *Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chat_messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.SessionID, string(msg.Role), msg.Content, msg.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("creating message: %w", err)
	}
	return nil
}

// GetBySession returns all messages for a session ordered by created_at.
func (s *SQLiteStore) GetBySession(ctx context.Context, sessionID string) ([]*Message, error) {
	return s.query(ctx,
		`SELECT `+messageColumns+` FROM chat_messages
		 WHERE chat_id = ? ORDER BY created_at, rowid`, sessionID)
}

// GetLatest returns the last limit messages of a session, oldest first.
func (s *SQLiteStore) GetLatest(ctx context.Context, sessionID string, limit int) ([]*Message, error) {
	return s.query(ctx,
		`SELECT `+messageColumns+` FROM (
			SELECT `+messageColumns+`, rowid AS seq FROM chat_messages
			WHERE chat_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?
		 ) ORDER BY created_at, seq`, sessionID, limit)
}

// Count returns the number of messages in a session.
func (s *SQLiteStore) Count(ctx context.Context, sessionID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE chat_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]*Message, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor.

	var msgs []*Message
	for rows.Next() {
		var (
			m         Message
			role      string
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.SessionID, &role, &m.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Role = Role(role)
		m.CreatedAt = time.UnixMilli(createdAt)
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	return msgs, nil
}
