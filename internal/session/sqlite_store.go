package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a session is not found.
var ErrNotFound = errors.New("session not found")

const sessionColumns = `id, title, status, summary, created_at, updated_at`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed session store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Create creates a new active session with the given ID and title.
func (s *SQLiteStore) Create(ctx context.Context, id, title string) (*Session, error) {
	now := time.Now().UnixMilli()

	row := s.db.QueryRowContext(ctx,
		`INSERT INTO chats (id, title, status, summary, created_at, updated_at)
		 VALUES (?, ?, 'active', '', ?, ?)
		 RETURNING `+sessionColumns,
		id, title, now, now)
	session, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}

// Get retrieves a session by ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM chats WHERE id = ?`, id)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return session, nil
}

// List returns all sessions ordered by created_at descending.
func (s *SQLiteStore) List(ctx context.Context) ([]*Session, error) {
	return s.query(ctx, `SELECT `+sessionColumns+` FROM chats ORDER BY created_at DESC, id`)
}

// ListSince returns sessions created at or after since, newest first.
func (s *SQLiteStore) ListSince(ctx context.Context, since time.Time) ([]*Session, error) {
	return s.query(ctx,
		`SELECT `+sessionColumns+` FROM chats WHERE created_at >= ? ORDER BY created_at DESC, id`,
		since.UnixMilli())
}

// UpdateTitle updates the title of a session.
func (s *SQLiteStore) UpdateTitle(ctx context.Context, id, title string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chats SET title = ?, updated_at = ? WHERE id = ?`,
		title, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("updating session title: %w", err)
	}
	return requireRow(res)
}

// End marks a session ended with the given summary.
func (s *SQLiteStore) End(ctx context.Context, id, summary string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE chats SET status = 'ended', summary = ?, updated_at = ? WHERE id = ?`,
		summary, time.Now().UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("ending session: %w", err)
	}
	return requireRow(res)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]*Session, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor.

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		s                    Session
		status               string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&s.ID, &s.Title, &status, &s.Summary, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	s.Status = Status(status)
	s.CreatedAt = time.UnixMilli(createdAt)
	s.UpdatedAt = time.UnixMilli(updatedAt)
	return &s, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
