package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/guilhermegouw/parley/internal/db"
)

// setupTestDB opens a migrated database in a temporary directory.
func setupTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // Intentionally ignoring close error in test cleanup

	return database
}

func TestSQLiteStore_Create(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t).Conn())
	ctx := context.Background()

	t.Run("creates active session", func(t *testing.T) {
		session, err := store.Create(ctx, "test-id", "Test Session")
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if session.ID != "test-id" || session.Title != "Test Session" {
			t.Errorf("got %+v", session)
		}
		if session.Status != StatusActive || session.Ended() {
			t.Errorf("Status = %q, want active", session.Status)
		}
		if session.Summary != "" {
			t.Errorf("Summary = %q, want empty", session.Summary)
		}
		if session.CreatedAt.IsZero() || session.UpdatedAt.IsZero() {
			t.Error("timestamps should be set")
		}
	})

	t.Run("fails on duplicate ID", func(t *testing.T) {
		if _, err := store.Create(ctx, "dup-id", "First"); err != nil {
			t.Fatalf("first Create() error = %v", err)
		}
		if _, err := store.Create(ctx, "dup-id", "Second"); err == nil {
			t.Error("expected error for duplicate ID, got nil")
		}
	})
}

func TestSQLiteStore_Get(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t).Conn())
	ctx := context.Background()

	if _, err := store.Create(ctx, "get-test", "Title"); err != nil {
		t.Fatal(err)
	}

	t.Run("returns existing session", func(t *testing.T) {
		session, err := store.Get(ctx, "get-test")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if session.Title != "Title" {
			t.Errorf("Title = %q", session.Title)
		}
	})

	t.Run("returns ErrNotFound for unknown ID", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSQLiteStore_UpdateTitleAndEnd(t *testing.T) {
	store := NewSQLiteStore(setupTestDB(t).Conn())
	ctx := context.Background()

	if _, err := store.Create(ctx, "s1", ""); err != nil {
		t.Fatal(err)
	}

	if err := store.UpdateTitle(ctx, "s1", "Greetings"); err != nil {
		t.Fatalf("UpdateTitle() error = %v", err)
	}
	if err := store.End(ctx, "s1", "Discussed greetings."); err != nil {
		t.Fatalf("End() error = %v", err)
	}

	session, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if session.Title != "Greetings" {
		t.Errorf("Title = %q", session.Title)
	}
	if !session.Ended() || session.Summary != "Discussed greetings." {
		t.Errorf("got status=%q summary=%q", session.Status, session.Summary)
	}

	if err := store.UpdateTitle(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTitle(missing) err = %v, want ErrNotFound", err)
	}
	if err := store.End(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("End(missing) err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStore_ListSince(t *testing.T) {
	database := setupTestDB(t)
	store := NewSQLiteStore(database.Conn())
	ctx := context.Background()

	now := time.Now()
	rows := []struct {
		id      string
		created time.Time
	}{
		{"old", now.Add(-48 * time.Hour)},
		{"earlier", now.Add(-2 * time.Minute)},
		{"latest", now.Add(-1 * time.Minute)},
	}
	for _, r := range rows {
		_, err := database.Conn().ExecContext(ctx,
			`INSERT INTO chats (id, created_at, updated_at) VALUES (?, ?, ?)`,
			r.id, r.created.UnixMilli(), r.created.UnixMilli())
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.ListSince(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ListSince() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "latest" || got[1].ID != "earlier" {
		ids := make([]string, len(got))
		for i, s := range got {
			ids[i] = s.ID
		}
		t.Errorf("ListSince() = %v, want [latest earlier]", ids)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[2].ID != "old" {
		t.Errorf("List() returned %d sessions", len(all))
	}
}
