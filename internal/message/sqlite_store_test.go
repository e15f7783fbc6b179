package message

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/guilhermegouw/parley/internal/db"
)

// setupTestStore opens a migrated database holding one chat "s1".
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	database, err := db.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() }) //nolint:errcheck // Intentionally ignoring close error in test cleanup

	_, err = database.Conn().Exec(`INSERT INTO chats (id, created_at, updated_at) VALUES ('s1', 0, 0)`)
	if err != nil {
		t.Fatal(err)
	}
	return NewSQLiteStore(database.Conn())
}

func TestSQLiteStore_CreateAndGetBySession(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i, content := range []string{"Hello", "Hi there", "Bye"} {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		msg := &Message{
			ID:        fmt.Sprintf("m%d", i),
			SessionID: "s1",
			Role:      role,
			Content:   content,
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.Create(ctx, msg); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	got, err := store.GetBySession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetBySession() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Content != "Hello" || got[1].Role != RoleAssistant || got[2].Content != "Bye" {
		t.Errorf("unexpected order: %+v %+v %+v", got[0], got[1], got[2])
	}

	n, err := store.Count(ctx, "s1")
	if err != nil || n != 3 {
		t.Errorf("Count() = %d, %v", n, err)
	}

	none, err := store.GetBySession(ctx, "other")
	if err != nil || len(none) != 0 {
		t.Errorf("GetBySession(other) = %v, %v", none, err)
	}
}

func TestSQLiteStore_CreateRejectsUnknownSession(t *testing.T) {
	store := setupTestStore(t)
	err := store.Create(context.Background(), &Message{ID: "x", SessionID: "missing", Role: RoleUser, Content: "hi"})
	if err == nil {
		t.Error("expected foreign key error")
	}
}

func TestSQLiteStore_GetLatest(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Now()
	for i := range 5 {
		msg := &Message{
			ID:        fmt.Sprintf("m%d", i),
			SessionID: "s1",
			Role:      RoleUser,
			Content:   fmt.Sprintf("msg %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := store.Create(ctx, msg); err != nil {
			t.Fatal(err)
		}
	}

	got, err := store.GetLatest(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "m3" || got[1].ID != "m4" {
		t.Errorf("GetLatest() = %+v, want m3, m4", got)
	}
}
