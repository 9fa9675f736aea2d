package transcript

import (
	"context"
	"fmt"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Shared cache so every pooled connection sees the same database;
	// named per test so tests don't see each other's rows.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Turn{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestAppendAndListAll_Order(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	texts := []string{"first", "second", "third", "fourth"}
	for i, msg := range texts {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		err := store.Append(ctx, &Turn{
			SessionID: "sess-1",
			Name:      "J. Doe",
			Email:     "jdoe@example.edu",
			Role:      role,
			Message:   msg,
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	turns, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(turns) != len(texts) {
		t.Fatalf("expected %d turns, got %d", len(texts), len(turns))
	}
	for i, turn := range turns {
		if turn.Message != texts[i] {
			t.Fatalf("turn %d out of order: got %q want %q", i, turn.Message, texts[i])
		}
		if turn.Timestamp.IsZero() {
			t.Fatalf("turn %d has zero timestamp", i)
		}
		if i > 0 && turns[i].Timestamp.Before(turns[i-1].Timestamp) {
			t.Fatalf("timestamps not non-decreasing at %d", i)
		}
	}
}

func TestListByEmail_ExactMatch(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	seed := []Turn{
		{SessionID: "s1", Email: "alice@example.edu", Role: RoleUser, Message: "hi"},
		{SessionID: "s1", Email: "alice@example.edu", Role: RoleAssistant, Message: "hello"},
		{SessionID: "s2", Email: "Alice@example.edu", Role: RoleUser, Message: "case differs"},
		{SessionID: "s3", Email: "bob@example.edu", Role: RoleUser, Message: "other user"},
		{SessionID: "s4", Email: "", Role: RoleUser, Message: "anonymous"},
	}
	for i := range seed {
		if err := store.Append(ctx, &seed[i]); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	turns, err := store.ListByEmail(ctx, "alice@example.edu")
	if err != nil {
		t.Fatalf("list by email: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns for alice, got %d", len(turns))
	}
	for _, turn := range turns {
		if turn.Email != "alice@example.edu" {
			t.Fatalf("got foreign row: email=%q", turn.Email)
		}
	}
}

func TestDeleteByEmail(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()

	for _, email := range []string{"gone@example.edu", "gone@example.edu", "stays@example.edu"} {
		if err := store.Append(ctx, &Turn{SessionID: "s", Email: email, Role: RoleUser, Message: "m"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	n, err := store.DeleteByEmail(ctx, "gone@example.edu")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	turns, err := store.ListByEmail(ctx, "gone@example.edu")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty transcript after delete, got %d rows", len(turns))
	}

	remaining, err := store.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Email != "stays@example.edu" {
		t.Fatalf("other identities must be untouched, got %+v", remaining)
	}

	// Deleting again is a no-op.
	n, err = store.DeleteByEmail(ctx, "gone@example.edu")
	if err != nil {
		t.Fatalf("idempotent delete: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 deleted on repeat, got %d", n)
	}
}
