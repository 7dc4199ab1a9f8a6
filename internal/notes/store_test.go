package notes

import (
	"context"
	"testing"
	"time"
)

// storeUnderTest runs the contract tests against every Store implementation.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore("")
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_CreateThenGet(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := store.Create(ctx, "alice", "Groceries", "Milk, eggs")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if created.ID == 0 {
				t.Error("expected assigned id")
			}
			if created.CreatedAt.IsZero() {
				t.Error("expected assigned timestamp")
			}

			got, err := store.GetByID(ctx, created.ID, "alice")
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if got.Title != "Groceries" || got.Content != "Milk, eggs" {
				t.Errorf("got %q/%q, want Groceries/Milk, eggs", got.Title, got.Content)
			}
			if got.CreatedAt.IsZero() {
				t.Error("expected stored timestamp")
			}

			untitled, err := store.Create(ctx, "alice", "", "body")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
			if untitled.Title != "Untitled" {
				t.Errorf("empty title stored as %q, want Untitled", untitled.Title)
			}
		})
	}
}

func TestStore_OwnerIsolation(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			a, err := store.Create(ctx, "alice", "Private", "alice only")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			if _, err := store.GetByID(ctx, a.ID, "bob"); err != ErrNotFound {
				t.Errorf("GetByID under wrong owner: got %v, want ErrNotFound", err)
			}

			if err := store.Update(ctx, a.ID, "bob", "hijacked"); err != ErrNotFound {
				t.Errorf("Update under wrong owner: got %v, want ErrNotFound", err)
			}

			if err := store.Delete(ctx, a.ID, "bob"); err != nil {
				t.Errorf("Delete under wrong owner should be a no-op, got %v", err)
			}

			// Alice's note must be untouched by all of the above.
			got, err := store.GetByID(ctx, a.ID, "alice")
			if err != nil {
				t.Fatalf("GetByID after cross-owner attempts: %v", err)
			}
			if got.Content != "alice only" {
				t.Errorf("content changed to %q", got.Content)
			}

			list, err := store.ListByOwner(ctx, "bob")
			if err != nil {
				t.Fatalf("ListByOwner: %v", err)
			}
			if len(list) != 0 {
				t.Errorf("bob sees %d notes, want 0", len(list))
			}
		})
	}
}

func TestStore_ListOrderStable(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, title := range []string{"one", "two", "three"} {
				if _, err := store.Create(ctx, "alice", title, "body"); err != nil {
					t.Fatalf("Create: %v", err)
				}
			}

			first, err := store.ListByOwner(ctx, "alice")
			if err != nil {
				t.Fatalf("ListByOwner: %v", err)
			}
			second, err := store.ListByOwner(ctx, "alice")
			if err != nil {
				t.Fatalf("ListByOwner: %v", err)
			}
			if len(first) != 3 || len(second) != 3 {
				t.Fatalf("got %d/%d notes, want 3/3", len(first), len(second))
			}
			for i := range first {
				if first[i].ID != second[i].ID {
					t.Errorf("order differs at %d: %d vs %d", i, first[i].ID, second[i].ID)
				}
			}
			if first[0].Title != "one" || first[2].Title != "three" {
				t.Errorf("unexpected order: %q ... %q", first[0].Title, first[2].Title)
			}
		})
	}
}

func TestStore_UpdateRefreshesTimestamp(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := store.Create(ctx, "alice", "Note", "old")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			time.Sleep(5 * time.Millisecond)
			if err := store.Update(ctx, created.ID, "alice", "new"); err != nil {
				t.Fatalf("Update: %v", err)
			}

			got, err := store.GetByID(ctx, created.ID, "alice")
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if got.Content != "new" {
				t.Errorf("content = %q, want new", got.Content)
			}
			if !got.CreatedAt.After(created.CreatedAt) {
				t.Errorf("timestamp not refreshed: %v <= %v", got.CreatedAt, created.CreatedAt)
			}
		})
	}
}

func TestStore_DeleteIdempotent(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := store.Create(ctx, "alice", "Note", "body")
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			if err := store.Delete(ctx, created.ID, "alice"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			// Second delete of the same id, and delete of a never-existing id.
			if err := store.Delete(ctx, created.ID, "alice"); err != nil {
				t.Errorf("repeat Delete: %v", err)
			}
			if err := store.Delete(ctx, 9999, "alice"); err != nil {
				t.Errorf("Delete of missing id: %v", err)
			}

			list, err := store.ListByOwner(ctx, "alice")
			if err != nil {
				t.Fatalf("ListByOwner: %v", err)
			}
			if len(list) != 0 {
				t.Errorf("got %d notes after delete, want 0", len(list))
			}
		})
	}
}

func TestStore_UpdateMissing(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Update(context.Background(), 42, "alice", "body"); err != ErrNotFound {
				t.Errorf("got %v, want ErrNotFound", err)
			}
		})
	}
}
