package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "journal")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAppendAndSize(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 3; i++ {
		if err := store.Append(Entry{UserID: "u1", Entity: EntityTask, Action: "create"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 3 {
		t.Errorf("size = %d, want 3", size)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		err := store.Append(Entry{
			UserID:    "u1",
			Entity:    EntityTask,
			Action:    "create",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	entries, err := store.Recent(3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len = %d, want 3", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Timestamp.After(entries[i-1].Timestamp) {
			t.Errorf("entries out of order: %v before %v", entries[i-1].Timestamp, entries[i].Timestamp)
		}
	}
	if !entries[0].Timestamp.Equal(base.Add(4 * time.Minute)) {
		t.Errorf("first entry = %v, want the newest", entries[0].Timestamp)
	}
}

func TestPruneRemovesOnlyOldEntries(t *testing.T) {
	store := openTestStore(t)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		base,
		base.AddDate(0, 0, 5),
		base.AddDate(0, 0, 20),
	}
	for _, ts := range stamps {
		if err := store.Append(Entry{UserID: "u1", Entity: EntityUser, Action: "login", Timestamp: ts}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	if err := store.Prune(base.AddDate(0, 0, 10)); err != nil {
		t.Fatalf("Prune: %v", err)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if size != 1 {
		t.Errorf("size after prune = %d, want 1", size)
	}

	entries, err := store.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || !entries[0].Timestamp.Equal(base.AddDate(0, 0, 20)) {
		t.Errorf("surviving entries = %+v", entries)
	}
}

func TestAppendAssignsIDAndTimestamp(t *testing.T) {
	store := openTestStore(t)

	if err := store.Append(Entry{UserID: "u1", Entity: EntityUser, Action: "register"}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := store.Recent(1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len = %d, want 1", len(entries))
	}
	if entries[0].ID == "" {
		t.Error("entry should get a generated id")
	}
	if entries[0].Timestamp.IsZero() {
		t.Error("entry should get a timestamp")
	}
}
