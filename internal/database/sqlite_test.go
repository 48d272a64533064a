package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"sha2-go/internal/model"
)

const (
	digestABC   = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	digestEmpty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

// newTestDB creates a new in-memory database with schema applied.
func newTestDB(t *testing.T) *SQLiteDatabase {
	t.Helper()

	db, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if _, err := db.db.Exec(Schema); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newEntry(label, digest string, createdAt time.Time) *model.Entry {
	return &model.Entry{
		ID:        uuid.New().String(),
		Label:     label,
		Digest:    digest,
		Size:      3,
		CreatedAt: createdAt,
	}
}

func TestSQLiteDatabase_CreateEntry(t *testing.T) {
	t.Run("stores all fields", func(t *testing.T) {
		db := newTestDB(t)
		at := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

		entry := newEntry("release.tar", digestABC, at)
		entry.Tag = "webcashwalletv1"
		if err := db.CreateEntry(entry); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}

		got, err := db.FindLatestEntryByLabel("release.tar")
		if err != nil {
			t.Fatalf("FindLatestEntryByLabel() error = %v", err)
		}
		if got == nil {
			t.Fatal("FindLatestEntryByLabel() = nil, want entry")
		}
		if got.ID != entry.ID || got.Digest != digestABC || got.Tag != entry.Tag || got.Size != 3 {
			t.Errorf("got %+v, want %+v", got, entry)
		}
		if !got.CreatedAt.Equal(at) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, at)
		}
	})

	t.Run("rejects missing id", func(t *testing.T) {
		db := newTestDB(t)
		entry := newEntry("x", digestABC, time.Now())
		entry.ID = ""
		if err := db.CreateEntry(entry); err == nil {
			t.Error("CreateEntry() expected error for missing id")
		}
	})

	t.Run("rejects malformed digest length", func(t *testing.T) {
		db := newTestDB(t)
		if err := db.CreateEntry(newEntry("x", digestABC[:10], time.Now())); err == nil {
			t.Error("CreateEntry() expected check constraint error")
		}
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		db := newTestDB(t)
		entry := newEntry("x", digestABC, time.Now())
		if err := db.CreateEntry(entry); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
		if err := db.CreateEntry(entry); err == nil {
			t.Error("CreateEntry() expected error for duplicate id")
		}
	})
}

func TestSQLiteDatabase_FindLatestEntryByLabel(t *testing.T) {
	t.Run("returns nil when label not found", func(t *testing.T) {
		db := newTestDB(t)

		got, err := db.FindLatestEntryByLabel("missing")
		if err != nil {
			t.Fatalf("FindLatestEntryByLabel() error = %v", err)
		}
		if got != nil {
			t.Errorf("FindLatestEntryByLabel() = %v, want nil", got)
		}
	})

	t.Run("returns newest entry", func(t *testing.T) {
		db := newTestDB(t)
		base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

		older := newEntry("config", digestEmpty, base)
		newer := newEntry("config", digestABC, base.Add(time.Hour))
		other := newEntry("other", digestEmpty, base.Add(2*time.Hour))
		for _, e := range []*model.Entry{newer, older, other} {
			if err := db.CreateEntry(e); err != nil {
				t.Fatalf("CreateEntry() error = %v", err)
			}
		}

		got, err := db.FindLatestEntryByLabel("config")
		if err != nil {
			t.Fatalf("FindLatestEntryByLabel() error = %v", err)
		}
		if got == nil || got.ID != newer.ID {
			t.Errorf("FindLatestEntryByLabel() = %v, want entry %s", got, newer.ID)
		}
	})
}

func TestSQLiteDatabase_FindEntriesByDigest(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	a := newEntry("a", digestABC, base)
	b := newEntry("b", digestABC, base.Add(time.Minute))
	c := newEntry("c", digestEmpty, base.Add(2*time.Minute))
	for _, e := range []*model.Entry{a, b, c} {
		if err := db.CreateEntry(e); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
	}

	got, err := db.FindEntriesByDigest(digestABC)
	if err != nil {
		t.Fatalf("FindEntriesByDigest() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(FindEntriesByDigest()) = %d, want 2", len(got))
	}
	if got[0].Label != "a" || got[1].Label != "b" {
		t.Errorf("labels = [%s %s], want [a b]", got[0].Label, got[1].Label)
	}

	none, err := db.FindEntriesByDigest("00" + digestABC[2:])
	if err != nil {
		t.Fatalf("FindEntriesByDigest() error = %v", err)
	}
	if len(none) != 0 {
		t.Errorf("len(FindEntriesByDigest()) = %d, want 0", len(none))
	}
}

func TestSQLiteDatabase_ListEntries(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	for i, label := range []string{"x", "y", "x"} {
		if err := db.CreateEntry(newEntry(label, digestABC, base.Add(time.Duration(i)*time.Second))); err != nil {
			t.Fatalf("CreateEntry() error = %v", err)
		}
	}

	all, err := db.ListEntries("")
	if err != nil {
		t.Fatalf("ListEntries(\"\") error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("len(ListEntries(\"\")) = %d, want 3", len(all))
	}

	xs, err := db.ListEntries("x")
	if err != nil {
		t.Fatalf("ListEntries(\"x\") error = %v", err)
	}
	if len(xs) != 2 {
		t.Errorf("len(ListEntries(\"x\")) = %d, want 2", len(xs))
	}
	if len(xs) == 2 && !xs[0].CreatedAt.Before(xs[1].CreatedAt) {
		t.Error("ListEntries() not ordered oldest first")
	}
}

func TestSQLiteDatabase_Operations(t *testing.T) {
	db := newTestDB(t)

	first, err := db.CreateOperation("Record", "label=a")
	if err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	second, err := db.CreateOperation("Record", "label=b")
	if err != nil {
		t.Fatalf("CreateOperation() error = %v", err)
	}
	if second.ID <= first.ID {
		t.Errorf("operation IDs not increasing: %d then %d", first.ID, second.ID)
	}

	if err := db.FinishOperation(first.ID, "success"); err != nil {
		t.Fatalf("FinishOperation() error = %v", err)
	}
	if err := db.FinishOperation(9999, "success"); err == nil {
		t.Error("FinishOperation() expected error for unknown id")
	}

	ops, err := db.ListOperations(10)
	if err != nil {
		t.Fatalf("ListOperations() error = %v", err)
	}
	if len(ops) != 2 {
		t.Fatalf("len(ListOperations()) = %d, want 2", len(ops))
	}
	if ops[0].ID != second.ID {
		t.Errorf("ListOperations()[0].ID = %d, want %d (newest first)", ops[0].ID, second.ID)
	}
	if ops[0].Status != "running" || ops[0].FinishedAt.Valid {
		t.Errorf("unfinished operation = %+v", ops[0])
	}
	if ops[1].Status != "success" || !ops[1].FinishedAt.Valid {
		t.Errorf("finished operation = %+v", ops[1])
	}

	limited, err := db.ListOperations(1)
	if err != nil {
		t.Fatalf("ListOperations(1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("len(ListOperations(1)) = %d, want 1", len(limited))
	}
}

func TestSQLiteDatabase_BackupTo(t *testing.T) {
	db := newTestDB(t)
	entry := newEntry("kept", digestABC, time.Now())
	if err := db.CreateEntry(entry); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	dest := filepath.Join(t.TempDir(), "backup.db")
	if err := db.BackupTo(dest); err != nil {
		t.Fatalf("BackupTo() error = %v", err)
	}

	copyDB, err := NewSQLiteDatabase(dest)
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer copyDB.Close()

	got, err := copyDB.FindLatestEntryByLabel("kept")
	if err != nil {
		t.Fatalf("FindLatestEntryByLabel() on backup error = %v", err)
	}
	if got == nil || got.ID != entry.ID {
		t.Errorf("backup missing entry %s", entry.ID)
	}
}
