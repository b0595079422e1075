package storage_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/ParticlesofMind/neptino-sub001/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.New(filepath.Join(t.TempDir(), "neptino.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// ─────────────────────────────────────────────────────────────
// History journal
// ─────────────────────────────────────────────────────────────

func TestJournalRoundTrip(t *testing.T) {
	store := storage.NewHistoryStore(openTestDB(t))

	e1, err := store.Append("sess", "execute", "add rectangle", "surf-1", `[{"id":"n1"}]`)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if e1.Seq != 1 {
		t.Errorf("first entry seq = %d, want 1", e1.Seq)
	}
	e2, err := store.Append("sess", "undo", "add rectangle", "surf-1", `[]`)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if e2.Seq != 2 {
		t.Errorf("second entry seq = %d, want 2", e2.Seq)
	}

	entries, err := store.List("sess", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("list returned %d entries, want 2", len(entries))
	}
	// Most recent first.
	if entries[0].Op != "undo" || entries[1].Op != "execute" {
		t.Errorf("list order = [%s, %s], want [undo, execute]", entries[0].Op, entries[1].Op)
	}
	if entries[1].SnapshotJSON != `[{"id":"n1"}]` {
		t.Errorf("snapshot = %q", entries[1].SnapshotJSON)
	}
}

func TestJournalSessionsAreIndependent(t *testing.T) {
	store := storage.NewHistoryStore(openTestDB(t))

	store.Append("a", "execute", "x", "s", "[]")
	store.Append("b", "execute", "y", "s", "[]")
	e, err := store.Append("a", "execute", "z", "s", "[]")
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if e.Seq != 2 {
		t.Errorf("session a second seq = %d, want 2", e.Seq)
	}

	entries, err := store.List("b", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].Label != "y" {
		t.Errorf("session b entries = %+v", entries)
	}
}

func TestJournalPrunesToNewestEntries(t *testing.T) {
	store := storage.NewHistoryStore(openTestDB(t))

	for i := 1; i <= 50; i++ {
		if _, err := store.Append("sess", "execute", fmt.Sprintf("cmd %d", i), "s", "[]"); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := store.List("sess", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 40 {
		t.Fatalf("kept %d entries, want 40", len(entries))
	}
	if entries[0].Seq != 50 {
		t.Errorf("newest seq = %d, want 50", entries[0].Seq)
	}
	if entries[len(entries)-1].Seq != 11 {
		t.Errorf("oldest kept seq = %d, want 11", entries[len(entries)-1].Seq)
	}
}

func TestLatestPerSurface(t *testing.T) {
	store := storage.NewHistoryStore(openTestDB(t))

	if e, err := store.Latest("sess", "surf-1"); err != nil || e != nil {
		t.Fatalf("Latest on empty journal = (%v, %v), want (nil, nil)", e, err)
	}

	store.Append("sess", "execute", "first", "surf-1", `["a"]`)
	store.Append("sess", "execute", "other", "surf-2", `["b"]`)
	store.Append("sess", "execute", "second", "surf-1", `["c"]`)

	e, err := store.Latest("sess", "surf-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if e == nil || e.Label != "second" || e.SnapshotJSON != `["c"]` {
		t.Errorf("latest surf-1 entry = %+v", e)
	}
}

func TestClearSession(t *testing.T) {
	store := storage.NewHistoryStore(openTestDB(t))

	store.Append("sess", "execute", "x", "s", "[]")
	if err := store.ClearSession("sess"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := store.List("sess", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("cleared session still has %d entries", len(entries))
	}
}

// ─────────────────────────────────────────────────────────────
// App settings
// ─────────────────────────────────────────────────────────────

func TestSettingsRoundTrip(t *testing.T) {
	s := storage.NewSettingsStore(openTestDB(t))

	if got := s.LoadWindowSize(); got.Width != 1440 || got.Height != 900 {
		t.Errorf("default window size = %+v", got)
	}
	if err := s.SaveWindowSize(1024, 768); err != nil {
		t.Fatalf("save window size: %v", err)
	}
	if got := s.LoadWindowSize(); got.Width != 1024 || got.Height != 768 {
		t.Errorf("window size = %+v, want 1024x768", got)
	}

	// Undersized values fall back to defaults.
	s.SaveWindowSize(100, 100)
	if got := s.LoadWindowSize(); got.Width != 1440 || got.Height != 900 {
		t.Errorf("undersized window size = %+v, want defaults", got)
	}

	if err := s.SavePageSetupPath("/tmp/page-setup.json"); err != nil {
		t.Fatalf("save path: %v", err)
	}
	if got := s.PageSetupPath(); got != "/tmp/page-setup.json" {
		t.Errorf("page setup path = %q", got)
	}
}
