package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ParticlesofMind/neptino-sub001/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
	"github.com/ParticlesofMind/neptino-sub001/internal/history"
	"github.com/ParticlesofMind/neptino-sub001/internal/paging"
	"github.com/ParticlesofMind/neptino-sub001/internal/service"
	"github.com/ParticlesofMind/neptino-sub001/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────

// fakeTemplate paints one block with a drawing-allowed area.
type fakeTemplate struct {
	lesson int
	pages  int
}

func (f *fakeTemplate) Initialize(ctx context.Context, target domain.LayoutTarget) error {
	return target.RenderLayoutAsBackground([]domain.LayoutBlock{{
		ID:    fmt.Sprintf("lesson-%d-content", f.lesson),
		Title: fmt.Sprintf("Lesson %d", f.lesson),
		Rect:  domain.Rect{X: 50, Y: 50, W: 600, H: 900},
		Areas: []domain.LayoutArea{{
			ID:            fmt.Sprintf("lesson-%d-work", f.lesson),
			Rect:          domain.Rect{X: 60, Y: 60, W: 500, H: 800},
			AllowsDrawing: true,
			AllowsText:    true,
		}},
	}})
}

func (f *fakeTemplate) HasMultiplePages() bool { return f.pages > 1 }
func (f *fakeTemplate) PageCount() int         { return f.pages }
func (f *fakeTemplate) SetPage(n int) error    { return nil }

// fakeJournal records appended entries in memory.
type fakeJournal struct {
	entries []storage.JournalEntry
}

func (j *fakeJournal) Append(sessionID, op, label, surfaceID, snapshotJSON string) (*storage.JournalEntry, error) {
	e := storage.JournalEntry{
		ID:           fmt.Sprintf("e%d", len(j.entries)+1),
		SessionID:    sessionID,
		Seq:          int64(len(j.entries) + 1),
		Op:           op,
		Label:        label,
		SurfaceID:    surfaceID,
		SnapshotJSON: snapshotJSON,
		CreatedAt:    time.Now(),
	}
	j.entries = append(j.entries, e)
	return &e, nil
}

func (j *fakeJournal) List(sessionID string, limit int) ([]storage.JournalEntry, error) {
	out := append([]storage.JournalEntry(nil), j.entries...)
	for i, jj := 0, len(out)-1; i < jj; i, jj = i+1, jj-1 {
		out[i], out[jj] = out[jj], out[i]
	}
	return out, nil
}

func newSession(t *testing.T, pagesPerLesson int, journal service.Journal) (*service.Session, *service.MockEmitter) {
	t.Helper()
	mounts := paging.NewHostMounts()
	mounts.SetHost("canvas-grid-container")
	emitter := &service.MockEmitter{}
	s := service.NewSession(service.Deps{
		Mounts:    mounts,
		Templates: func(lesson int) domain.LessonLayoutTemplate { return &fakeTemplate{lesson: lesson, pages: pagesPerLesson} },
		Emitter:   emitter,
		Journal:   journal,
	})
	t.Cleanup(s.Close)
	return s, emitter
}

func addRectangle(t *testing.T, s *service.Session, surf *canvas.Surface, id string) {
	t.Helper()
	cmd := history.NewAddElement(surf.ID(), surf.DrawingLayer(), &domain.Node{
		ID:   id,
		Kind: domain.NodeRectangle,
		Rect: domain.Rect{X: 100, Y: 100, W: 40, H: 40},
	})
	if err := s.Execute(cmd); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func hasEvent(emitter *service.MockEmitter, name string) bool {
	for _, e := range emitter.Events {
		if e.Event == name {
			return true
		}
	}
	return false
}

// ─────────────────────────────────────────────────────────────
// Margin broadcast
// ─────────────────────────────────────────────────────────────

func TestMarginBroadcastReachesEverySurface(t *testing.T) {
	s, emitter := newSession(t, 2, nil)
	if _, err := s.CreateLessonCanvases(context.Background(), 2); err != nil {
		t.Fatalf("create canvases: %v", err)
	}

	spec := domain.MarginSpec{Top: 10, Right: 10, Bottom: 10, Left: 10, Unit: domain.UnitMM}
	if err := s.UpdateMargins(spec); err != nil {
		t.Fatalf("update margins: %v", err)
	}

	surfaces := s.Surfaces()
	if len(surfaces) != 4 {
		t.Fatalf("surface count = %d, want 4", len(surfaces))
	}
	for _, surf := range surfaces {
		m := surf.Margins()
		if m.Unit != domain.UnitPX {
			t.Errorf("surface %s margin unit = %q, want px", surf.ID(), m.Unit)
		}
		// 10 mm at 96 DPI.
		want := 10 * 96 / 25.4
		if diff := m.Top - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("surface %s top margin = %v, want %v", surf.ID(), m.Top, want)
		}
	}
	if !hasEvent(emitter, "canvas:margins-updated") {
		t.Error("no canvas:margins-updated event emitted")
	}
}

func TestMarginsReappliedToRebuiltSurfaces(t *testing.T) {
	s, _ := newSession(t, 1, nil)
	spec := domain.MarginSpec{Top: 1, Right: 1, Bottom: 1, Left: 1, Unit: domain.UnitCM}
	if err := s.UpdateMargins(spec); err != nil {
		t.Fatalf("update margins: %v", err)
	}

	if _, err := s.CreateLessonCanvases(context.Background(), 1); err != nil {
		t.Fatalf("create canvases: %v", err)
	}
	m := s.Surfaces()[0].Margins()
	if m.IsZero() {
		t.Error("margins not reapplied to surfaces created after UpdateMargins")
	}
}

// ─────────────────────────────────────────────────────────────
// History across surfaces
// ─────────────────────────────────────────────────────────────

func TestUndoCrossesSurfaces(t *testing.T) {
	s, _ := newSession(t, 1, nil)
	if _, err := s.CreateLessonCanvases(context.Background(), 2); err != nil {
		t.Fatalf("create canvases: %v", err)
	}
	surfaces := s.Surfaces()

	addRectangle(t, s, surfaces[0], "r1")
	addRectangle(t, s, surfaces[1], "r2")

	// The shared stack unwinds in global order: last edit first,
	// regardless of which surface it touched.
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if surfaces[1].DrawingLayer().Node("r2") != nil {
		t.Error("undo left r2 on lesson 2's surface")
	}
	if surfaces[0].DrawingLayer().Node("r1") == nil {
		t.Error("undo removed r1 from lesson 1's surface")
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}
	if surfaces[0].DrawingLayer().Node("r1") != nil {
		t.Error("second undo left r1 in place")
	}
	if !s.CanRedo() {
		t.Error("CanRedo() = false after two undos")
	}
}

func TestHistoryIsJournaledWithSnapshots(t *testing.T) {
	journal := &fakeJournal{}
	s, emitter := newSession(t, 1, journal)
	if _, err := s.CreateLessonCanvases(context.Background(), 1); err != nil {
		t.Fatalf("create canvases: %v", err)
	}
	surf := s.Surfaces()[0]

	addRectangle(t, s, surf, "r1")
	if err := s.Undo(); err != nil {
		t.Fatalf("undo: %v", err)
	}

	if len(journal.entries) != 2 {
		t.Fatalf("journal has %d entries, want 2", len(journal.entries))
	}
	exec, undo := journal.entries[0], journal.entries[1]
	if exec.Op != "execute" || undo.Op != "undo" {
		t.Errorf("journal ops = [%s, %s]", exec.Op, undo.Op)
	}
	if exec.SurfaceID != surf.ID() {
		t.Errorf("journal surface = %q, want %q", exec.SurfaceID, surf.ID())
	}
	if exec.SnapshotJSON == "[]" {
		t.Error("execute snapshot is empty, want the added node")
	}
	if undo.SnapshotJSON != "[]" {
		t.Errorf("undo snapshot = %q, want empty layer", undo.SnapshotJSON)
	}
	if exec.SessionID != s.ID() {
		t.Errorf("journal session = %q, want %q", exec.SessionID, s.ID())
	}
	if !hasEvent(emitter, "canvas:history-changed") {
		t.Error("no canvas:history-changed event emitted")
	}

	entries, err := s.History(0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 2 || entries[0].Op != "undo" {
		t.Errorf("History() = %+v, want newest first", entries)
	}
}

func TestRebuildClearsPendingHistory(t *testing.T) {
	s, _ := newSession(t, 1, nil)
	if _, err := s.CreateLessonCanvases(context.Background(), 1); err != nil {
		t.Fatalf("create canvases: %v", err)
	}
	addRectangle(t, s, s.Surfaces()[0], "r1")

	if _, err := s.CreateLessonCanvases(context.Background(), 1); err != nil {
		t.Fatalf("rebuild canvases: %v", err)
	}
	if s.CanUndo() {
		t.Error("stale undo history survived a surface rebuild")
	}
}

// ─────────────────────────────────────────────────────────────
// Reset and clear
// ─────────────────────────────────────────────────────────────

func TestResetSurfaceRestoresLayoutAndEmptiesDrawing(t *testing.T) {
	s, _ := newSession(t, 1, nil)
	if _, err := s.CreateLessonCanvases(context.Background(), 1); err != nil {
		t.Fatalf("create canvases: %v", err)
	}
	surf := s.Surfaces()[0]
	addRectangle(t, s, surf, "r1")

	layoutBefore := len(surf.LayoutNodeIDs())
	if err := s.ResetSurface(surf.ID()); err != nil {
		t.Fatalf("reset: %v", err)
	}

	if got := surf.DrawingLayer().Len(); got != 0 {
		t.Errorf("drawing layer has %d nodes after reset", got)
	}
	if got := len(surf.LayoutNodeIDs()); got != layoutBefore {
		t.Errorf("layout nodes after reset = %d, want %d (restored)", got, layoutBefore)
	}
	if !surf.IsLayoutProtected() {
		t.Error("layout no longer protected after reset")
	}
}

func TestClearSurfaceKeepsLayout(t *testing.T) {
	s, _ := newSession(t, 1, nil)
	if _, err := s.CreateLessonCanvases(context.Background(), 1); err != nil {
		t.Fatalf("create canvases: %v", err)
	}
	surf := s.Surfaces()[0]
	addRectangle(t, s, surf, "r1")

	before := surf.LayoutNodeIDs()
	if err := s.ClearSurface(surf.ID()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	after := surf.LayoutNodeIDs()

	if surf.DrawingLayer().Len() != 0 {
		t.Error("drawing layer not emptied")
	}
	if len(before) != len(after) {
		t.Fatalf("layout changed: %d nodes before, %d after", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("layout node %d changed: %q vs %q", i, before[i], after[i])
		}
	}
}

func TestOperationsOnUnknownSurface(t *testing.T) {
	s, _ := newSession(t, 1, nil)
	if err := s.ResetSurface("nope"); err == nil {
		t.Error("ResetSurface on unknown id succeeded")
	}
	if err := s.ClearSurface("nope"); err == nil {
		t.Error("ClearSurface on unknown id succeeded")
	}
	if _, err := s.ExportSurfacePNG("nope"); err == nil {
		t.Error("ExportSurfacePNG on unknown id succeeded")
	}
	if _, err := s.Editability("nope", 1, 1); err == nil {
		t.Error("Editability on unknown id succeeded")
	}
}

// ─────────────────────────────────────────────────────────────
// Debug registry
// ─────────────────────────────────────────────────────────────

func TestDebugRegistryTracksSurfaceLifecycle(t *testing.T) {
	s, _ := newSession(t, 2, nil)
	if _, err := s.CreateLessonCanvases(context.Background(), 1); err != nil {
		t.Fatalf("create canvases: %v", err)
	}

	infos := s.DebugBackends()
	if len(infos) != 2 {
		t.Fatalf("registry lists %d backends, want 2", len(infos))
	}
	for i, info := range infos {
		if info.BackendID == "" {
			t.Errorf("backend %d has no id", i)
		}
		if info.Width != canvas.PageWidth || info.Height != canvas.PageHeight {
			t.Errorf("backend %d size = %dx%d", i, info.Width, info.Height)
		}
		if !info.Protected {
			t.Errorf("backend %d not marked protected", i)
		}
	}

	s.Close()
	if got := len(s.DebugBackends()); got != 0 {
		t.Errorf("registry lists %d backends after Close", got)
	}
}
