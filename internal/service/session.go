// Package service owns the editing session: the per-session state the
// engine shares across every canvas surface. One session holds one
// command stack, the debug registry, the margin broadcast, and the
// history journal hook; its surfaces come and go through the allocator.
package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub001/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
	"github.com/ParticlesofMind/neptino-sub001/internal/history"
	"github.com/ParticlesofMind/neptino-sub001/internal/paging"
	"github.com/ParticlesofMind/neptino-sub001/internal/storage"
	"github.com/ParticlesofMind/neptino-sub001/internal/units"
)

// Journal persists history records. Satisfied by *storage.HistoryStore;
// a nil journal disables persistence without touching the session flow.
type Journal interface {
	Append(sessionID, op, label, surfaceID, snapshotJSON string) (*storage.JournalEntry, error)
	List(sessionID string, limit int) ([]storage.JournalEntry, error)
}

// Deps carries everything a session needs from the app layer.
type Deps struct {
	Ctx       context.Context
	Mounts    paging.Mounts
	Templates domain.TemplateFactory
	Emitter   EventEmitter
	Journal   Journal

	// DebugOutlines is passed through to every created surface.
	DebugOutlines bool
}

// Session is one editing session. All methods are safe for concurrent
// use: Wails bindings, the MCP server, the settings watcher, and the
// autosnapshot cron all call in from different goroutines.
type Session struct {
	id       string
	ctx      context.Context
	emitter  EventEmitter
	journal  Journal
	stack    *history.CommandStack
	alloc    *paging.PageAllocator
	registry *DebugRegistry

	mu      sync.Mutex
	margins domain.MarginSpec
}

// NewSession wires a session: allocator observed by the debug registry,
// command stack observed by the journal hook.
func NewSession(deps Deps) *Session {
	if deps.Ctx == nil {
		deps.Ctx = context.Background()
	}
	s := &Session{
		id:       uuid.New().String(),
		ctx:      deps.Ctx,
		emitter:  deps.Emitter,
		journal:  deps.Journal,
		stack:    history.NewCommandStack(),
		registry: NewDebugRegistry(),
	}
	s.alloc = paging.NewPageAllocator(paging.Options{
		Mounts:        deps.Mounts,
		Factory:       deps.Templates,
		Observer:      s.registry,
		DebugOutlines: deps.DebugOutlines,
	})
	s.stack.SetObserver(s.onHistoryChange)
	return s
}

// ID returns the session identity used to scope journal entries.
func (s *Session) ID() string { return s.id }

// ─────────────────────────────────────────────────────────────
// Surface lifecycle
// ─────────────────────────────────────────────────────────────

// CreateLessonCanvases rebuilds the session's surfaces for the given
// lesson count. Pending history is dropped first: retained commands
// would otherwise point at destroyed layers. The current margin state is
// reapplied to every new surface.
func (s *Session) CreateLessonCanvases(ctx context.Context, lessonCount int) ([]*canvas.Surface, error) {
	s.stack.Clear()

	surfaces, err := s.alloc.CreateLessonCanvases(ctx, lessonCount)
	if err != nil {
		return nil, fmt.Errorf("create lesson canvases: %w", err)
	}

	s.mu.Lock()
	margins := s.margins
	s.mu.Unlock()
	if !margins.IsZero() {
		for _, surf := range surfaces {
			if err := surf.UpdateMargins(margins); err != nil {
				log.Printf("session: reapply margins to surface %s: %v", surf.ID(), err)
			}
		}
	}

	s.emit("canvas:surfaces-changed", s.alloc.Paging())
	return surfaces, nil
}

// Surfaces returns the flat ordered surface list.
func (s *Session) Surfaces() []*canvas.Surface { return s.alloc.Surfaces() }

// SurfaceByID returns a surface by id, or nil.
func (s *Session) SurfaceByID(id string) *canvas.Surface { return s.alloc.SurfaceByID(id) }

// Paging groups the surfaces per lesson in creation order.
func (s *Session) Paging() []domain.LessonPaging { return s.alloc.Paging() }

// ResetSurface is the elevated maintenance path to a surface's
// destructive reset. Ordinary drawing tools cannot reach it.
func (s *Session) ResetSurface(id string) error {
	surf := s.alloc.SurfaceByID(id)
	if surf == nil {
		return fmt.Errorf("reset surface: %q not found", id)
	}
	if err := surf.ResetAll(); err != nil {
		return fmt.Errorf("reset surface: %w", err)
	}
	s.emit("canvas:surface-reset", map[string]string{"surfaceId": id})
	return nil
}

// ClearSurface empties a surface's drawing layer, leaving the protected
// layout untouched.
func (s *Session) ClearSurface(id string) error {
	surf := s.alloc.SurfaceByID(id)
	if surf == nil {
		return fmt.Errorf("clear surface: %q not found", id)
	}
	surf.ClearCanvas()
	s.emit("canvas:surface-cleared", map[string]string{"surfaceId": id})
	return nil
}

// ExportSurfacePNG rasters one surface, layout under drawing.
func (s *Session) ExportSurfacePNG(id string) ([]byte, error) {
	surf := s.alloc.SurfaceByID(id)
	if surf == nil {
		return nil, fmt.Errorf("export surface: %q not found", id)
	}
	return surf.ExportPNG()
}

// Editability answers the protection hit-test on one surface.
func (s *Session) Editability(id string, x, y float64) (domain.Editability, error) {
	surf := s.alloc.SurfaceByID(id)
	if surf == nil {
		return domain.Editability{}, fmt.Errorf("editability: surface %q not found", id)
	}
	return surf.IsCoordinateEditable(x, y), nil
}

// Close tears down every surface and the session's history.
func (s *Session) Close() {
	s.alloc.DestroyAll()
	s.stack.Clear()
}

// ─────────────────────────────────────────────────────────────
// Margin broadcast
// ─────────────────────────────────────────────────────────────

// UpdateMargins converts the margin spec to pixels and broadcasts it
// synchronously to every live surface. No batching and no debounce at
// this layer; debouncing happens upstream in the settings watcher.
func (s *Session) UpdateMargins(spec domain.MarginSpec) error {
	px, err := units.ConvertMargins(spec, domain.UnitPX)
	if err != nil {
		return fmt.Errorf("update margins: %w", err)
	}

	s.mu.Lock()
	s.margins = px
	s.mu.Unlock()

	for _, surf := range s.alloc.Surfaces() {
		if err := surf.UpdateMargins(px); err != nil {
			log.Printf("session: update margins on surface %s: %v", surf.ID(), err)
		}
	}
	s.emit("canvas:margins-updated", px)
	return nil
}

// Margins returns the session's margin state in pixels.
func (s *Session) Margins() domain.MarginSpec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.margins
}

// ─────────────────────────────────────────────────────────────
// History
// ─────────────────────────────────────────────────────────────

// Execute runs a command through the session's shared stack.
func (s *Session) Execute(cmd domain.Command) error { return s.stack.Execute(cmd) }

// Undo reverts the most recent command, whichever surface it touched.
func (s *Session) Undo() error { return s.stack.Undo() }

// Redo replays the most recently undone command.
func (s *Session) Redo() error { return s.stack.Redo() }

func (s *Session) CanUndo() bool { return s.stack.CanUndo() }
func (s *Session) CanRedo() bool { return s.stack.CanRedo() }

// History returns the session's journaled entries, most recent first.
func (s *Session) History(limit int) ([]storage.JournalEntry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.List(s.id, limit)
}

// onHistoryChange journals every stack transition and notifies the
// frontend. Journal failures are logged, never propagated: persistence
// trouble must not block the edit itself.
func (s *Session) onHistoryChange(op history.Op, cmd domain.Command) {
	surfaceID := ""
	if scoped, ok := cmd.(domain.SurfaceScoped); ok {
		surfaceID = scoped.SurfaceID()
	}

	if s.journal != nil {
		snapshot := "[]"
		if surf := s.alloc.SurfaceByID(surfaceID); surf != nil {
			if data, err := surf.DrawingSnapshot(); err == nil {
				snapshot = string(data)
			} else {
				log.Printf("session: snapshot surface %s: %v", surfaceID, err)
			}
		}
		if _, err := s.journal.Append(s.id, string(op), cmd.Label(), surfaceID, snapshot); err != nil {
			log.Printf("session: journal %s %q: %v", op, cmd.Label(), err)
		}
	}

	s.emit("canvas:history-changed", map[string]any{
		"op":      string(op),
		"label":   cmd.Label(),
		"canUndo": s.stack.CanUndo(),
		"canRedo": s.stack.CanRedo(),
	})
}

// ─────────────────────────────────────────────────────────────
// Devtools
// ─────────────────────────────────────────────────────────────

// DebugBackends lists every live surface's backend info in creation
// order. This is the only exposure of rendering backends outside the
// canvas package.
func (s *Session) DebugBackends() []canvas.BackendInfo {
	return s.registry.Infos()
}

func (s *Session) emit(event string, data any) {
	if s.emitter == nil {
		return
	}
	s.emitter.Emit(s.ctx, event, data)
}
