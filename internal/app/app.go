// Package app wires the engine into the Wails shell: startup and
// shutdown, frontend bindings, event emission, and the page-setup
// settings watcher.
package app

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ParticlesofMind/neptino-sub001/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
	"github.com/ParticlesofMind/neptino-sub001/internal/paging"
	"github.com/ParticlesofMind/neptino-sub001/internal/service"
	"github.com/ParticlesofMind/neptino-sub001/internal/storage"
	"github.com/ParticlesofMind/neptino-sub001/internal/template"
	"github.com/ParticlesofMind/neptino-sub001/internal/tools"
	"github.com/ParticlesofMind/neptino-sub001/internal/units"
)

// runtimeEmitter delegates session events to wailsRuntime.EventsEmit.
type runtimeEmitter struct{}

func (runtimeEmitter) Emit(ctx context.Context, event string, data any) {
	wailsRuntime.EventsEmit(ctx, event, data)
}

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx context.Context

	db       *storage.DB
	settings *storage.SettingsStore
	journal  *storage.HistoryStore

	mounts     *paging.HostMounts
	session    *service.Session
	dispatcher *tools.Dispatcher
	autosnap   *service.Autosnapshot
	watcher    *settingsWatcher
}

// New creates a new App.
func New() *App {
	return &App{}
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".local", "share", "neptino")
	dbPath := filepath.Join(dataDir, "neptino.db")

	db, err := storage.New(dbPath)
	if err != nil {
		wailsRuntime.LogFatalf(ctx, "Failed to open database: %v", err)
		return
	}
	a.db = db
	a.settings = storage.NewSettingsStore(db)
	a.journal = storage.NewHistoryStore(db)

	a.mounts = paging.NewHostMounts()
	a.session = service.NewSession(service.Deps{
		Ctx:       ctx,
		Mounts:    a.mounts,
		Templates: template.Factory(template.StaticSource{}),
		Emitter:   runtimeEmitter{},
		Journal:   a.journal,
	})
	a.dispatcher = tools.NewDispatcher()

	a.autosnap = service.NewAutosnapshot(a.session)
	a.autosnap.Start()

	if path := a.settings.PageSetupPath(); path != "" {
		a.startSettingsWatcher(path)
	}
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.autosnap != nil {
		a.autosnap.Stop()
	}
	if a.dispatcher != nil {
		a.dispatcher.Destroy()
	}
	if a.session != nil {
		a.session.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// ─────────────────────────────────────────────────────────────
// Canvas bindings
// ─────────────────────────────────────────────────────────────

// AttachCanvasHost registers the frontend's host container. Surfaces can
// only be created while a host is attached.
func (a *App) AttachCanvasHost(hostID string) {
	a.mounts.SetHost(hostID)
}

// CreateLessonCanvases builds the surfaces for the given lesson count
// and returns the resulting lesson-to-pages map.
func (a *App) CreateLessonCanvases(lessonCount int) ([]domain.LessonPaging, error) {
	if _, err := a.session.CreateLessonCanvases(a.ctx, lessonCount); err != nil {
		return nil, err
	}
	return a.session.Paging(), nil
}

// GetPaging returns the current lesson-to-pages map.
func (a *App) GetPaging() []domain.LessonPaging {
	return a.session.Paging()
}

// IsCoordinateEditable answers the protection hit-test for the frontend.
// Advisory: the dispatcher enforces the same query on pointer-down.
func (a *App) IsCoordinateEditable(surfaceID string, x, y float64) (domain.Editability, error) {
	return a.session.Editability(surfaceID, x, y)
}

// ExportSurfacePNG rasters a surface to PNG, returned base64-encoded.
func (a *App) ExportSurfacePNG(surfaceID string) (string, error) {
	png, err := a.session.ExportSurfacePNG(surfaceID)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// ClearSurface empties a surface's drawing layer.
func (a *App) ClearSurface(surfaceID string) error {
	return a.session.ClearSurface(surfaceID)
}

// ResetSurface is the maintenance-only destructive reset: both layers
// wiped, the protected layout restored from its stored blocks.
func (a *App) ResetSurface(surfaceID string) error {
	return a.session.ResetSurface(surfaceID)
}

// ─────────────────────────────────────────────────────────────
// Margin bindings
// ─────────────────────────────────────────────────────────────

// UpdateMargins broadcasts a margin change to every surface.
func (a *App) UpdateMargins(spec domain.MarginSpec) error {
	return a.session.UpdateMargins(spec)
}

// GetMargins returns the session margins in pixels.
func (a *App) GetMargins() domain.MarginSpec {
	return a.session.Margins()
}

// ConvertMarginValue converts a single value between margin units,
// rounded for display in the target unit.
func (a *App) ConvertMarginValue(value float64, from, to string) (float64, error) {
	v, err := units.Convert(value, domain.Unit(from), domain.Unit(to))
	if err != nil {
		return 0, err
	}
	return units.RoundForUnit(v, domain.Unit(to)), nil
}

// SetPageSetupPath points the app at a page-setup JSON file, applies it
// immediately, and watches it for changes.
func (a *App) SetPageSetupPath(path string) error {
	if err := a.settings.SavePageSetupPath(path); err != nil {
		return err
	}
	return a.startSettingsWatcher(path)
}

// ─────────────────────────────────────────────────────────────
// Pointer and tool bindings
// ─────────────────────────────────────────────────────────────

// PointerDown routes a pointer-down to the tool manager. The dispatcher
// targets the drawing layer and refuses protected coordinates.
func (a *App) PointerDown(surfaceID string, x, y float64, button int) {
	a.dispatcher.PointerDown(a.session.SurfaceByID(surfaceID),
		domain.PointerEvent{X: x, Y: y, Button: button})
}

// PointerMove routes a pointer-move for the active gesture.
func (a *App) PointerMove(surfaceID string, x, y float64, button int) {
	a.dispatcher.PointerMove(a.session.SurfaceByID(surfaceID),
		domain.PointerEvent{X: x, Y: y, Button: button})
}

// PointerUp ends the active gesture.
func (a *App) PointerUp(surfaceID string, x, y float64, button int) {
	a.dispatcher.PointerUp(a.session.SurfaceByID(surfaceID),
		domain.PointerEvent{X: x, Y: y, Button: button})
}

// SetActiveTool selects the drawing tool by name.
func (a *App) SetActiveTool(name string) bool {
	return a.dispatcher.SetActiveTool(name)
}

// GetToolCursor returns the active tool's cursor name.
func (a *App) GetToolCursor() string {
	return a.dispatcher.Cursor()
}

// UpdateToolColor forwards a color change to the active tool.
func (a *App) UpdateToolColor(color string) {
	a.dispatcher.UpdateColor(color)
}

// UpdateToolSettings forwards settings to a tool.
func (a *App) UpdateToolSettings(tool string, settings map[string]any) {
	a.dispatcher.UpdateToolSettings(tool, settings)
}

// ─────────────────────────────────────────────────────────────
// History bindings
// ─────────────────────────────────────────────────────────────

func (a *App) Undo() error   { return a.session.Undo() }
func (a *App) Redo() error   { return a.session.Redo() }
func (a *App) CanUndo() bool { return a.session.CanUndo() }
func (a *App) CanRedo() bool { return a.session.CanRedo() }

// ListHistory returns the journaled history, most recent first.
func (a *App) ListHistory(limit int) ([]storage.JournalEntry, error) {
	return a.session.History(limit)
}

// ─────────────────────────────────────────────────────────────
// Devtools and window bindings
// ─────────────────────────────────────────────────────────────

// DebugBackends lists the session's rendering backends for devtools.
func (a *App) DebugBackends() []canvas.BackendInfo {
	return a.session.DebugBackends()
}

// LoadWindowSize returns the persisted window dimensions.
func (a *App) LoadWindowSize() storage.WindowSize {
	return a.settings.LoadWindowSize()
}

// SaveWindowSize persists the window dimensions.
func (a *App) SaveWindowSize(width, height int) error {
	return a.settings.SaveWindowSize(width, height)
}

func (a *App) startSettingsWatcher(path string) error {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	w, err := watchPageSetup(path, a.session)
	if err != nil {
		return err
	}
	a.watcher = w
	return nil
}
