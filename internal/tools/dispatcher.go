// Package tools routes pointer events from the shell to the external
// drawing-tool manager. The dispatcher is the enforcement point of the
// protection invariant: every event it forwards targets a surface's
// drawing layer, never the layout layer, and a pointer-down landing in a
// non-editable coordinate is refused before any tool sees it.
package tools

import (
	"log"
	"sync"

	"github.com/ParticlesofMind/neptino-sub001/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

// Dispatcher forwards pointer events and tool configuration to the
// registered ToolManager. All methods are logged no-ops while no manager
// is registered.
type Dispatcher struct {
	mu      sync.Mutex
	manager domain.ToolManager

	// blocked marks surfaces whose current gesture was refused at
	// pointer-down; their move/up events are swallowed until release.
	blocked map[string]bool
}

// NewDispatcher creates a dispatcher with no manager registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{blocked: map[string]bool{}}
}

// SetManager registers the external tool manager. Passing nil detaches
// the current one without destroying it.
func (d *Dispatcher) SetManager(m domain.ToolManager) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.manager = m
}

// PointerDown starts a gesture on a surface. The editability query runs
// here, at the dispatch boundary: a pointer-down in a protected or
// undefined region is logged and swallowed, and the rest of that gesture
// is dropped with it. Tool managers never have to check for themselves.
func (d *Dispatcher) PointerDown(s *canvas.Surface, ev domain.PointerEvent) {
	d.mu.Lock()
	m := d.manager
	d.mu.Unlock()

	if s == nil || m == nil {
		log.Println("tools: pointer-down with no surface or manager")
		return
	}
	target := s.DrawingLayer()
	if target == nil {
		log.Printf("tools: pointer-down on uninitialized surface %s", s.ID())
		return
	}

	hit := s.IsCoordinateEditable(ev.X, ev.Y)
	if !hit.Editable {
		reason := hit.Reason
		if reason == "" {
			reason = "area does not allow drawing"
		}
		log.Printf("tools: refused pointer-down at (%.0f, %.0f) on surface %s: %s",
			ev.X, ev.Y, s.ID(), reason)
		d.mu.Lock()
		d.blocked[s.ID()] = true
		d.mu.Unlock()
		return
	}

	d.mu.Lock()
	delete(d.blocked, s.ID())
	d.mu.Unlock()

	ev.Phase = domain.PointerDown
	m.OnPointerDown(ev, target)
}

// PointerMove continues a gesture. Moves belonging to a refused gesture
// are swallowed.
func (d *Dispatcher) PointerMove(s *canvas.Surface, ev domain.PointerEvent) {
	m, target := d.gestureTarget(s)
	if m == nil || target == nil {
		return
	}
	ev.Phase = domain.PointerMove
	m.OnPointerMove(ev, target)
}

// PointerUp ends a gesture. A refused gesture is unblocked on release so
// the next pointer-down is judged on its own coordinates.
func (d *Dispatcher) PointerUp(s *canvas.Surface, ev domain.PointerEvent) {
	d.mu.Lock()
	m := d.manager
	wasBlocked := s != nil && d.blocked[s.ID()]
	if s != nil {
		delete(d.blocked, s.ID())
	}
	d.mu.Unlock()

	if s == nil || m == nil || wasBlocked {
		return
	}
	target := s.DrawingLayer()
	if target == nil {
		return
	}
	ev.Phase = domain.PointerUp
	m.OnPointerUp(ev, target)
}

func (d *Dispatcher) gestureTarget(s *canvas.Surface) (domain.ToolManager, domain.DrawingContainer) {
	d.mu.Lock()
	m := d.manager
	blocked := s != nil && d.blocked[s.ID()]
	d.mu.Unlock()

	if s == nil || m == nil || blocked {
		return nil, nil
	}
	target := s.DrawingLayer()
	if target == nil {
		return nil, nil
	}
	return m, target
}

// SetActiveTool selects the active tool by name.
func (d *Dispatcher) SetActiveTool(name string) bool {
	d.mu.Lock()
	m := d.manager
	d.mu.Unlock()
	if m == nil {
		log.Printf("tools: set active tool %q with no manager", name)
		return false
	}
	return m.SetActiveTool(name)
}

// Cursor returns the active tool's cursor name.
func (d *Dispatcher) Cursor() string {
	d.mu.Lock()
	m := d.manager
	d.mu.Unlock()
	if m == nil {
		return "default"
	}
	return m.Cursor()
}

// UpdateColor forwards a color change to the active tool.
func (d *Dispatcher) UpdateColor(color string) {
	d.mu.Lock()
	m := d.manager
	d.mu.Unlock()
	if m == nil {
		log.Println("tools: update color with no manager")
		return
	}
	m.UpdateColor(color)
}

// UpdateToolSettings forwards tool settings to the manager.
func (d *Dispatcher) UpdateToolSettings(tool string, settings map[string]any) {
	d.mu.Lock()
	m := d.manager
	d.mu.Unlock()
	if m == nil {
		log.Printf("tools: update settings for %q with no manager", tool)
		return
	}
	m.UpdateToolSettings(tool, settings)
}

// Destroy tears down the registered manager and detaches it.
func (d *Dispatcher) Destroy() {
	d.mu.Lock()
	m := d.manager
	d.manager = nil
	d.blocked = map[string]bool{}
	d.mu.Unlock()

	if m != nil {
		m.Destroy()
	}
}
