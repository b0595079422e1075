package tools_test

import (
	"context"
	"testing"

	"github.com/ParticlesofMind/neptino-sub001/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
	"github.com/ParticlesofMind/neptino-sub001/internal/tools"
)

// ─────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────

type call struct {
	phase  domain.PointerPhase
	target domain.DrawingContainer
}

// fakeManager records every forwarded pointer event.
type fakeManager struct {
	calls     []call
	active    string
	destroyed bool
}

func (m *fakeManager) OnPointerDown(ev domain.PointerEvent, t domain.DrawingContainer) {
	m.calls = append(m.calls, call{domain.PointerDown, t})
}
func (m *fakeManager) OnPointerMove(ev domain.PointerEvent, t domain.DrawingContainer) {
	m.calls = append(m.calls, call{domain.PointerMove, t})
}
func (m *fakeManager) OnPointerUp(ev domain.PointerEvent, t domain.DrawingContainer) {
	m.calls = append(m.calls, call{domain.PointerUp, t})
}
func (m *fakeManager) SetActiveTool(name string) bool { m.active = name; return true }
func (m *fakeManager) Cursor() string                 { return "crosshair" }
func (m *fakeManager) UpdateColor(string)             {}
func (m *fakeManager) UpdateToolSettings(string, map[string]any) {}
func (m *fakeManager) Destroy()                       { m.destroyed = true }

type openMounts struct{}

func (openMounts) Exists(string) bool { return true }

func newSurface(t *testing.T) *canvas.Surface {
	t.Helper()
	s := canvas.NewSurface(canvas.Options{MountID: "m", Mounts: openMounts{}})
	if err := s.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return s
}

func protectedBlocks() []domain.LayoutBlock {
	return []domain.LayoutBlock{{
		ID:   "b1",
		Rect: domain.Rect{X: 0, Y: 0, W: 400, H: 400},
		Areas: []domain.LayoutArea{
			{ID: "locked", Rect: domain.Rect{X: 0, Y: 0, W: 100, H: 100}},
			{ID: "open", Rect: domain.Rect{X: 100, Y: 0, W: 100, H: 100}, AllowsDrawing: true},
		},
	}}
}

// ─────────────────────────────────────────────────────────────
// Dispatch boundary
// ─────────────────────────────────────────────────────────────

func TestForwardsToDrawingLayerOnly(t *testing.T) {
	s := newSurface(t)
	defer s.Destroy()
	m := &fakeManager{}
	d := tools.NewDispatcher()
	d.SetManager(m)

	d.PointerDown(s, domain.PointerEvent{X: 10, Y: 10})
	d.PointerMove(s, domain.PointerEvent{X: 20, Y: 20})
	d.PointerUp(s, domain.PointerEvent{X: 20, Y: 20})

	if len(m.calls) != 3 {
		t.Fatalf("forwarded %d events, want 3", len(m.calls))
	}
	drawing := s.DrawingLayer()
	for i, c := range m.calls {
		if c.target != domain.DrawingContainer(drawing) {
			t.Errorf("call %d targeted %v, want the drawing layer", i, c.target)
		}
	}
	wantPhases := []domain.PointerPhase{domain.PointerDown, domain.PointerMove, domain.PointerUp}
	for i, c := range m.calls {
		if c.phase != wantPhases[i] {
			t.Errorf("call %d phase = %q, want %q", i, c.phase, wantPhases[i])
		}
	}
}

func TestRefusesGestureInProtectedCoordinate(t *testing.T) {
	s := newSurface(t)
	defer s.Destroy()
	if err := s.RenderLayoutAsBackground(protectedBlocks()); err != nil {
		t.Fatalf("RenderLayoutAsBackground: %v", err)
	}

	m := &fakeManager{}
	d := tools.NewDispatcher()
	d.SetManager(m)

	// Inside the locked area: the whole gesture is swallowed.
	d.PointerDown(s, domain.PointerEvent{X: 50, Y: 50})
	d.PointerMove(s, domain.PointerEvent{X: 60, Y: 60})
	d.PointerUp(s, domain.PointerEvent{X: 60, Y: 60})
	if len(m.calls) != 0 {
		t.Fatalf("refused gesture forwarded %d events", len(m.calls))
	}

	// The next gesture in an allowed area goes through untouched.
	d.PointerDown(s, domain.PointerEvent{X: 150, Y: 50})
	d.PointerUp(s, domain.PointerEvent{X: 150, Y: 50})
	if len(m.calls) != 2 {
		t.Fatalf("allowed gesture forwarded %d events, want 2", len(m.calls))
	}
}

func TestRefusesGestureOutsideDefinedAreas(t *testing.T) {
	s := newSurface(t)
	defer s.Destroy()
	if err := s.RenderLayoutAsBackground(protectedBlocks()); err != nil {
		t.Fatalf("RenderLayoutAsBackground: %v", err)
	}

	m := &fakeManager{}
	d := tools.NewDispatcher()
	d.SetManager(m)

	d.PointerDown(s, domain.PointerEvent{X: 300, Y: 300})
	if len(m.calls) != 0 {
		t.Fatal("gesture outside defined areas was forwarded")
	}
}

func TestNoManagerIsANoOp(t *testing.T) {
	s := newSurface(t)
	defer s.Destroy()
	d := tools.NewDispatcher()

	d.PointerDown(s, domain.PointerEvent{X: 1, Y: 1})
	d.PointerUp(s, domain.PointerEvent{X: 1, Y: 1})
	if d.SetActiveTool("pen") {
		t.Error("SetActiveTool reported success with no manager")
	}
	if got := d.Cursor(); got != "default" {
		t.Errorf("Cursor() = %q with no manager", got)
	}
	d.UpdateColor("#ff0000")
	d.UpdateToolSettings("pen", map[string]any{"width": 3})
}

func TestDestroyTearsDownManager(t *testing.T) {
	m := &fakeManager{}
	d := tools.NewDispatcher()
	d.SetManager(m)
	d.Destroy()

	if !m.destroyed {
		t.Error("manager not destroyed")
	}
	s := newSurface(t)
	defer s.Destroy()
	d.PointerDown(s, domain.PointerEvent{X: 1, Y: 1})
	if len(m.calls) != 0 {
		t.Error("destroyed dispatcher still forwards events")
	}
}
