package mcpserver

import (
	"testing"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

func drawingArea(id string, r domain.Rect) domain.LayoutArea {
	return domain.LayoutArea{ID: id, Rect: r, AllowsDrawing: true}
}

func TestNextPositionEmptyLayoutUsesWholePage(t *testing.T) {
	pe := NewPlacementEngine()
	x, y, err := pe.NextPosition(nil, nil, 794, 1123, 100, 80)
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	if x != 0 || y != 0 {
		t.Errorf("first placement = (%v, %v), want origin", x, y)
	}
}

func TestNextPositionStaysInsideAllowedArea(t *testing.T) {
	pe := NewPlacementEngine()
	blocks := []domain.LayoutBlock{{
		ID:   "b",
		Rect: domain.Rect{X: 0, Y: 0, W: 794, H: 1123},
		Areas: []domain.LayoutArea{
			// Text-only area first: must be skipped despite coming first.
			{ID: "text", Rect: domain.Rect{X: 0, Y: 0, W: 794, H: 200}, AllowsText: true},
			drawingArea("draw", domain.Rect{X: 57, Y: 300, W: 680, H: 400}),
		},
	}}

	x, y, err := pe.NextPosition(blocks, nil, 794, 1123, 120, 90)
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	area := blocks[0].Areas[1].Rect
	if x < area.X || y < area.Y || x+120 > area.X+area.W || y+90 > area.Y+area.H {
		t.Errorf("placement (%v, %v) escapes the drawing area %+v", x, y, area)
	}
	if int(x)%30 != 0 || int(y)%30 != 0 {
		t.Errorf("placement (%v, %v) is off the grid", x, y)
	}
}

func TestNextPositionAvoidsExistingElements(t *testing.T) {
	pe := NewPlacementEngine()
	blocks := []domain.LayoutBlock{{
		ID:    "b",
		Rect:  domain.Rect{X: 0, Y: 0, W: 794, H: 1123},
		Areas: []domain.LayoutArea{drawingArea("draw", domain.Rect{X: 0, Y: 0, W: 600, H: 600})},
	}}
	existing := []*domain.Node{
		{ID: "n1", Kind: domain.NodeRectangle, Rect: domain.Rect{X: 0, Y: 0, W: 200, H: 200}},
	}

	x, y, err := pe.NextPosition(blocks, existing, 794, 1123, 100, 100)
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	candidate := domain.Rect{X: x, Y: y, W: 100, H: 100}
	if intersects(candidate, existing[0].Rect) {
		t.Errorf("placement %+v overlaps existing element %+v", candidate, existing[0].Rect)
	}
}

func TestNextPositionFailsWhenNothingFits(t *testing.T) {
	pe := NewPlacementEngine()

	tests := []struct {
		name   string
		blocks []domain.LayoutBlock
	}{
		{
			name: "no drawing areas",
			blocks: []domain.LayoutBlock{{
				ID:    "b",
				Rect:  domain.Rect{X: 0, Y: 0, W: 794, H: 1123},
				Areas: []domain.LayoutArea{{ID: "t", Rect: domain.Rect{W: 794, H: 1123}, AllowsText: true}},
			}},
		},
		{
			name: "element larger than every area",
			blocks: []domain.LayoutBlock{{
				ID:    "b",
				Rect:  domain.Rect{X: 0, Y: 0, W: 794, H: 1123},
				Areas: []domain.LayoutArea{drawingArea("d", domain.Rect{X: 0, Y: 0, W: 50, H: 50})},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := pe.NextPosition(tt.blocks, nil, 794, 1123, 100, 100); err == nil {
				t.Error("NextPosition succeeded, want error")
			}
		})
	}
}

func TestNextPositionFillsRowsThenWraps(t *testing.T) {
	pe := NewPlacementEngine()
	blocks := []domain.LayoutBlock{{
		ID:    "b",
		Rect:  domain.Rect{X: 0, Y: 0, W: 794, H: 1123},
		Areas: []domain.LayoutArea{drawingArea("d", domain.Rect{X: 0, Y: 0, W: 300, H: 600})},
	}}

	var existing []*domain.Node
	var lastY float64
	for i := 0; i < 4; i++ {
		x, y, err := pe.NextPosition(blocks, existing, 794, 1123, 120, 120)
		if err != nil {
			t.Fatalf("placement %d: %v", i, err)
		}
		if y < lastY {
			t.Errorf("placement %d at y=%v above previous row y=%v", i, y, lastY)
		}
		lastY = y
		existing = append(existing, &domain.Node{
			ID:   string(rune('a' + i)),
			Kind: domain.NodeRectangle,
			Rect: domain.Rect{X: x, Y: y, W: 120, H: 120},
		})
	}
}
