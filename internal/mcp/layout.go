package mcpserver

import (
	"fmt"
	"math"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

const (
	GridSize = 30.0 // placement snap, matches the frontend grid
	Padding  = 12.0 // clearance kept around existing elements
)

// PlacementEngine finds free positions for agent-created elements so they
// land inside drawing-allowed layout areas without covering existing
// drawing content.
type PlacementEngine struct {
	gridSize float64
	padding  float64
}

func NewPlacementEngine() *PlacementEngine {
	return &PlacementEngine{gridSize: GridSize, padding: Padding}
}

func intersects(a, b domain.Rect) bool {
	return a.X < b.X+b.W && a.X+a.W > b.X &&
		a.Y < b.Y+b.H && a.Y+a.H > b.Y
}

// allowedRegions returns the rectangles an element may occupy. With no
// protected layout every coordinate is editable, so the whole page is
// one region; otherwise only drawing-allowed areas qualify, in
// declaration order.
func allowedRegions(blocks []domain.LayoutBlock, pageW, pageH float64) []domain.Rect {
	if len(blocks) == 0 {
		return []domain.Rect{{W: pageW, H: pageH}}
	}
	var regions []domain.Rect
	for _, b := range blocks {
		for _, a := range b.Areas {
			if a.AllowsDrawing {
				regions = append(regions, a.Rect)
			}
		}
	}
	return regions
}

// NextPosition finds a grid-snapped position for an element of size
// (w, h): the first spot, scanning each allowed region top-to-bottom and
// left-to-right, that stays inside the region and clears every existing
// element by the padding.
func (pe *PlacementEngine) NextPosition(blocks []domain.LayoutBlock, existing []*domain.Node, pageW, pageH, w, h float64) (float64, float64, error) {
	regions := allowedRegions(blocks, pageW, pageH)
	if len(regions) == 0 {
		return 0, 0, fmt.Errorf("layout has no drawing-allowed areas")
	}

	occupied := make([]domain.Rect, 0, len(existing))
	for _, n := range existing {
		occupied = append(occupied, domain.Rect{
			X: n.Rect.X - pe.padding,
			Y: n.Rect.Y - pe.padding,
			W: n.Rect.W + pe.padding*2,
			H: n.Rect.H + pe.padding*2,
		})
	}

	for _, region := range regions {
		if w > region.W || h > region.H {
			continue
		}
		// First grid line at or after the region's top-left corner.
		startX := math.Ceil(region.X/pe.gridSize) * pe.gridSize
		startY := math.Ceil(region.Y/pe.gridSize) * pe.gridSize

		for y := startY; y+h <= region.Y+region.H; y += pe.gridSize {
			for x := startX; x+w <= region.X+region.W; x += pe.gridSize {
				candidate := domain.Rect{X: x, Y: y, W: w, H: h}
				free := true
				for _, occ := range occupied {
					if intersects(candidate, occ) {
						free = false
						break
					}
				}
				if free {
					return x, y, nil
				}
			}
		}
	}

	return 0, 0, fmt.Errorf("no free %vx%v spot in any drawing-allowed area", w, h)
}
