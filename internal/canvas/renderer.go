package canvas

import (
	"log"

	"github.com/google/uuid"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

// Layout paint constants. Label sizes are fixed regardless of block height
// so titles stay readable across small and large blocks.
const (
	gridStep          = 30
	blockLabelSize    = 13
	areaLabelSize     = 10
	areaContentSize   = 11
	areaTextMinHeight = 28
)

const (
	backgroundColor = "#ffffff"
	gridColor       = "#e2e8f0"
	areaBorderColor = "#64748b"
	blockLabelColor = "#1e293b"
	areaLabelColor  = "#475569"
	areaContentColor = "#334155"
)

// blockPalette cycles per block index.
var blockPalette = []string{"#3b82f6", "#8b5cf6", "#10b981", "#f59e0b", "#ef4444", "#06b6d4"}

// LayoutRenderer paints protected structural layouts onto a layout layer
// and answers point-editability queries against the same block data.
type LayoutRenderer struct {
	pageW float64
	pageH float64
}

// NewLayoutRenderer creates a renderer for the given page size.
func NewLayoutRenderer(pageW, pageH float64) *LayoutRenderer {
	return &LayoutRenderer{pageW: pageW, pageH: pageH}
}

// Paint clears the layer and repaints the full protected layout: page
// background, orientation grid, then per block a translucent fill, border,
// and title label, and per area a dashed border plus label and wrapped
// static content when the area is tall enough. Malformed blocks and areas
// are skipped with a log line rather than aborting the paint; the skipped
// count is returned. Every node painted here is non-interactive.
func (r *LayoutRenderer) Paint(layer *Layer, blocks []domain.LayoutBlock) int {
	layer.Clear()

	layer.Add(&domain.Node{
		ID:   uuid.New().String(),
		Kind: domain.NodeBackground,
		Rect: domain.Rect{X: 0, Y: 0, W: r.pageW, H: r.pageH},
		Style: domain.NodeStyle{Fill: backgroundColor, FillAlpha: 1},
	})
	r.paintGrid(layer)

	skipped := 0
	for i, b := range blocks {
		if !b.Rect.Valid() {
			log.Printf("canvas: skipping block %q: invalid rect %+v", b.ID, b.Rect)
			skipped++
			continue
		}
		r.paintBlock(layer, b, blockPalette[i%len(blockPalette)])

		for _, a := range b.Areas {
			if !a.Rect.Valid() {
				log.Printf("canvas: skipping area %q of block %q: invalid rect %+v", a.ID, b.ID, a.Rect)
				skipped++
				continue
			}
			r.paintArea(layer, a)
		}
	}
	return skipped
}

func (r *LayoutRenderer) paintGrid(layer *Layer) {
	for x := float64(gridStep); x < r.pageW; x += gridStep {
		layer.Add(gridLine(domain.Point{X: x, Y: 0}, domain.Point{X: x, Y: r.pageH}))
	}
	for y := float64(gridStep); y < r.pageH; y += gridStep {
		layer.Add(gridLine(domain.Point{X: 0, Y: y}, domain.Point{X: r.pageW, Y: y}))
	}
}

func gridLine(a, b domain.Point) *domain.Node {
	return &domain.Node{
		ID:     uuid.New().String(),
		Kind:   domain.NodeGridLine,
		Points: []domain.Point{a, b},
		Style:  domain.NodeStyle{Stroke: gridColor, StrokeWidth: 0.5},
	}
}

func (r *LayoutRenderer) paintBlock(layer *Layer, b domain.LayoutBlock, color string) {
	layer.Add(&domain.Node{
		ID:    uuid.New().String(),
		Kind:  domain.NodeBlockFill,
		Rect:  b.Rect,
		Style: domain.NodeStyle{Fill: color, FillAlpha: 0.08},
	})
	layer.Add(&domain.Node{
		ID:    uuid.New().String(),
		Kind:  domain.NodeBlockBorder,
		Rect:  b.Rect,
		Style: domain.NodeStyle{Stroke: color, StrokeWidth: 1.5},
	})

	title := b.Title
	if title == "" {
		title = b.ID
	}
	layer.Add(&domain.Node{
		ID:   uuid.New().String(),
		Kind: domain.NodeBlockLabel,
		Rect: domain.Rect{X: b.Rect.X + 8, Y: b.Rect.Y + 5, W: b.Rect.W - 16, H: blockLabelSize * 1.5},
		Text: title,
		Style: domain.NodeStyle{
			FontSize:  blockLabelSize,
			TextColor: blockLabelColor,
			Bold:      true,
		},
	})
}

func (r *LayoutRenderer) paintArea(layer *Layer, a domain.LayoutArea) {
	layer.Add(&domain.Node{
		ID:    uuid.New().String(),
		Kind:  domain.NodeAreaBorder,
		Rect:  a.Rect,
		Style: domain.NodeStyle{Stroke: areaBorderColor, StrokeWidth: 1, Dashed: true},
	})

	if a.Rect.H < areaTextMinHeight {
		return
	}
	layer.Add(&domain.Node{
		ID:   uuid.New().String(),
		Kind: domain.NodeAreaLabel,
		Rect: domain.Rect{X: a.Rect.X + 6, Y: a.Rect.Y + 4, W: a.Rect.W - 12, H: areaLabelSize * 1.5},
		Text: a.ID,
		Style: domain.NodeStyle{
			FontSize:  areaLabelSize,
			TextColor: areaLabelColor,
		},
	})
	if a.Content == "" {
		return
	}
	layer.Add(&domain.Node{
		ID:   uuid.New().String(),
		Kind: domain.NodeAreaContent,
		Rect: domain.Rect{
			X: a.Rect.X + 6,
			Y: a.Rect.Y + areaLabelSize*1.5 + 8,
			W: a.Rect.W - 12,
			H: a.Rect.H - areaLabelSize*1.5 - 12,
		},
		Text: a.Content,
		Style: domain.NodeStyle{
			FontSize:  areaContentSize,
			TextColor: areaContentColor,
		},
	})
}

// Hit scans blocks in declaration order, and each block's areas in
// declaration order, returning the first area containing the point.
// Overlapping areas resolve by declaration order, not z-order. When no
// area contains the point the coordinate is not editable.
func (r *LayoutRenderer) Hit(blocks []domain.LayoutBlock, x, y float64) domain.Editability {
	for _, b := range blocks {
		for _, a := range b.Areas {
			if a.Rect.Contains(x, y) {
				return domain.Editability{
					Editable:      a.AllowsDrawing,
					AllowsDrawing: a.AllowsDrawing,
					AllowsMedia:   a.AllowsMedia,
					AllowsText:    a.AllowsText,
					BlockID:       b.ID,
					AreaID:        a.ID,
				}
			}
		}
	}
	return domain.Editability{Editable: false, Reason: domain.ReasonOutsideAreas}
}
