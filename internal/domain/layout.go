package domain

import "math"

// Rect is an axis-aligned rectangle in page pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether the point (x, y) falls inside the rectangle.
// Edges are half-open: the left/top edge is inside, the right/bottom is not.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Valid reports whether the rectangle has positive size and finite coordinates.
func (r Rect) Valid() bool {
	for _, v := range []float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.W > 0 && r.H > 0
}

// LayoutArea is a sub-region of a layout block with its own capability flags.
// Area rectangles are expected, but not enforced, to lie within the parent
// block's rectangle.
type LayoutArea struct {
	ID            string `json:"id"`
	Rect          Rect   `json:"rect"`
	AllowsDrawing bool   `json:"allowsDrawing"`
	AllowsMedia   bool   `json:"allowsMedia"`
	AllowsText    bool   `json:"allowsText"`
	Content       string `json:"content,omitempty"`
}

// LayoutBlock is one machine-generated structural region of a page.
// Blocks are produced by a lesson template and consumed read-only by the
// layout renderer; ordinary user actions can never erase them.
type LayoutBlock struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Rect  Rect         `json:"rect"`
	Areas []LayoutArea `json:"areas,omitempty"`
}

// CloneBlocks deep-copies a block list so a caller can retain it without
// sharing area slices with the producer.
func CloneBlocks(blocks []LayoutBlock) []LayoutBlock {
	if blocks == nil {
		return nil
	}
	out := make([]LayoutBlock, len(blocks))
	for i, b := range blocks {
		out[i] = b
		out[i].Areas = append([]LayoutArea(nil), b.Areas...)
	}
	return out
}

// ReasonOutsideAreas is the editability reason reported when a protected
// layout exists but no area contains the queried point.
const ReasonOutsideAreas = "outside defined layout areas"

// Editability is the answer to a layout hit-test at a single coordinate.
// When an area matches, Editable mirrors the area's drawing flag and the
// remaining flags describe what else the area permits.
type Editability struct {
	Editable      bool   `json:"editable"`
	AllowsDrawing bool   `json:"allowsDrawing"`
	AllowsMedia   bool   `json:"allowsMedia"`
	AllowsText    bool   `json:"allowsText"`
	BlockID       string `json:"blockId,omitempty"`
	AreaID        string `json:"areaId,omitempty"`
	Reason        string `json:"reason,omitempty"`
}
