package domain

// NodeKind identifies what a scene node represents. Layout kinds are painted
// by the layout renderer and are never interactive; element kinds are user
// content on the drawing layer.
type NodeKind string

const (
	// Layout layer kinds.
	NodeBackground  NodeKind = "background"
	NodeGridLine    NodeKind = "grid-line"
	NodeBlockFill   NodeKind = "block-fill"
	NodeBlockBorder NodeKind = "block-border"
	NodeBlockLabel  NodeKind = "block-label"
	NodeAreaBorder  NodeKind = "area-border"
	NodeAreaLabel   NodeKind = "area-label"
	NodeAreaContent NodeKind = "area-content"
	NodeMarginGuide NodeKind = "margin-guide"

	// Drawing layer kinds.
	NodeRectangle NodeKind = "rectangle"
	NodeEllipse   NodeKind = "ellipse"
	NodeLine      NodeKind = "line"
	NodeText      NodeKind = "text"
	NodePath      NodeKind = "path"
)

// ElementKinds lists the node kinds user tools may create on a drawing layer.
var ElementKinds = map[NodeKind]bool{
	NodeRectangle: true,
	NodeEllipse:   true,
	NodeLine:      true,
	NodeText:      true,
	NodePath:      true,
}

// Point is a coordinate in page pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeStyle carries the raster attributes of a node. Colors are "#rrggbb"
// hex strings; a zero FillAlpha on a filled node means fully opaque.
type NodeStyle struct {
	Fill        string  `json:"fill,omitempty"`
	FillAlpha   float64 `json:"fillAlpha,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Dashed      bool    `json:"dashed,omitempty"`
	FontSize    float64 `json:"fontSize,omitempty"`
	TextColor   string  `json:"textColor,omitempty"`
	Bold        bool    `json:"bold,omitempty"`
}

// Node is one entry in a layer's ordered node list. Rect positions the node;
// line and path kinds carry their geometry in Points instead, and text kinds
// wrap Text to the rect width when it is set.
type Node struct {
	ID          string    `json:"id"`
	Kind        NodeKind  `json:"kind"`
	Tag         string    `json:"tag,omitempty"`
	Interactive bool      `json:"interactive"`
	Rect        Rect      `json:"rect"`
	Points      []Point   `json:"points,omitempty"`
	Text        string    `json:"text,omitempty"`
	Style       NodeStyle `json:"style"`
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := *n
	out.Points = append([]Point(nil), n.Points...)
	return &out
}

// Translate moves the node by (dx, dy), shifting point geometry with it.
func (n *Node) Translate(dx, dy float64) {
	n.Rect.X += dx
	n.Rect.Y += dy
	for i := range n.Points {
		n.Points[i].X += dx
		n.Points[i].Y += dy
	}
}
