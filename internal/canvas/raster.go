package canvas

import (
	"strconv"

	"github.com/fogleman/gg"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

const defaultTextColor = "#111111"

// renderLayers paints layers bottom to top into the context. Node order
// within a layer is paint order.
func renderLayers(dc *gg.Context, layers []*Layer, debugOutlines bool) {
	dc.SetRGBA(1, 1, 1, 1)
	dc.Clear()

	for _, layer := range layers {
		for _, n := range layer.Nodes() {
			renderNode(dc, n)
		}
	}

	if debugOutlines {
		renderOutlines(dc, layers)
	}
}

func renderNode(dc *gg.Context, n *domain.Node) {
	switch n.Kind {
	case domain.NodeBackground, domain.NodeBlockFill:
		fillRect(dc, n)

	case domain.NodeGridLine, domain.NodeLine, domain.NodeMarginGuide:
		strokeLine(dc, n)

	case domain.NodeBlockBorder, domain.NodeAreaBorder:
		strokeRect(dc, n)

	case domain.NodeRectangle:
		fillRect(dc, n)
		strokeRect(dc, n)

	case domain.NodeEllipse:
		r := n.Rect
		dc.DrawEllipse(r.X+r.W/2, r.Y+r.H/2, r.W/2, r.H/2)
		if setFill(dc, n.Style) {
			dc.FillPreserve()
		}
		if setStroke(dc, n.Style) {
			dc.Stroke()
		} else {
			dc.ClearPath()
		}

	case domain.NodePath:
		strokePath(dc, n)

	case domain.NodeBlockLabel, domain.NodeAreaLabel, domain.NodeAreaContent, domain.NodeText:
		drawText(dc, n)
	}
}

func fillRect(dc *gg.Context, n *domain.Node) {
	if !setFill(dc, n.Style) {
		return
	}
	dc.DrawRectangle(n.Rect.X, n.Rect.Y, n.Rect.W, n.Rect.H)
	dc.Fill()
}

func strokeRect(dc *gg.Context, n *domain.Node) {
	if !setStroke(dc, n.Style) {
		return
	}
	dc.DrawRectangle(n.Rect.X, n.Rect.Y, n.Rect.W, n.Rect.H)
	dc.Stroke()
}

func strokeLine(dc *gg.Context, n *domain.Node) {
	if len(n.Points) < 2 || !setStroke(dc, n.Style) {
		return
	}
	dc.DrawLine(n.Points[0].X, n.Points[0].Y, n.Points[1].X, n.Points[1].Y)
	dc.Stroke()
}

func strokePath(dc *gg.Context, n *domain.Node) {
	if len(n.Points) < 2 || !setStroke(dc, n.Style) {
		return
	}
	dc.MoveTo(n.Points[0].X, n.Points[0].Y)
	for _, p := range n.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

func drawText(dc *gg.Context, n *domain.Node) {
	if n.Text == "" {
		return
	}
	face := fontFace(n.Style.FontSize, n.Style.Bold)
	if face == nil {
		return
	}
	dc.SetFontFace(face)

	color := n.Style.TextColor
	if color == "" {
		color = defaultTextColor
	}
	r, g, b, ok := hexRGB(color)
	if !ok {
		r, g, b, _ = hexRGB(defaultTextColor)
	}
	dc.SetRGBA(r, g, b, 1)

	if n.Rect.W > 0 {
		dc.DrawStringWrapped(n.Text, n.Rect.X, n.Rect.Y, 0, 0, n.Rect.W, 1.35, gg.AlignLeft)
		return
	}
	dc.DrawStringAnchored(n.Text, n.Rect.X, n.Rect.Y, 0, 1)
}

func renderOutlines(dc *gg.Context, layers []*Layer) {
	dc.SetRGBA(1, 0, 1, 0.7)
	dc.SetLineWidth(0.5)
	dc.SetDash()
	for _, layer := range layers {
		for _, n := range layer.Nodes() {
			if !n.Rect.Valid() {
				continue
			}
			dc.DrawRectangle(n.Rect.X, n.Rect.Y, n.Rect.W, n.Rect.H)
			dc.Stroke()
		}
	}
	dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
	dc.Stroke()
}

// setFill loads the node's fill color into the context, reporting whether
// the node has a fill at all. A zero FillAlpha means opaque.
func setFill(dc *gg.Context, s domain.NodeStyle) bool {
	if s.Fill == "" {
		return false
	}
	r, g, b, ok := hexRGB(s.Fill)
	if !ok {
		return false
	}
	alpha := s.FillAlpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	dc.SetRGBA(r, g, b, alpha)
	return true
}

func setStroke(dc *gg.Context, s domain.NodeStyle) bool {
	if s.Stroke == "" {
		return false
	}
	r, g, b, ok := hexRGB(s.Stroke)
	if !ok {
		return false
	}
	dc.SetRGBA(r, g, b, 1)
	width := s.StrokeWidth
	if width <= 0 {
		width = 1
	}
	dc.SetLineWidth(width)
	if s.Dashed {
		dc.SetDash(5, 4)
	} else {
		dc.SetDash()
	}
	return true
}

// hexRGB parses "#rgb" and "#rrggbb" into 0..1 components.
func hexRGB(s string) (r, g, b float64, ok bool) {
	if len(s) == 0 || s[0] != '#' {
		return 0, 0, 0, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	r = float64(v>>16&0xff) / 255
	g = float64(v>>8&0xff) / 255
	b = float64(v&0xff) / 255
	return r, g, b, true
}
