package domain

// PointerPhase tags where in a press-drag-release gesture an event sits.
type PointerPhase string

const (
	PointerDown PointerPhase = "down"
	PointerMove PointerPhase = "move"
	PointerUp   PointerPhase = "up"
)

// PointerEvent is one pointer interaction in page coordinates.
type PointerEvent struct {
	Phase  PointerPhase `json:"phase"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Button int          `json:"button"`
}

// ToolManager is the external drawing-tool collaborator. The engine routes
// pointer events to it with the drawing layer as the target container; the
// layout layer is never handed out.
type ToolManager interface {
	OnPointerDown(ev PointerEvent, target DrawingContainer)
	OnPointerMove(ev PointerEvent, target DrawingContainer)
	OnPointerUp(ev PointerEvent, target DrawingContainer)

	SetActiveTool(name string) bool
	Cursor() string
	UpdateColor(color string)
	UpdateToolSettings(tool string, settings map[string]any)
	Destroy()
}
