package domain

// Command is one reversible canvas mutation. Both directions must be
// idempotent: execute, undo, execute must leave the same observable state
// as a single execute, because the history stack replays commands on redo.
type Command interface {
	Execute() error
	Undo() error
	Label() string
}

// SurfaceScoped is implemented by commands that target a single surface,
// letting the history journal record which surface an entry touched.
type SurfaceScoped interface {
	SurfaceID() string
}

// DrawingContainer is the mutable view of a surface's drawing layer handed
// to commands and drawing tools. It is always the drawing layer, never the
// protected layout layer.
type DrawingContainer interface {
	Add(n *Node)
	InsertAt(i int, n *Node)
	Remove(id string) bool
	Node(id string) *Node
	Nodes() []*Node
	IndexOf(id string) int
	Len() int
}
