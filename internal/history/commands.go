package history

import (
	"fmt"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

// The element commands below form the standard catalog for drawing-layer
// mutations. Command is an open interface: anything implementing it
// composes with the stack without special-casing here.

// AddElement inserts one node into a surface's drawing layer.
type AddElement struct {
	surfaceID string
	target    domain.DrawingContainer
	node      *domain.Node
}

// NewAddElement wraps the insertion of a drawing node as a command. The
// node keeps its identity across undo/redo cycles.
func NewAddElement(surfaceID string, target domain.DrawingContainer, node *domain.Node) *AddElement {
	return &AddElement{surfaceID: surfaceID, target: target, node: node}
}

func (c *AddElement) Execute() error {
	if c.node == nil {
		return fmt.Errorf("add element: nil node")
	}
	if !domain.ElementKinds[c.node.Kind] {
		return fmt.Errorf("add element: %q is not a drawing element kind", c.node.Kind)
	}
	if c.target.Node(c.node.ID) != nil {
		return nil // already present, replay is a no-op
	}
	c.target.Add(c.node)
	return nil
}

func (c *AddElement) Undo() error {
	c.target.Remove(c.node.ID)
	return nil
}

func (c *AddElement) Label() string     { return fmt.Sprintf("add %s", c.node.Kind) }
func (c *AddElement) SurfaceID() string { return c.surfaceID }

// RemoveElement deletes a node from a drawing layer, restoring it at its
// original z-order on undo.
type RemoveElement struct {
	surfaceID string
	target    domain.DrawingContainer
	id        string

	captured *domain.Node
	index    int
}

// NewRemoveElement wraps the removal of the node with the given id.
func NewRemoveElement(surfaceID string, target domain.DrawingContainer, id string) *RemoveElement {
	return &RemoveElement{surfaceID: surfaceID, target: target, id: id}
}

func (c *RemoveElement) Execute() error {
	n := c.target.Node(c.id)
	if n == nil {
		if c.captured != nil {
			return nil // replay after undo-of-undo, nothing to do
		}
		return fmt.Errorf("remove element: %q not found", c.id)
	}
	c.captured = n
	c.index = c.target.IndexOf(c.id)
	c.target.Remove(c.id)
	return nil
}

func (c *RemoveElement) Undo() error {
	if c.captured == nil {
		return nil
	}
	if c.target.Node(c.id) == nil {
		c.target.InsertAt(c.index, c.captured)
	}
	return nil
}

func (c *RemoveElement) Label() string     { return "remove element" }
func (c *RemoveElement) SurfaceID() string { return c.surfaceID }

// MoveElement repositions a node, shifting line and path geometry with it.
type MoveElement struct {
	surfaceID string
	target    domain.DrawingContainer
	id        string
	toX, toY  float64

	fromX, fromY float64
	captured     bool
}

// NewMoveElement wraps moving a node to an absolute position.
func NewMoveElement(surfaceID string, target domain.DrawingContainer, id string, toX, toY float64) *MoveElement {
	return &MoveElement{surfaceID: surfaceID, target: target, id: id, toX: toX, toY: toY}
}

func (c *MoveElement) Execute() error {
	n := c.target.Node(c.id)
	if n == nil {
		return fmt.Errorf("move element: %q not found", c.id)
	}
	if !c.captured {
		c.fromX, c.fromY = n.Rect.X, n.Rect.Y
		c.captured = true
	}
	n.Translate(c.toX-n.Rect.X, c.toY-n.Rect.Y)
	return nil
}

func (c *MoveElement) Undo() error {
	n := c.target.Node(c.id)
	if n == nil {
		return fmt.Errorf("move element: %q not found", c.id)
	}
	n.Translate(c.fromX-n.Rect.X, c.fromY-n.Rect.Y)
	return nil
}

func (c *MoveElement) Label() string     { return "move element" }
func (c *MoveElement) SurfaceID() string { return c.surfaceID }

// ResizeElement changes a node's rectangle size.
type ResizeElement struct {
	surfaceID string
	target    domain.DrawingContainer
	id        string
	toW, toH  float64

	fromW, fromH float64
	captured     bool
}

// NewResizeElement wraps resizing a node to an absolute size.
func NewResizeElement(surfaceID string, target domain.DrawingContainer, id string, toW, toH float64) *ResizeElement {
	return &ResizeElement{surfaceID: surfaceID, target: target, id: id, toW: toW, toH: toH}
}

func (c *ResizeElement) Execute() error {
	if c.toW <= 0 || c.toH <= 0 {
		return fmt.Errorf("resize element: non-positive size %gx%g", c.toW, c.toH)
	}
	n := c.target.Node(c.id)
	if n == nil {
		return fmt.Errorf("resize element: %q not found", c.id)
	}
	if !c.captured {
		c.fromW, c.fromH = n.Rect.W, n.Rect.H
		c.captured = true
	}
	n.Rect.W, n.Rect.H = c.toW, c.toH
	return nil
}

func (c *ResizeElement) Undo() error {
	n := c.target.Node(c.id)
	if n == nil {
		return fmt.Errorf("resize element: %q not found", c.id)
	}
	n.Rect.W, n.Rect.H = c.fromW, c.fromH
	return nil
}

func (c *ResizeElement) Label() string     { return "resize element" }
func (c *ResizeElement) SurfaceID() string { return c.surfaceID }
