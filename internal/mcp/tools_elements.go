package mcpserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ParticlesofMind/neptino-sub001/internal/canvas"
	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
	"github.com/ParticlesofMind/neptino-sub001/internal/history"
)

func (s *Server) registerElementTools() {
	s.mcp.AddTool(mcp.NewTool("add_element",
		mcp.WithDescription("Add a drawing element to a surface. Omit x/y to auto-place it in the first free spot of a drawing-allowed area. Goes through the undo stack."),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("Element type: rectangle, ellipse, line, text, path"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Height"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("X position (optional, auto-placed when omitted)")),
		mcp.WithNumber("y", mcp.Description("Y position (optional, auto-placed when omitted)")),
		mcp.WithString("text", mcp.Description("Text content (optional)")),
		mcp.WithString("fillColor", mcp.Description("Fill color hex (optional, e.g. #3b82f6)")),
		mcp.WithString("strokeColor", mcp.Description("Stroke color hex (optional)")),
	), s.handleAddElement)

	s.mcp.AddTool(mcp.NewTool("move_element",
		mcp.WithDescription("Move a drawing element to new coordinates. Goes through the undo stack; refuses moves into protected regions."),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("New X position"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("New Y position"), mcp.Required()),
	), s.handleMoveElement)

	s.mcp.AddTool(mcp.NewTool("resize_element",
		mcp.WithDescription("Resize a drawing element. Goes through the undo stack."),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
		mcp.WithString("elementId", mcp.Description("Element ID"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("New width"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("New height"), mcp.Required()),
	), s.handleResizeElement)

	s.mcp.AddTool(mcp.NewTool("delete_element",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove a drawing element by ID. Reversible through undo."),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
		mcp.WithString("elementId", mcp.Description("Element ID to delete"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteElement)

	s.mcp.AddTool(mcp.NewTool("list_elements",
		mcp.WithDescription("List the drawing elements on a surface with ids, kinds and rectangles"),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
	), s.handleListElements)
}

// surfaceForTool resolves the surfaceId argument to a live surface.
func (s *Server) surfaceForTool(args map[string]any) (*canvas.Surface, error) {
	id, err := requireString(args, "surfaceId")
	if err != nil {
		return nil, err
	}
	surf := s.session.SurfaceByID(id)
	if surf == nil {
		return nil, fmt.Errorf("surface %q not found (use list_surfaces)", id)
	}
	if surf.DrawingLayer() == nil {
		return nil, fmt.Errorf("surface %q is not initialized", id)
	}
	return surf, nil
}

func (s *Server) handleAddElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	surf, err := s.surfaceForTool(args)
	if err != nil {
		return nil, err
	}

	typ, err := requireString(args, "type")
	if err != nil {
		return nil, err
	}
	kind := domain.NodeKind(typ)
	if !domain.ElementKinds[kind] {
		return nil, fmt.Errorf("unknown element type %q", typ)
	}
	w, err := requireNumber(args, "width")
	if err != nil {
		return nil, err
	}
	h, err := requireNumber(args, "height")
	if err != nil {
		return nil, err
	}

	x, haveX := optionalNumber(args, "x")
	y, haveY := optionalNumber(args, "y")
	if haveX != haveY {
		return nil, fmt.Errorf("pass both x and y, or neither for auto-placement")
	}
	if haveX {
		hit := surf.IsCoordinateEditable(x, y)
		if !hit.Editable {
			reason := hit.Reason
			if reason == "" {
				reason = "area does not allow drawing"
			}
			return nil, fmt.Errorf("position (%v, %v) is protected: %s", x, y, reason)
		}
	} else {
		x, y, err = s.placement.NextPosition(
			surf.LayoutBlocks(), surf.DrawingLayer().Nodes(),
			canvas.PageWidth, canvas.PageHeight, w, h,
		)
		if err != nil {
			return nil, fmt.Errorf("auto-place element: %w", err)
		}
	}

	node := &domain.Node{
		ID:          uuid.New().String(),
		Kind:        kind,
		Interactive: true,
		Rect:        domain.Rect{X: x, Y: y, W: w, H: h},
		Style: domain.NodeStyle{
			Stroke:      "#1e1e1e",
			StrokeWidth: 2,
		},
	}
	if text, ok := args["text"].(string); ok {
		node.Text = text
	}
	if fill, ok := args["fillColor"].(string); ok {
		node.Style.Fill = fill
	}
	if stroke, ok := args["strokeColor"].(string); ok {
		node.Style.Stroke = stroke
	}

	cmd := history.NewAddElement(surf.ID(), surf.DrawingLayer(), node)
	if err := s.session.Execute(cmd); err != nil {
		return nil, err
	}
	return jsonResult(node)
}

func (s *Server) handleMoveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	surf, err := s.surfaceForTool(args)
	if err != nil {
		return nil, err
	}
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}
	x, err := requireNumber(args, "x")
	if err != nil {
		return nil, err
	}
	y, err := requireNumber(args, "y")
	if err != nil {
		return nil, err
	}

	if hit := surf.IsCoordinateEditable(x, y); !hit.Editable {
		return nil, fmt.Errorf("target position (%v, %v) is protected", x, y)
	}

	cmd := history.NewMoveElement(surf.ID(), surf.DrawingLayer(), id, x, y)
	if err := s.session.Execute(cmd); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Moved %s to (%v, %v)", id, x, y)), nil
}

func (s *Server) handleResizeElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	surf, err := s.surfaceForTool(args)
	if err != nil {
		return nil, err
	}
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}
	w, err := requireNumber(args, "width")
	if err != nil {
		return nil, err
	}
	h, err := requireNumber(args, "height")
	if err != nil {
		return nil, err
	}

	cmd := history.NewResizeElement(surf.ID(), surf.DrawingLayer(), id, w, h)
	if err := s.session.Execute(cmd); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Resized %s to %vx%v", id, w, h)), nil
}

func (s *Server) handleDeleteElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	surf, err := s.surfaceForTool(args)
	if err != nil {
		return nil, err
	}
	id, err := requireString(args, "elementId")
	if err != nil {
		return nil, err
	}

	cmd := history.NewRemoveElement(surf.ID(), surf.DrawingLayer(), id)
	if err := s.session.Execute(cmd); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Deleted element %s (undo restores it)", id)), nil
}

func (s *Server) handleListElements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	surf, err := s.surfaceForTool(req.GetArguments())
	if err != nil {
		return nil, err
	}
	return jsonResult(surf.DrawingLayer().Nodes())
}
