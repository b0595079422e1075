package mcpserver

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ParticlesofMind/neptino-sub001/internal/domain"
)

func (s *Server) registerCanvasTools() {
	s.mcp.AddTool(mcp.NewTool("create_lesson_canvases",
		mcp.WithDescription("Create the canvas surfaces for N lessons, one primary page per lesson plus overflow pages as the templates require. Replaces any existing surfaces."),
		mcp.WithNumber("lessonCount", mcp.Description("Number of lessons to lay out"), mcp.Required()),
	), s.handleCreateLessonCanvases)

	s.mcp.AddTool(mcp.NewTool("list_surfaces",
		mcp.WithDescription("List all canvas surfaces with their lesson/page assignment and layer node counts"),
	), s.handleListSurfaces)

	s.mcp.AddTool(mcp.NewTool("get_paging",
		mcp.WithDescription("Get the lesson-to-pages map: which surface renders which page of which lesson"),
	), s.handleGetPaging)

	s.mcp.AddTool(mcp.NewTool("probe_editability",
		mcp.WithDescription("Ask a surface whether a coordinate is editable, and which layout area governs it"),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("X coordinate in page pixels"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Y coordinate in page pixels"), mcp.Required()),
	), s.handleProbeEditability)

	s.mcp.AddTool(mcp.NewTool("export_surface",
		mcp.WithDescription("Render a surface (layout under drawing) to a PNG, returned base64-encoded"),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
	), s.handleExportSurface)

	s.mcp.AddTool(mcp.NewTool("update_margins",
		mcp.WithDescription("Set the page margins for every surface in the session"),
		mcp.WithNumber("top", mcp.Description("Top margin"), mcp.Required()),
		mcp.WithNumber("right", mcp.Description("Right margin"), mcp.Required()),
		mcp.WithNumber("bottom", mcp.Description("Bottom margin"), mcp.Required()),
		mcp.WithNumber("left", mcp.Description("Left margin"), mcp.Required()),
		mcp.WithString("unit", mcp.Description("Unit: mm, cm, inches, or px"), mcp.Required()),
	), s.handleUpdateMargins)

	s.mcp.AddTool(mcp.NewTool("clear_surface",
		mcp.WithDescription("🛑 DESTRUCTIVE: Remove every drawing element on a surface. The protected layout is untouched."),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleClearSurface)

	s.mcp.AddTool(mcp.NewTool("reset_surface",
		mcp.WithDescription("🛑 DESTRUCTIVE: Wipe a surface completely and restore its protected layout from the stored blocks. Drawing content is lost."),
		mcp.WithString("surfaceId", mcp.Description("Surface ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleResetSurface)

	s.mcp.AddTool(mcp.NewTool("debug_backends",
		mcp.WithDescription("List the session's rendering backends: ids, sizes, node counts, protection state"),
	), s.handleDebugBackends)
}

func (s *Server) handleCreateLessonCanvases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	count, err := requireNumber(req.GetArguments(), "lessonCount")
	if err != nil {
		return nil, err
	}
	if _, err := s.session.CreateLessonCanvases(ctx, int(count)); err != nil {
		return nil, err
	}
	return jsonResult(s.session.Paging())
}

func (s *Server) handleListSurfaces(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type surfaceView struct {
		ID           string `json:"id"`
		Lesson       int    `json:"lesson"`
		Page         int    `json:"page"`
		MountID      string `json:"mountId"`
		Protected    bool   `json:"protected"`
		LayoutNodes  int    `json:"layoutNodes"`
		DrawingNodes int    `json:"drawingNodes"`
	}

	var out []surfaceView
	for _, surf := range s.session.Surfaces() {
		info := surf.DebugInfo()
		out = append(out, surfaceView{
			ID:           surf.ID(),
			Lesson:       surf.Lesson(),
			Page:         surf.Page(),
			MountID:      surf.MountID(),
			Protected:    info.Protected,
			LayoutNodes:  info.LayoutNodes,
			DrawingNodes: info.DrawingNodes,
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetPaging(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.session.Paging())
}

func (s *Server) handleProbeEditability(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, err := requireString(args, "surfaceId")
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

	hit, err := s.session.Editability(id, x, y)
	if err != nil {
		return nil, err
	}
	return jsonResult(hit)
}

func (s *Server) handleExportSurface(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "surfaceId")
	if err != nil {
		return nil, err
	}
	png, err := s.session.ExportSurfacePNG(id)
	if err != nil {
		return nil, err
	}
	return jsonResult(map[string]any{
		"surfaceId": id,
		"format":    "png",
		"base64":    base64.StdEncoding.EncodeToString(png),
	})
}

func (s *Server) handleUpdateMargins(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	spec := domain.MarginSpec{}
	for key, dst := range map[string]*float64{
		"top": &spec.Top, "right": &spec.Right, "bottom": &spec.Bottom, "left": &spec.Left,
	} {
		v, err := requireNumber(args, key)
		if err != nil {
			return nil, err
		}
		if v < 0 {
			return nil, fmt.Errorf("%s margin must be non-negative", key)
		}
		*dst = v
	}
	unit, err := requireString(args, "unit")
	if err != nil {
		return nil, err
	}
	spec.Unit = domain.Unit(unit)

	if err := s.session.UpdateMargins(spec); err != nil {
		return nil, err
	}
	return jsonResult(s.session.Margins())
}

func (s *Server) handleClearSurface(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "surfaceId")
	if err != nil {
		return nil, err
	}
	if err := s.session.ClearSurface(id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Cleared drawing layer of surface %s", id)), nil
}

func (s *Server) handleResetSurface(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req.GetArguments(), "surfaceId")
	if err != nil {
		return nil, err
	}
	if err := s.session.ResetSurface(id); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Reset surface %s; protected layout restored", id)), nil
}

func (s *Server) handleDebugBackends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.session.DebugBackends())
}
