package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerHistoryTools() {
	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the most recent canvas edit, whichever surface it touched. No-op when nothing can be undone."),
	), s.handleUndo)

	s.mcp.AddTool(mcp.NewTool("redo",
		mcp.WithDescription("Redo the most recently undone canvas edit. No-op when nothing can be redone."),
	), s.handleRedo)

	s.mcp.AddTool(mcp.NewTool("history_status",
		mcp.WithDescription("Report whether undo and redo are currently possible"),
	), s.handleHistoryStatus)

	s.mcp.AddTool(mcp.NewTool("list_history",
		mcp.WithDescription("List the session's journaled history entries, most recent first"),
		mcp.WithNumber("limit", mcp.Description("Maximum entries to return (default 40)")),
	), s.handleListHistory)
}

func (s *Server) handleUndo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.session.CanUndo() {
		return textResult("Nothing to undo"), nil
	}
	if err := s.session.Undo(); err != nil {
		return nil, err
	}
	return s.handleHistoryStatus(ctx, req)
}

func (s *Server) handleRedo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.session.CanRedo() {
		return textResult("Nothing to redo"), nil
	}
	if err := s.session.Redo(); err != nil {
		return nil, err
	}
	return s.handleHistoryStatus(ctx, req)
}

func (s *Server) handleHistoryStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]bool{
		"canUndo": s.session.CanUndo(),
		"canRedo": s.session.CanRedo(),
	})
}

func (s *Server) handleListHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, _ := optionalNumber(req.GetArguments(), "limit")
	entries, err := s.session.History(int(limit))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		return textResult("No journaled history (journal disabled or empty)"), nil
	}
	return jsonResult(entries)
}
