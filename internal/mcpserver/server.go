// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes the Vibestack directory to LLM agents via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/princepal9120/vibestack/internal/directory"
	"github.com/princepal9120/vibestack/internal/store"
	"github.com/princepal9120/vibestack/internal/suggest"
)

// Server wraps the MCP server with directory tools.
type Server struct {
	mcp     *server.MCPServer
	dir     *directory.Service
	suggest *suggest.Service
}

// New creates a new MCP server with all directory tools registered.
func New(dir *directory.Service, sg *suggest.Service) *Server {
	s := &Server{dir: dir, suggest: sg}

	s.mcp = server.NewMCPServer(
		"Vibestack",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_directory",
		mcp.WithDescription("Fuzzy search across tools, platform profiles, collections, and resources."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text (1-100 characters)")),
	), s.searchDirectory)

	s.mcp.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List community projects with optional filters and sorting."),
		mcp.WithString("platform", mcp.Description("Filter by platform tag")),
		mcp.WithString("category", mcp.Description("Filter by category")),
		mcp.WithString("sort", mcp.Description("Sort key: newest, trending, or popular")),
	), s.listProjects)

	s.mcp.AddTool(mcp.NewTool("get_project",
		mcp.WithDescription("Read a single project by id, including vote and comment counts."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Project id")),
	), s.getProject)

	s.mcp.AddTool(mcp.NewTool("submit_resource",
		mcp.WithDescription("Submit a link for review. Duplicate URLs are rejected."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Resource title")),
		mcp.WithString("url", mcp.Required(), mcp.Description("Resource URL")),
		mcp.WithString("description", mcp.Description("Optional summary")),
	), s.submitResource)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchDirectory(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	resp, ok := s.suggest.Suggest(query, "20")
	if !ok {
		return mcp.NewToolResultError(resp.Error), nil
	}
	out, _ := json.MarshalIndent(resp.Suggestions, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	f := store.Filters{Page: 1, Limit: 20}
	if v, err := req.RequireString("platform"); err == nil {
		f.Platform = v
	}
	if v, err := req.RequireString("category"); err == nil {
		f.Category = v
	}
	if v, err := req.RequireString("sort"); err == nil {
		f.Sort = v
	}

	projects, _, err := s.dir.ListProjects(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(projects, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := s.dir.GetProject(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(p, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) submitResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	url, err := req.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	description := ""
	if v, err := req.RequireString("description"); err == nil {
		description = v
	}

	r, submitErr := s.dir.SubmitResource(ctx, nil, directory.ResourceInput{
		Title:       title,
		URL:         url,
		Description: description,
	})
	if submitErr != nil {
		return mcp.NewToolResultError(submitErr.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("submitted for review: %s", r.ID)), nil
}
