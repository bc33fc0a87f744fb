// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz link-resolution tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/docservice"
)

// Server wraps the MCP server with Ansuz tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all Ansuz tools registered.
func New(svc *docservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("scan_text",
		mcp.WithDescription("Scan a Markdown text span and return decoration ranges "+
			"for every word that resolves to a known link target. Offsets are byte "+
			"offsets into the text."),
		mcp.WithString("path", mcp.Description("Path of the document the text belongs to (used for self-exclusion)")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Markdown text to scan")),
	), s.scanText)

	s.mcp.AddTool(mcp.NewTool("resolve_word",
		mcp.WithDescription("Resolve a single word against the link index. Returns the "+
			"matched target or reports that nothing matched."),
		mcp.WithString("path", mcp.Description("Path of the document the word is typed in (used for self-exclusion)")),
		mcp.WithString("word", mcp.Required(), mcp.Description("The word to resolve")),
	), s.resolveWord)

	s.mcp.AddTool(mcp.NewTool("materialize_link",
		mcp.WithDescription("Produce the [[wikilink]] replacement text for a word. "+
			"Read the ansuz://link-syntax resource first to understand the output forms."),
		mcp.WithString("path", mcp.Description("Path of the document being edited")),
		mcp.WithString("word", mcp.Required(), mcp.Description("The word to convert into a link")),
	), s.materializeLink)

	s.mcp.AddTool(mcp.NewTool("list_link_targets",
		mcp.WithDescription("List every name in the link index with the document it points to."),
	), s.listLinkTargets)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the full content of a Markdown document."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the document (e.g. folder/doc.md)")),
	), s.readDocument)

	// Resource: link syntax contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://link-syntax", "Link Syntax",
			mcp.WithResourceDescription("Wikilink syntax and resolution rules Ansuz follows."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLinkSyntaxResource,
	)

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

func optionalString(req mcp.CallToolRequest, key string) string {
	if v, err := req.RequireString(key); err == nil {
		return v
	}
	return ""
}

func (s *Server) scanText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := optionalString(req, "path")

	ranges := s.svc.Scan(ctx, path, text)
	if len(ranges) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	out, _ := json.MarshalIndent(ranges, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) resolveWord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := optionalString(req, "path")

	res := s.svc.Complete(ctx, path, word)
	if !res.Matched() {
		return mcp.NewToolResultText(fmt.Sprintf("no link target for %q", word)), nil
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) materializeLink(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	word, err := req.RequireString("word")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path := optionalString(req, "path")

	replacement, err := s.svc.MaterializeWord(ctx, path, word)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no link target for %q", word)), nil
	}
	return mcp.NewToolResultText(replacement), nil
}

func (s *Server) listLinkTargets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := s.svc.Targets(ctx)
	if len(entries) == 0 {
		return mcp.NewToolResultText("index is empty"), nil
	}
	out, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) readLinkSyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://link-syntax",
			MIMEType: "text/markdown",
			Text:     LinkSyntaxContract,
		},
	}, nil
}
