// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Raido tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/raido/internal/docservice"
	"github.com/starford/raido/internal/routes"
)

// Server wraps the MCP server with Raido tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
	reg *routes.Registry
}

// New creates a new MCP server with all Raido tools registered.
func New(svc *docservice.Service, reg *routes.Registry) *Server {
	s := &Server{svc: svc, reg: reg}

	s.mcp = server.NewMCPServer(
		"Raido",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_routes",
		mcp.WithDescription("List the configured routes and their field schemas."),
	), s.listRoutes)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List the documents of a route, including a per-document validity flag."),
		mcp.WithString("route", mcp.Required(), mcp.Description("Route name (e.g. blog)")),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read the raw source text of a document."),
		mcp.WithString("route", mcp.Required(), mcp.Description("Route name the document belongs to")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name within the route (e.g. my-post)")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("Read a document through the processing pipeline: typed metadata plus the parsed block nodes."),
		mcp.WithString("route", mcp.Required(), mcp.Description("Route name the document belongs to")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name within the route")),
	), s.getDocument)

	s.mcp.AddTool(mcp.NewTool("render_document",
		mcp.WithDescription("Render a document's body as an HTML fragment."),
		mcp.WithString("route", mcp.Required(), mcp.Description("Route name the document belongs to")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name within the route")),
	), s.renderDocument)

	s.mcp.AddTool(mcp.NewTool("validate_document",
		mcp.WithDescription("Run document text through a route's pipeline without writing anything. "+
			"Returns every validation failure, not just the first."),
		mcp.WithString("route", mcp.Required(), mcp.Description("Route whose schema to validate against")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full document text including front matter")),
	), s.validateDocument)

	s.mcp.AddTool(mcp.NewTool("create_document",
		mcp.WithDescription("Create a new document under a route. "+
			"Content MUST follow the canonical document format (front matter fenced by --- lines, "+
			"fields matching the route schema exactly, line-oriented Markdown body). Read the "+
			"contract first via the get_document_contract tool or the raido://document-format "+
			"resource. Invalid documents are rejected and never written."),
		mcp.WithString("route", mcp.Required(), mcp.Description("Route name to create the document under")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Document name (without .md)")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Document text following the Raido format contract")),
	), s.createDocument)

	s.mcp.AddTool(mcp.NewTool("get_document_contract",
		mcp.WithDescription("Returns the canonical Raido document format contract. "+
			"Call this before creating or updating documents to ensure correct structure."),
	), s.getDocumentContract)

	// Resource: document format contract.
	s.mcp.AddResource(
		mcp.NewResource("raido://document-format", "Document Format Contract",
			mcp.WithResourceDescription("Canonical document format that all content must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDocumentFormatResource,
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

func (s *Server) listRoutes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, _ := json.MarshalIndent(s.reg.All(), "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route, err := req.RequireString("route")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, err := s.svc.List(ctx, route)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route, name, err := routeAndName(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.Get(ctx, route, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s/%s: %v", route, name, err)), nil
	}
	return mcp.NewToolResultText(detail.Content), nil
}

func (s *Server) getDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route, name, err := routeAndName(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.Get(ctx, route, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s/%s: %v", route, name, err)), nil
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) renderDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route, name, err := routeAndName(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	html, err := s.svc.Render(ctx, route, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(html), nil
}

func (s *Server) validateDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route, err := req.RequireString("route")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Check(ctx, route, []byte(content)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("valid"), nil
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	route, name, err := routeAndName(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.Create(ctx, route, name, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", detail.Path)), nil
}

func (s *Server) getDocumentContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DocumentFormatContract), nil
}

func (s *Server) readDocumentFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "raido://document-format",
			MIMEType: "text/markdown",
			Text:     DocumentFormatContract,
		},
	}, nil
}

func routeAndName(req mcp.CallToolRequest) (string, string, error) {
	route, err := req.RequireString("route")
	if err != nil {
		return "", "", err
	}
	name, err := req.RequireString("name")
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(name) == "" {
		return "", "", fmt.Errorf("name must not be empty")
	}
	return route, name, nil
}
