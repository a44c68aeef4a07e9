// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes file lookups to LLM clients via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/sikabut/internal/apperr"
	"github.com/starford/sikabut/internal/checklist"
	"github.com/starford/sikabut/internal/models"
	"github.com/starford/sikabut/internal/portal"
)

const faqURI = "sikabut://faq"

// Server wraps the MCP server with the lookup tools.
type Server struct {
	mcp     *server.MCPServer
	fetcher portal.Fetcher
	brand   portal.Branding
	logger  *slog.Logger
}

// New creates a new MCP server with all tools registered.
func New(fetcher portal.Fetcher, brand portal.Branding, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{fetcher: fetcher, brand: brand.WithDefaults(), logger: logger}

	s.mcp = server.NewMCPServer(
		"SiKABut",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("lookup_file",
		mcp.WithDescription("Look up the processing status of a land-registry file by its number. "+
			"Returns the record and its missing-documents checklist, or found=false."),
		mcp.WithString("file_number", mcp.Required(), mcp.Description("File (application) number, e.g. 12345/2024")),
	), s.lookupFile)

	s.mcp.AddTool(mcp.NewTool("check_completeness",
		mcp.WithDescription("Normalize a missing-documents value (comma, semicolon or newline separated) "+
			"and report whether the file is complete."),
		mcp.WithString("missing_documents", mcp.Required(), mcp.Description("Raw missing-documents text")),
	), s.checkCompleteness)

	s.mcp.AddTool(mcp.NewTool("get_faq",
		mcp.WithDescription("Returns the lookup FAQ as Markdown."),
	), s.getFAQ)

	s.mcp.AddResource(
		mcp.NewResource(faqURI, "Lookup FAQ",
			mcp.WithResourceDescription("Frequently asked questions about file lookups."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readFAQResource,
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

type lookupResult struct {
	Found        bool                   `json:"found"`
	FileNumber   string                 `json:"file_number"`
	Record       *models.FileRecord     `json:"record,omitempty"`
	Completeness *checklist.Completeness `json:"completeness,omitempty"`
	Layout       string                 `json:"layout,omitempty"`
}

func (s *Server) lookupFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fileNumber, err := req.RequireString("file_number")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	fileNumber = strings.TrimSpace(fileNumber)
	if fileNumber == "" {
		return mcp.NewToolResultError("file_number is required"), nil
	}

	records, err := s.fetcher.Lookup(ctx, fileNumber)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			return mcp.NewToolResultError("file_number is required"), nil
		}
		s.logger.Error("lookup_file failed", slog.String("file_number", fileNumber), slog.String("error", err.Error()))
		return mcp.NewToolResultError("failed to fetch data from upstream"), nil
	}

	res := lookupResult{FileNumber: fileNumber}
	if len(records) > 0 {
		rec := records[0]
		c := rec.Completeness()
		res.Found = true
		res.Record = &rec
		res.Completeness = &c
		res.Layout = c.Layout().String()
	}
	out, _ := json.MarshalIndent(res, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

type completenessResult struct {
	checklist.Completeness
	Layout string `json:"layout"`
}

func (s *Server) checkCompleteness(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("missing_documents")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	c := checklist.Derive(raw)
	out, _ := json.MarshalIndent(completenessResult{Completeness: c, Layout: c.Layout().String()}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getFAQ(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.brand.FAQ), nil
}

func (s *Server) readFAQResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      faqURI,
			MIMEType: "text/markdown",
			Text:     s.brand.FAQ,
		},
	}, nil
}
