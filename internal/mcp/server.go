// Package mcp exposes the catalog tools over the Model Context Protocol so
// external orchestrators can drive retrieval without the built-in agent.
// The server speaks the stdio transport by default.
package mcp

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/tools"
)

// Server wraps the MCP SDK server around the catalog tool handlers.
type Server struct {
	mcpServer *mcp.Server
	catalog   *tools.Catalog
	logger    log.Logger
}

// Config holds the MCP server identity and dependencies.
type Config struct {
	Name    string
	Version string
	Catalog *tools.Catalog
	Logger  log.Logger
}

// NewServer creates an MCP server with both catalog tools registered.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("server name is required")
	}
	if cfg.Version == "" {
		return nil, fmt.Errorf("server version is required")
	}
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("catalog handlers are required")
	}
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		}, nil),
		catalog: cfg.Catalog,
		logger:  cfg.Logger,
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	return s, nil
}

// Run serves MCP on the given transport until the context ends.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	s.logger.Info("mcp server starting")
	return s.mcpServer.Run(ctx, transport)
}

func (s *Server) registerTools() error {
	querySchema, err := jsonschema.For[tools.QueryInput](nil)
	if err != nil {
		return fmt.Errorf("schema for catalog tools: %w", err)
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.SearchDocumentsName,
		Description: "Search the product catalog for documents similar to a query. " +
			"Returns numbered documents with similarity percentages and sources.",
		InputSchema: querySchema,
	}, s.searchDocuments)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: tools.RAGQueryName,
		Description: "Answer a question about catalog products using " +
			"retrieval-augmented generation. Returns the answer followed by " +
			"the documents used.",
		InputSchema: querySchema,
	}, s.ragQuery)

	return nil
}

func (s *Server) searchDocuments(ctx context.Context, _ *mcp.CallToolRequest, input tools.QueryInput) (*mcp.CallToolResult, any, error) {
	result, err := s.catalog.SearchDocuments(&ai.ToolContext{Context: ctx}, input)
	if err != nil {
		return nil, nil, fmt.Errorf("search_documents failed: %w", err)
	}
	return resultToMCP(result), nil, nil
}

func (s *Server) ragQuery(ctx context.Context, _ *mcp.CallToolRequest, input tools.QueryInput) (*mcp.CallToolResult, any, error) {
	result, err := s.catalog.RAGQuery(&ai.ToolContext{Context: ctx}, input)
	if err != nil {
		return nil, nil, fmt.Errorf("rag_query failed: %w", err)
	}
	return resultToMCP(result), nil, nil
}

// resultToMCP renders a tool Result as an MCP call result. Business
// failures become IsError results so clients see them as tool errors,
// not protocol errors.
func resultToMCP(result tools.Result) *mcp.CallToolResult {
	text, err := tools.RenderText(result)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: err.Error()}},
			IsError: true,
		}
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
