package tools

import (
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/rag"
)

// Tool names registered with Genkit.
const (
	SearchDocumentsName = "search_documents"
	RAGQueryName        = "rag_query"
)

// NoDocumentsFound is the user-facing reply when retrieval comes back empty.
const NoDocumentsFound = "Nenhum documento encontrado para esta consulta."

// QueryInput is the input for both catalog tools.
type QueryInput struct {
	Query string `json:"query" jsonschema_description:"The question or search query about catalog products"`
}

// Catalog holds the pipeline dependencies behind the catalog tools.
type Catalog struct {
	assembler *rag.Assembler
	generator *rag.Generator
	logger    log.Logger
}

// NewCatalog creates the catalog tool handlers.
func NewCatalog(assembler *rag.Assembler, generator *rag.Generator, logger log.Logger) (*Catalog, error) {
	if assembler == nil {
		return nil, fmt.Errorf("assembler is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Catalog{assembler: assembler, generator: generator, logger: logger}, nil
}

// Register defines both catalog tools on the Genkit instance and returns
// them for use with ai.WithTools.
func Register(g *genkit.Genkit, c *Catalog) ([]ai.Tool, error) {
	if g == nil {
		return nil, fmt.Errorf("genkit instance is required")
	}
	if c == nil {
		return nil, fmt.Errorf("catalog handlers are required")
	}

	return []ai.Tool{
		genkit.DefineTool(g, SearchDocumentsName,
			"Search the product catalog for documents similar to a query. "+
				"Call this when the user types 'docs' followed by a query. "+
				"Returns: numbered documents with similarity percentages and sources.",
			c.SearchDocuments),
		genkit.DefineTool(g, RAGQueryName,
			"Answer a question about catalog products using retrieval-augmented "+
				"generation. Retrieves the most relevant product documents and "+
				"generates a grounded answer citing them. "+
				"Returns: the answer followed by the documents used.",
			c.RAGQuery),
	}, nil
}

// SearchDocuments lists the documents closest to the query with their
// similarity scores, without generating an answer.
func (c *Catalog) SearchDocuments(ctx *ai.ToolContext, input QueryInput) (Result, error) {
	c.logger.Info("search_documents called", "query", input.Query)

	if input.Query == "" {
		return Result{
			Status: StatusError,
			Error:  &Error{Code: ErrCodeValidation, Message: "query is required"},
		}, nil
	}

	rc, err := c.assembler.Assemble(ctx, input.Query)
	if err != nil {
		c.logger.Warn("search_documents failed", "query", input.Query, "error", err)
		return Result{
			Status: StatusError,
			Error:  &Error{Code: ErrCodeExecution, Message: fmt.Sprintf("searching documents: %v", err)},
		}, nil
	}

	documents := rc.CitationBlock()
	if rc.Empty() {
		documents = NoDocumentsFound
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"query":        input.Query,
			"result_count": len(rc.Matches),
			"documents":    documents,
		},
	}, nil
}

// RAGQuery runs the full pipeline: retrieve, assemble, generate, cite.
// An empty retrieval still reaches the model; the prompt instructs it to
// admit not knowing rather than invent products.
func (c *Catalog) RAGQuery(ctx *ai.ToolContext, input QueryInput) (Result, error) {
	c.logger.Info("rag_query called", "query", input.Query)

	if input.Query == "" {
		return Result{
			Status: StatusError,
			Error:  &Error{Code: ErrCodeValidation, Message: "query is required"},
		}, nil
	}

	rc, err := c.assembler.Assemble(ctx, input.Query)
	if err != nil {
		c.logger.Warn("rag_query retrieval failed", "query", input.Query, "error", err)
		return Result{
			Status: StatusError,
			Error:  &Error{Code: ErrCodeExecution, Message: fmt.Sprintf("retrieving context: %v", err)},
		}, nil
	}

	answer, err := c.generator.Answer(ctx, input.Query, rc)
	if err != nil {
		c.logger.Warn("rag_query generation failed", "query", input.Query, "error", err)
		return Result{
			Status: StatusError,
			Error:  &Error{Code: ErrCodeExecution, Message: fmt.Sprintf("generating answer: %v", err)},
		}, nil
	}

	return Result{
		Status: StatusSuccess,
		Data: map[string]any{
			"query":        input.Query,
			"result_count": len(rc.Matches),
			"answer":       answer,
		},
	}, nil
}

// RenderText flattens a Result into the text a transport hands to callers.
// Errors surface as errors, not as payload strings.
func RenderText(r Result) (string, error) {
	if r.Status == StatusError {
		if r.Error != nil {
			return "", r.Error
		}
		return "", fmt.Errorf("tool failed without detail")
	}
	if s, ok := r.Data["answer"].(string); ok {
		return s, nil
	}
	if s, ok := r.Data["documents"].(string); ok {
		return s, nil
	}
	if r.Message != "" {
		return r.Message, nil
	}
	return "", fmt.Errorf("tool result carries no renderable text")
}
