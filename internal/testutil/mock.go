// Package testutil provides deterministic Genkit model and embedder fakes
// for pipeline and agent tests. Nothing here talks to a provider.
package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// ModelName is the reference name of the scripted model.
const ModelName = "mock/model"

// EmbedderName is the reference name of the scripted embedder.
const EmbedderName = "mock/embedder"

// ScriptedModel is a Genkit model that answers from a fixed script. Rules
// match case-insensitive substrings of the last user message, first match
// wins; unmatched messages get the fallback. Safe for concurrent use.
type ScriptedModel struct {
	mu       sync.Mutex
	rules    []modelRule
	fallback string
	prompts  []string
}

type modelRule struct {
	pattern  string
	response string
	tools    []*ai.ToolRequest
}

// NewScriptedModel creates a scripted model with the given fallback answer.
func NewScriptedModel(fallback string) *ScriptedModel {
	return &ScriptedModel{fallback: fallback}
}

// Respond registers a substring pattern and the answer it triggers.
func (m *ScriptedModel) Respond(pattern, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, modelRule{pattern: strings.ToLower(pattern), response: response})
}

// RespondWithTools registers a pattern that first requests tool calls and
// then answers with the given text once the tool results come back.
func (m *ScriptedModel) RespondWithTools(pattern string, tools []*ai.ToolRequest, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, modelRule{pattern: strings.ToLower(pattern), response: response, tools: tools})
}

// Prompts returns the user-visible prompt of every call, in order.
func (m *ScriptedModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]string, len(m.prompts))
	copy(cp, m.prompts)
	return cp
}

// Register defines the model on the given Genkit instance.
func (m *ScriptedModel) Register(g *genkit.Genkit) ai.Model {
	return genkit.DefineModel(g, ModelName, &ai.ModelOptions{
		Label: "Scripted model",
		Supports: &ai.ModelSupports{
			Multiturn:  true,
			Tools:      true,
			SystemRole: true,
		},
	}, m.generate)
}

func (m *ScriptedModel) generate(ctx context.Context, req *ai.ModelRequest, cb ai.ModelStreamCallback) (*ai.ModelResponse, error) {
	var userText string
	var sawToolResult bool
	for i := len(req.Messages) - 1; i >= 0; i-- {
		msg := req.Messages[i]
		if msg.Role == ai.RoleUser && userText == "" {
			userText = msg.Text()
		}
		if msg.Role == ai.RoleTool {
			sawToolResult = true
		}
	}

	m.mu.Lock()
	m.prompts = append(m.prompts, userText)
	lower := strings.ToLower(userText)
	var matched *modelRule
	for i := range m.rules {
		if strings.Contains(lower, m.rules[i].pattern) {
			matched = &m.rules[i]
			break
		}
	}
	m.mu.Unlock()

	text := m.fallback
	if matched != nil {
		text = matched.response
	}

	var parts []*ai.Part
	// Request tools only on the first round; after tool results arrive,
	// answer with text so the generate loop terminates.
	if matched != nil && len(matched.tools) > 0 && !sawToolResult {
		for _, tr := range matched.tools {
			parts = append(parts, &ai.Part{Kind: ai.PartToolRequest, ToolRequest: tr})
		}
	} else {
		if cb != nil {
			_ = cb(ctx, &ai.ModelResponseChunk{Content: []*ai.Part{ai.NewTextPart(text)}})
		}
		parts = append(parts, ai.NewTextPart(text))
	}

	return &ai.ModelResponse{
		Request: req,
		Message: &ai.Message{Role: ai.RoleModel, Content: parts},
	}, nil
}

// ScriptedEmbedder is a Genkit embedder returning pre-set vectors per text.
// Texts without a vector get the zero-ish default axis, which keeps them
// orthogonal to anything the test cares about.
type ScriptedEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dim     int
}

// NewScriptedEmbedder creates an embedder producing vectors of dim entries.
func NewScriptedEmbedder(dim int) *ScriptedEmbedder {
	return &ScriptedEmbedder{vectors: make(map[string][]float32), dim: dim}
}

// SetVector fixes the vector returned for an exact text.
func (e *ScriptedEmbedder) SetVector(text string, vec []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vectors[text] = vec
}

// Register defines the embedder on the given Genkit instance.
func (e *ScriptedEmbedder) Register(g *genkit.Genkit) ai.Embedder {
	return genkit.DefineEmbedder(g, EmbedderName, &ai.EmbedderOptions{
		Label:      "Scripted embedder",
		Dimensions: e.dim,
	}, e.embed)
}

func (e *ScriptedEmbedder) embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	embeddings := make([]*ai.Embedding, len(req.Input))
	for i, doc := range req.Input {
		var text strings.Builder
		for _, p := range doc.Content {
			if p.Kind == ai.PartText {
				text.WriteString(p.Text)
			}
		}
		vec, ok := e.vectors[text.String()]
		if !ok {
			vec = make([]float32, e.dim)
			if e.dim > 0 {
				vec[e.dim-1] = 1
			}
		}
		embeddings[i] = &ai.Embedding{Embedding: vec}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}
