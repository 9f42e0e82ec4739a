package rag

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/vitrine-ai/vitrine/internal/log"
)

// citationHeader separates the answer from the documents that produced it.
const citationHeader = "\n\nDocumentos usados para responder à pergunta:\n"

// Generator turns an assembled context and a question into a cited answer.
type Generator struct {
	g           *genkit.Genkit
	modelName   string
	temperature float32
	logger      log.Logger
}

// NewGenerator creates a generator bound to one model and temperature.
func NewGenerator(g *genkit.Genkit, modelName string, temperature float32, logger log.Logger) *Generator {
	return &Generator{
		g:           g,
		modelName:   modelName,
		temperature: temperature,
		logger:      logger,
	}
}

// Answer generates a grounded answer and appends the citation block.
// Provider errors propagate unwrapped in meaning; there is no retry here.
func (gen *Generator) Answer(ctx context.Context, question string, rc Context) (string, error) {
	resp, err := genkit.Generate(ctx, gen.g,
		ai.WithModelName(gen.modelName),
		ai.WithPrompt(answerPrompt(rc.Text, question)),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature: genai.Ptr(gen.temperature),
		}),
	)
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	gen.logger.Debug("answer generated",
		"model", gen.modelName,
		"documents", len(rc.Matches))

	return resp.Text() + citationHeader + rc.CitationBlock(), nil
}
