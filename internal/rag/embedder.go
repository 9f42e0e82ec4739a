// Package rag implements the retrieval pipeline: embed a question, fetch
// the closest catalog chunks, assemble them into a grounded context, and
// generate an answer that cites its sources.
package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/ai"

	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

// EmbedderFunc adapts a Genkit embedder to the vector store's EmbedFunc.
// Both store backends and the assembler consume it.
func EmbedderFunc(embedder ai.Embedder) vectorstore.EmbedFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		resp, err := embedder.Embed(ctx, &ai.EmbedRequest{
			Input: []*ai.Document{ai.DocumentFromText(text, nil)},
		})
		if err != nil {
			return nil, fmt.Errorf("embedding text: %w", err)
		}
		if len(resp.Embeddings) == 0 {
			return nil, errors.New("embedder returned no vectors")
		}
		return resp.Embeddings[0].Embedding, nil
	}
}
