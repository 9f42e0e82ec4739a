package catalog

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"
)

// Default chunking parameters. One collection per chunking strategy keeps
// experiments separable; these defaults match the main collection.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Chunker splits product text into overlapping chunks for embedding.
// It wraps langchaingo's recursive character splitter.
type Chunker struct {
	splitter textsplitter.RecursiveCharacter
}

// NewChunker creates a chunker with the given size and overlap in
// characters. Non-positive values fall back to the defaults.
func NewChunker(size, overlap int) Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
		if overlap >= size {
			overlap = size / 5
		}
	}

	return Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// Split breaks text into chunks. Empty input yields no chunks.
func (c Chunker) Split(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}

	chunks, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("splitting text: %w", err)
	}
	return chunks, nil
}
