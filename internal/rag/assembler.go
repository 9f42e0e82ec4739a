package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

// UnknownSource replaces a missing source in citations.
const UnknownSource = "Desconhecido"

// Searcher is the slice of the vector store the assembler depends on.
type Searcher interface {
	Search(ctx context.Context, query []float32, collection string, k int) ([]vectorstore.Match, error)
}

// Context is the retrieval result for one question. Text carries the raw
// chunk contents for the prompt; Citations carry the per-document entries
// shown to the user, in store order.
type Context struct {
	Text      string
	Citations []string
	Matches   []vectorstore.Match
}

// Empty reports whether retrieval found nothing.
func (c Context) Empty() bool { return len(c.Matches) == 0 }

// CitationBlock renders the citation entries as one displayable block.
func (c Context) CitationBlock() string { return strings.Join(c.Citations, "\n") }

// Assembler embeds questions and turns store matches into grounded context.
type Assembler struct {
	store      Searcher
	embed      vectorstore.EmbedFunc
	collection string
	topK       int
	logger     log.Logger
}

// NewAssembler wires an assembler to one collection of a store.
func NewAssembler(store Searcher, embed vectorstore.EmbedFunc, collection string, topK int, logger log.Logger) *Assembler {
	return &Assembler{
		store:      store,
		embed:      embed,
		collection: collection,
		topK:       topK,
		logger:     logger,
	}
}

// Assemble retrieves the chunks closest to the question. Zero matches is a
// valid outcome, not an error; callers decide how to surface it. Matches
// keep the store's order.
func (a *Assembler) Assemble(ctx context.Context, question string) (Context, error) {
	vec, err := a.embed(ctx, question)
	if err != nil {
		return Context{}, fmt.Errorf("embedding question: %w", err)
	}

	matches, err := a.store.Search(ctx, vec, a.collection, a.topK)
	if err != nil {
		return Context{}, fmt.Errorf("searching collection %q: %w", a.collection, err)
	}

	a.logger.Debug("context assembled",
		"collection", a.collection,
		"matches", len(matches))

	texts := make([]string, len(matches))
	citations := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Document.Content
		citations[i] = formatCitation(i+1, m)
	}

	return Context{
		Text:      strings.Join(texts, "\n\n"),
		Citations: citations,
		Matches:   matches,
	}, nil
}

// formatCitation renders one match as a numbered citation entry. Ranks are
// 1-based, similarity is the canonical percent, and a document without a
// source is labeled rather than dropped.
func formatCitation(rank int, m vectorstore.Match) string {
	source := m.Document.Metadata["source"]
	if source == "" {
		source = UnknownSource
	}
	return fmt.Sprintf("Documento %d (Similaridade: %s, Fonte: %s):\n%s\n",
		rank, vectorstore.FormatPercent(m.Similarity), source, m.Document.Content)
}
