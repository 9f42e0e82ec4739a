package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

// fakeSearcher serves canned matches and records the query it received.
type fakeSearcher struct {
	matches   []vectorstore.Match
	err       error
	lastQuery []float32
	lastColl  string
	lastK     int
}

func (f *fakeSearcher) Search(_ context.Context, query []float32, collection string, k int) ([]vectorstore.Match, error) {
	f.lastQuery = query
	f.lastColl = collection
	f.lastK = k
	return f.matches, f.err
}

func fixedEmbed(vec []float32) vectorstore.EmbedFunc {
	return func(_ context.Context, _ string) ([]float32, error) {
		return vec, nil
	}
}

func TestAssembler_Assemble(t *testing.T) {
	searcher := &fakeSearcher{matches: []vectorstore.Match{
		{
			Document: vectorstore.Document{
				ID:       "p1:0",
				Content:  "Vestido Floral (Vestidos)\nPreço: R$120,00",
				Metadata: map[string]string{"source": "produtos.json"},
			},
			Similarity: 87.32,
		},
		{
			Document: vectorstore.Document{
				ID:      "p2:0",
				Content: "Calça Jeans (Calças)\nPreço: R$90,00",
			},
			Similarity: 55,
		},
	}}

	a := NewAssembler(searcher, fixedEmbed([]float32{1, 0, 0}), "produtos", 5, log.NewNop())
	rc, err := a.Assemble(context.Background(), "tem vestido floral?")
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	if searcher.lastColl != "produtos" || searcher.lastK != 5 {
		t.Errorf("search called with collection=%q k=%d", searcher.lastColl, searcher.lastK)
	}
	if len(searcher.lastQuery) != 3 {
		t.Errorf("query vector not forwarded: %v", searcher.lastQuery)
	}

	wantText := "Vestido Floral (Vestidos)\nPreço: R$120,00\n\nCalça Jeans (Calças)\nPreço: R$90,00"
	if rc.Text != wantText {
		t.Errorf("Text = %q, want %q", rc.Text, wantText)
	}

	if len(rc.Citations) != 2 {
		t.Fatalf("len(Citations) = %d, want 2", len(rc.Citations))
	}
	if !strings.HasPrefix(rc.Citations[0], "Documento 1 (Similaridade: 87.32%, Fonte: produtos.json):") {
		t.Errorf("first citation = %q", rc.Citations[0])
	}
	if !strings.HasPrefix(rc.Citations[1], "Documento 2 (Similaridade: 55.00%, Fonte: Desconhecido):") {
		t.Errorf("second citation = %q", rc.Citations[1])
	}
	if !strings.Contains(rc.Citations[0], "Vestido Floral") {
		t.Errorf("citation lost its content: %q", rc.Citations[0])
	}
	if rc.Empty() {
		t.Error("Empty() = true with two matches")
	}
}

func TestAssembler_AssembleNoMatches(t *testing.T) {
	a := NewAssembler(&fakeSearcher{}, fixedEmbed([]float32{1}), "produtos", 5, log.NewNop())

	rc, err := a.Assemble(context.Background(), "algo inexistente")
	if err != nil {
		t.Fatalf("Assemble with no matches: %v", err)
	}
	if !rc.Empty() {
		t.Error("Empty() = false with no matches")
	}
	if rc.Text != "" || len(rc.Citations) != 0 {
		t.Errorf("expected empty context, got Text=%q Citations=%v", rc.Text, rc.Citations)
	}
}

func TestAssembler_AssembleErrors(t *testing.T) {
	t.Run("embed failure", func(t *testing.T) {
		embedErr := errors.New("quota exceeded")
		embed := func(_ context.Context, _ string) ([]float32, error) { return nil, embedErr }

		a := NewAssembler(&fakeSearcher{}, embed, "produtos", 5, log.NewNop())
		if _, err := a.Assemble(context.Background(), "pergunta"); !errors.Is(err, embedErr) {
			t.Errorf("err = %v, want wrapped embed error", err)
		}
	})

	t.Run("search failure", func(t *testing.T) {
		searcher := &fakeSearcher{err: vectorstore.ErrBackendUnavailable}
		a := NewAssembler(searcher, fixedEmbed([]float32{1}), "produtos", 5, log.NewNop())

		if _, err := a.Assemble(context.Background(), "pergunta"); !errors.Is(err, vectorstore.ErrBackendUnavailable) {
			t.Errorf("err = %v, want ErrBackendUnavailable", err)
		}
	})
}

func TestContext_CitationBlock(t *testing.T) {
	rc := Context{Citations: []string{"Documento 1 ...\nconteúdo\n", "Documento 2 ...\nconteúdo\n"}}
	got := rc.CitationBlock()
	if !strings.Contains(got, "Documento 1") || !strings.Contains(got, "Documento 2") {
		t.Errorf("CitationBlock() = %q", got)
	}
}
