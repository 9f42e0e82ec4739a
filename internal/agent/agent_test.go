package agent

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"go.uber.org/goleak"

	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/rag"
	"github.com/vitrine-ai/vitrine/internal/testutil"
	"github.com/vitrine-ai/vitrine/internal/tools"
	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

type fakeSearcher struct {
	matches []vectorstore.Match
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, _ string, _ int) ([]vectorstore.Match, error) {
	return f.matches, nil
}

// newTestAgent builds an agent over a scripted model with the catalog tools
// registered against a fixed searcher.
func newTestAgent(t *testing.T, model *testutil.ScriptedModel, matches []vectorstore.Match) *Agent {
	t.Helper()

	g := genkit.Init(context.Background())
	model.Register(g)

	embed := func(_ context.Context, _ string) ([]float32, error) { return []float32{1, 0, 0}, nil }
	assembler := rag.NewAssembler(&fakeSearcher{matches: matches}, embed, "produtos", 5, log.NewNop())
	generator := rag.NewGenerator(g, testutil.ModelName, 1.0, log.NewNop())

	catalog, err := tools.NewCatalog(assembler, generator, log.NewNop())
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	registered, err := tools.Register(g, catalog)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	return New(g, testutil.ModelName, 1.0, registered, log.NewNop())
}

func TestAgent_Send(t *testing.T) {
	model := testutil.NewScriptedModel("não entendi")
	model.Respond("olá", "Olá! Como posso ajudar você hoje?")

	a := newTestAgent(t, model, nil)

	reply, err := a.Send(context.Background(), "olá")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(reply, "Como posso ajudar") {
		t.Errorf("reply = %q", reply)
	}
	// User message and model reply both recorded.
	if a.HistoryLen() != 2 {
		t.Errorf("HistoryLen() = %d, want 2", a.HistoryLen())
	}
}

func TestAgent_SendWithToolCall(t *testing.T) {
	model := testutil.NewScriptedModel("não entendi")
	model.RespondWithTools("vestido",
		[]*ai.ToolRequest{{
			Name:  tools.SearchDocumentsName,
			Input: map[string]any{"query": "vestido floral"},
		}},
		"Encontrei o Vestido Floral por R$120,00.")

	matches := []vectorstore.Match{{
		Document: vectorstore.Document{
			Content:  "Vestido Floral (Vestidos)\nPreço: R$120,00",
			Metadata: map[string]string{"source": "produtos.json"},
		},
		Similarity: 87.32,
	}}

	a := newTestAgent(t, model, matches)

	reply, err := a.Send(context.Background(), "tem vestido floral?")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if !strings.Contains(reply, "R$120,00") {
		t.Errorf("reply = %q", reply)
	}
	// Tool round plus final answer means the model ran at least twice.
	if calls := model.Prompts(); len(calls) < 2 {
		t.Errorf("model called %d times, want at least 2 (tool round trip)", len(calls))
	}
}

func TestAgent_SendKeepsHistoryAcrossTurns(t *testing.T) {
	model := testutil.NewScriptedModel("certo")

	a := newTestAgent(t, model, nil)
	ctx := context.Background()

	if _, err := a.Send(ctx, "primeira pergunta"); err != nil {
		t.Fatalf("first Send: %v", err)
	}
	if _, err := a.Send(ctx, "segunda pergunta"); err != nil {
		t.Fatalf("second Send: %v", err)
	}

	if a.HistoryLen() != 4 {
		t.Errorf("HistoryLen() = %d, want 4", a.HistoryLen())
	}
}

func TestAgent_Loop(t *testing.T) {
	defer goleak.VerifyNone(t)

	model := testutil.NewScriptedModel("não entendi")
	model.Respond("calça", "Temos a Calça Jeans por R$90,00.")

	a := newTestAgent(t, model, nil)

	in := strings.NewReader("tem calça jeans?\nsair\n")
	var out bytes.Buffer

	if err := a.Loop(context.Background(), in, &out); err != nil {
		t.Fatalf("Loop: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, Welcome) {
		t.Error("missing welcome message")
	}
	if !strings.Contains(output, "R$90,00") {
		t.Errorf("missing reply: %q", output)
	}
	if !strings.Contains(output, Farewell) {
		t.Error("missing farewell message")
	}
}

func TestAgent_LoopExitCaseInsensitive(t *testing.T) {
	a := newTestAgent(t, testutil.NewScriptedModel("ok"), nil)

	var out bytes.Buffer
	if err := a.Loop(context.Background(), strings.NewReader("SAIR\n"), &out); err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if !strings.Contains(out.String(), Farewell) {
		t.Error("missing farewell on uppercase exit")
	}
	if a.HistoryLen() != 0 {
		t.Errorf("exit command reached the model: history = %d", a.HistoryLen())
	}
}

func TestAgent_LoopSkipsBlankLines(t *testing.T) {
	model := testutil.NewScriptedModel("resposta")
	a := newTestAgent(t, model, nil)

	var out bytes.Buffer
	if err := a.Loop(context.Background(), strings.NewReader("\n   \nsair\n"), &out); err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if len(model.Prompts()) != 0 {
		t.Errorf("blank lines reached the model: %v", model.Prompts())
	}
}

func TestAgent_LoopEOF(t *testing.T) {
	a := newTestAgent(t, testutil.NewScriptedModel("ok"), nil)

	var out bytes.Buffer
	if err := a.Loop(context.Background(), strings.NewReader(""), &out); err != nil {
		t.Fatalf("Loop on EOF: %v", err)
	}
	if !strings.Contains(out.String(), Farewell) {
		t.Error("missing farewell on EOF")
	}
}
