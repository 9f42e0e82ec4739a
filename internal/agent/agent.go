// Package agent implements the conversational store assistant. It keeps the
// conversation history, hands the catalog tools to the model, and speaks the
// persona of the "Elegância Moderna" store.
package agent

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"google.golang.org/genai"

	"github.com/vitrine-ai/vitrine/internal/log"
)

// systemPrompt defines the assistant persona and forces tool use: answers
// must come from the catalog, not from the model's own ideas about fashion.
const systemPrompt = `Você é uma assistente virtual especializada em moda feminina para a loja "Elegância Moderna".

Sua função é ajudar as clientes a encontrarem as peças perfeitas para seu estilo e necessidades.
Você tem conhecimento detalhado sobre todos os produtos disponíveis na loja, incluindo:
- Características técnicas dos produtos
- Disponibilidade de tamanhos e cores
- Preços e promoções
- Combinações recomendadas
- Dicas de cuidados com as peças

Você tem acesso às seguintes ferramentas para ajudar as clientes:

- rag_query: Use esta ferramenta para responder perguntas detalhadas sobre os produtos
- search_documents: Use esta ferramenta para buscar informações técnicas sobre os produtos

Sempre use as ferramentas disponíveis para responder a pergunta.
Sempre responda em português, de forma amigável e profissional. Ofereça recomendações personalizadas
quando possível e sugira combinações de peças. Se não tiver certeza sobre alguma informação,
use as ferramentas disponíveis para verificar antes de responder.`

// Console strings for the interactive session.
const (
	Welcome     = "Bem-vindo à Assistente Virtual da Elegância Moderna! Como posso ajudar você hoje? (digite 'sair' para encerrar)"
	Farewell    = "Obrigada por visitar a Elegância Moderna. Esperamos vê-la novamente em breve!"
	ExitCommand = "sair"
)

// Agent is a stateful conversation with the store assistant. Not safe for
// concurrent use; each session owns one Agent.
type Agent struct {
	g           *genkit.Genkit
	modelName   string
	temperature float32
	toolRefs    []ai.ToolRef
	history     []*ai.Message
	logger      log.Logger
}

// New creates an agent bound to a model and the registered catalog tools.
func New(g *genkit.Genkit, modelName string, temperature float32, catalogTools []ai.Tool, logger log.Logger) *Agent {
	refs := make([]ai.ToolRef, len(catalogTools))
	for i, t := range catalogTools {
		refs[i] = t
	}
	return &Agent{
		g:           g,
		modelName:   modelName,
		temperature: temperature,
		toolRefs:    refs,
		logger:      logger,
	}
}

// Send adds the user message to the conversation and returns the reply.
// Tool calls requested by the model run inside the generate loop.
func (a *Agent) Send(ctx context.Context, userInput string) (string, error) {
	a.history = append(a.history, ai.NewUserTextMessage(userInput))

	resp, err := genkit.Generate(ctx, a.g,
		ai.WithModelName(a.modelName),
		ai.WithSystem(systemPrompt),
		ai.WithMessages(a.history...),
		ai.WithTools(a.toolRefs...),
		ai.WithConfig(&genai.GenerateContentConfig{
			Temperature: genai.Ptr(a.temperature),
		}),
	)
	if err != nil {
		// Keep the user message out of history so a retry starts clean.
		a.history = a.history[:len(a.history)-1]
		return "", fmt.Errorf("generating reply: %w", err)
	}

	a.history = append(a.history, resp.Message)
	a.logger.Debug("agent replied", "history_len", len(a.history))

	return resp.Text(), nil
}

// HistoryLen reports the number of messages in the conversation.
func (a *Agent) HistoryLen() int { return len(a.history) }
