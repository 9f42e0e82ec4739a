// Package app wires configuration, the Genkit runtime, the vector store
// backend, and the retrieval pipeline into one runnable application.
package app

import (
	"errors"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"

	"github.com/vitrine-ai/vitrine/internal/agent"
	"github.com/vitrine-ai/vitrine/internal/config"
	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/rag"
	"github.com/vitrine-ai/vitrine/internal/tools"
	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

// App holds the initialized application components. Create with Setup and
// release with Close.
type App struct {
	Config      *config.Config
	Logger      log.Logger
	Genkit      *genkit.Genkit
	Embedder    ai.Embedder
	Embed       vectorstore.EmbedFunc
	Store       vectorstore.Store
	Collections *vectorstore.Collections
	Assembler   *rag.Assembler
	Generator   *rag.Generator
	Catalog     *tools.Catalog
	Tools       []ai.Tool

	dbCleanup func()
}

// NewAgent creates a fresh conversation bound to this app's model and tools.
func (a *App) NewAgent() *agent.Agent {
	return agent.New(a.Genkit, a.Config.FullModelName(), a.Config.Temperature, a.Tools, a.Logger)
}

// Close releases the store and, for the postgres backend, the pool.
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.dbCleanup != nil {
		a.dbCleanup()
	}

	return errors.Join(errs...)
}
