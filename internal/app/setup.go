package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"

	"github.com/vitrine-ai/vitrine/internal/config"
	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/rag"
	"github.com/vitrine-ai/vitrine/internal/tools"
	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

// Options adjusts Setup for specific commands.
type Options struct {
	// CreateIndex makes the local backend create the index directory
	// instead of requiring an existing one. Used by `vitrine index`.
	CreateIndex bool
}

// Setup initializes the application from a validated config.
// On error, everything already initialized is released.
func Setup(ctx context.Context, cfg *config.Config, logger log.Logger, opts Options) (_ *App, retErr error) {
	if cfg == nil {
		return nil, config.ErrConfigNil
	}

	a := &App{Config: cfg, Logger: logger}
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: cfg.GeminiAPIKey}))
	if g == nil {
		return nil, errors.New("initializing genkit with gemini provider")
	}
	a.Genkit = g

	embedder := googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}
	a.Embedder = embedder
	a.Embed = rag.EmbedderFunc(embedder)

	collections, err := vectorstore.NewCollections(cfg.Collections, cfg.DefaultCollection)
	if err != nil {
		return nil, fmt.Errorf("resolving collections: %w", err)
	}
	a.Collections = collections

	store, dbCleanup, err := provideStore(ctx, cfg, a.Embed, logger, opts)
	if err != nil {
		return nil, err
	}
	a.Store = store
	a.dbCleanup = dbCleanup

	a.Assembler = rag.NewAssembler(store, a.Embed, collections.Default(), cfg.TopK, logger)
	a.Generator = rag.NewGenerator(g, cfg.FullModelName(), cfg.Temperature, logger)

	catalog, err := tools.NewCatalog(a.Assembler, a.Generator, logger)
	if err != nil {
		return nil, fmt.Errorf("creating catalog handlers: %w", err)
	}
	a.Catalog = catalog

	registered, err := tools.Register(g, catalog)
	if err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}
	a.Tools = registered

	logger.Info("application ready",
		"backend", cfg.Backend,
		"model", cfg.FullModelName(),
		"collection", collections.Default())

	return a, nil
}

// provideStore opens the configured vector store backend.
func provideStore(ctx context.Context, cfg *config.Config, embed vectorstore.EmbedFunc, logger log.Logger, opts Options) (vectorstore.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendLocal:
		var store *vectorstore.Local
		var err error
		if opts.CreateIndex {
			store, err = vectorstore.CreateLocal(cfg.IndexPath, embed, logger)
		} else {
			store, err = vectorstore.OpenLocal(cfg.IndexPath, embed, logger)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("opening local index: %w", err)
		}
		return store, nil, nil

	case config.BackendPostgres:
		pool, err := vectorstore.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		store, err := vectorstore.NewPG(pool, cfg.TableName, embed, logger)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("creating postgres store: %w", err)
		}
		return store, pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrInvalidBackend, cfg.Backend)
	}
}
