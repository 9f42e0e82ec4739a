package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vitrine-ai/vitrine/db"
	"github.com/vitrine-ai/vitrine/internal/app"
	"github.com/vitrine-ai/vitrine/internal/catalog"
	"github.com/vitrine-ai/vitrine/internal/config"
)

var (
	indexFile    string
	indexPurpose string
	chunkSize    int
	chunkOverlap int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Indexa um catálogo de produtos no vector store",
	Long: `Lê um arquivo JSON de produtos, divide cada produto em chunks,
gera embeddings e grava tudo na coleção configurada.

No backend local o índice é criado em index_path; no backend postgres
as migrações são aplicadas antes da ingestão.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexFile, "file", "", "arquivo JSON do catálogo (obrigatório)")
	indexCmd.Flags().StringVar(&indexPurpose, "purpose", "", "propósito da coleção de destino (padrão: default_collection)")
	indexCmd.Flags().IntVar(&chunkSize, "chunk-size", catalog.DefaultChunkSize, "tamanho do chunk em caracteres")
	indexCmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", catalog.DefaultChunkOverlap, "sobreposição entre chunks em caracteres")
	_ = indexCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()

	if cfg.Backend == config.BackendPostgres {
		if err := db.Migrate(cfg.DatabaseURL, logger); err != nil {
			return fmt.Errorf("preparing schema: %w", err)
		}
	}

	a, err := app.Setup(ctx, cfg, logger, app.Options{CreateIndex: true})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	products, err := catalog.Load(indexFile)
	if err != nil {
		return err
	}

	docs, err := catalog.Documents(products, indexFile, catalog.NewChunker(chunkSize, chunkOverlap))
	if err != nil {
		return err
	}

	collection, err := a.Collections.Resolve(indexPurpose)
	if err != nil {
		return err
	}

	if err := a.Store.Add(ctx, collection, docs); err != nil {
		return fmt.Errorf("indexing documents: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Indexados %d documentos de %d produtos na coleção %q\n",
		len(docs), len(products), collection)
	return nil
}
