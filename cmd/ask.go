package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/firebase/genkit/go/ai"
	"github.com/spf13/cobra"

	"github.com/vitrine-ai/vitrine/internal/app"
	"github.com/vitrine-ai/vitrine/internal/tools"
)

var askDocsOnly bool

var askCmd = &cobra.Command{
	Use:   "ask [pergunta]",
	Short: "Pergunta única sobre o catálogo, sem conversa",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askDocsOnly, "docs", false,
		"apenas lista os documentos similares, sem gerar resposta")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger()
	a, err := app.Setup(ctx, cfg, logger, app.Options{})
	if err != nil {
		return setupHint(err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	question := strings.Join(args, " ")
	input := tools.QueryInput{Query: question}
	toolCtx := &ai.ToolContext{Context: ctx}

	var result tools.Result
	if askDocsOnly {
		result, err = a.Catalog.SearchDocuments(toolCtx, input)
	} else {
		result, err = a.Catalog.RAGQuery(toolCtx, input)
	}
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	text, err := tools.RenderText(result)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
