// Package cmd implements the vitrine command line interface.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitrine-ai/vitrine/internal/config"
	"github.com/vitrine-ai/vitrine/internal/log"
	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

var rootCmd = &cobra.Command{
	Use:   "vitrine",
	Short: "Assistente de catálogo da loja Elegância Moderna",
	Long: `Vitrine é a assistente virtual do catálogo de produtos da loja
Elegância Moderna. Ela responde perguntas sobre produtos usando busca
vetorial sobre o catálogo indexado.

Executar vitrine sem argumentos inicia a conversa interativa.`,
	RunE: runChat,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the CLI logger. VITRINE_DEBUG enables debug output.
func newLogger() log.Logger {
	level := slog.LevelInfo
	if os.Getenv("VITRINE_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return log.New(log.Config{Level: level})
}

// loadConfig loads and validates the configuration. The missing-API-key
// case gets a setup hint on stderr since it is the first thing every new
// operator runs into.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if errors.Is(err, config.ErrMissingAPIKey) {
		fmt.Fprintln(os.Stderr, "Erro: variável de ambiente GEMINI_API_KEY não definida")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Execute:")
		fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=sua-chave")
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// setupHint augments the missing-index error with the command that fixes it.
func setupHint(err error) error {
	if vectorstore.IsNotFound(err) {
		return fmt.Errorf("%w\n\nNenhum índice local encontrado. Execute 'vitrine index --file produtos.json' primeiro", err)
	}
	return err
}
