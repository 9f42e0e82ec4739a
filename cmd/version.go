package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vitrine-ai/vitrine/internal/config"
)

// Version is injected at build time via ldflags.
var Version = "development"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Mostra a versão e a configuração ativa",
	RunE:  runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "vitrine %s\n", Version)

	cfg, err := config.Load()
	if err != nil {
		// Version must work even with a broken config.
		fmt.Fprintf(out, "Configuração indisponível: %v\n", err)
		return nil
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuração:")
	fmt.Fprintf(out, "  Modelo: %s\n", cfg.FullModelName())
	fmt.Fprintf(out, "  Embedder: %s\n", cfg.EmbedderModel)
	fmt.Fprintf(out, "  Temperatura: %.2f\n", cfg.Temperature)
	fmt.Fprintf(out, "  Backend: %s\n", cfg.Backend)
	fmt.Fprintf(out, "  Top-K: %d\n", cfg.TopK)
	return nil
}
