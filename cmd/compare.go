package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vitrine-ai/vitrine/internal/app"
	"github.com/vitrine-ai/vitrine/internal/vectorstore"
)

var compareCmd = &cobra.Command{
	Use:   "compare [consulta]",
	Short: "Compara resultados de busca entre as coleções configuradas",
	Long: `Executa a mesma consulta em todas as coleções configuradas e mostra
as similaridades lado a lado. No backend postgres também reporta a
similaridade derivada da distância L2, para conferir a normalização.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
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

	query := strings.Join(args, " ")
	vec, err := a.Embed(ctx, query)
	if err != nil {
		return fmt.Errorf("embedding query: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Consulta: %s\n", query)

	for _, collection := range a.Collections.Names() {
		matches, err := a.Store.Search(ctx, vec, collection, cfg.TopK)
		if err != nil {
			return fmt.Errorf("searching collection %q: %w", collection, err)
		}
		printMatches(out, "Coleção "+collection, matches)
	}

	// The managed backend can also rank by L2 distance; showing both
	// confirms the two score paths agree on ordering.
	if pg, ok := a.Store.(*vectorstore.PG); ok {
		matches, err := pg.SearchByDistance(ctx, vec, a.Collections.Default(), cfg.TopK)
		if err != nil {
			return fmt.Errorf("searching by distance: %w", err)
		}
		printMatches(out, "Coleção "+a.Collections.Default()+" (via distância L2)", matches)
	}

	return nil
}

// printMatches renders one collection's results, first content line only.
func printMatches(w io.Writer, header string, matches []vectorstore.Match) {
	fmt.Fprintf(w, "\n%s (%d resultados)\n", header, len(matches))
	for i, m := range matches {
		title, _, _ := strings.Cut(m.Document.Content, "\n")
		fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, vectorstore.FormatPercent(m.Similarity), title)
	}
}
