package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vitrine-ai/vitrine/internal/app"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Conversa interativa com a assistente",
	RunE:  runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
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

	return a.NewAgent().Loop(ctx, os.Stdin, cmd.OutOrStdout())
}
