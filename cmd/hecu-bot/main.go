package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iamvkosarev/hecu-telegram-bot/config"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/app"
	"github.com/iamvkosarev/hecu-telegram-bot/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	envPath    string
)

func main() {
	root := &cobra.Command{
		Use:   "hecu-bot",
		Short: "HECU voice announcement bot for Telegram",
		Long:  "hecu-bot reads chat messages out loud with the HECU word clips, encodes text as binary and posts photos.",
		RunE:  runBot,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (env only when empty)")
	root.PersistentFlags().StringVar(&envPath, "env", ".env", "path to the .env file")

	root.AddCommand(runCmd())
	root.AddCommand(wordsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start polling Telegram",
		RunE:  runBot,
	}
}

func wordsCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "words",
		Short: "Print the vocabulary found in a words directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			words, err := app.LoadVocabulary(dir, logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), usecase.FormatWordList(words.Words()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "words", "words directory")
	return cmd
}

func runBot(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bot stopped", "err", err)
		return err
	}
	logger.Info("bot stopped")
	return nil
}
