package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mcdev12/warroom/go/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	jsonLogs   bool
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: could not load .env file: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "warroom",
		Short:         "Draft war room engine",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("WARROOM_CONFIG"), "YAML file overriding the built-in engine settings")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&opts.jsonLogs, "json-logs", false, "emit JSON logs instead of console output")

	root.AddCommand(
		newServeCmd(opts),
		newDraftCmd(opts),
		newPicksCmd(opts),
		newAutoPickCmd(opts),
		newTradeCmd(opts),
		newStrategyCmd(opts),
		newEvaluateCmd(opts),
	)
	return root
}

func setupLogging(opts *rootOptions) error {
	level, err := zerolog.ParseLevel(opts.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", opts.logLevel, err)
	}
	zerolog.SetGlobalLevel(level)
	if !opts.jsonLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return nil
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.configPath != "" {
		log.Info().Str("path", opts.configPath).Msg("Loaded engine config")
	}
	return cfg, nil
}
