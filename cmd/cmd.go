package cmd

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tickr-network/tickr/internal/config"
	"github.com/tickr-network/tickr/pkg/logger"
	"github.com/tickr-network/tickr/pkg/logger/slogx"
)

var rootCmd = &cobra.Command{
	Use:  "tickr",
	Long: `Tickr event ticketing marketplace service`,
}

func init() {
	// Add global flags
	flags := rootCmd.PersistentFlags()
	flags.String("logger-output", "", "logger output format, E.g. `TEXT` or `JSON`")

	// Bind flags to configuration
	config.BindPFlag("logger.output", flags.Lookup("logger-output"))

	// Initialize configuration and logger on start command
	cobra.OnInitialize(func() {
		conf := config.Load()

		if err := logger.Init(conf.Logger); err != nil {
			logger.Panic("Failed to initialize logger", slogx.Error(err), slog.Any("config", conf.Logger))
		}
	})
}

func Execute(ctx context.Context) {
	// Register sub-commands and handlers
	rootCmd.AddCommand(
		NewRunCommand(),
		NewMigrateCommand(),
		NewVersionCommand(),
		NewGenerateKeypairCommand(),
	)

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Panic("Failed to execute root command", slogx.Error(err))
	}
}
