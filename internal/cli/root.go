package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/01moynul/reboot-golang/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot resale marketplace API",
	Long:  "Reboot serves the users, categories, products and orders REST API of the second-hand marketplace.",
	// Running the binary with no subcommand starts the server.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the env file named by --env-file and installs the JSON
// logger at the configured level.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
