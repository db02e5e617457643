package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptopilot/config"
	"github.com/rustyeddy/cryptopilot/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "pilot",
	Short: "Crypto signal generation and risk-sizing engine",
	Long: `Pilot turns historical price bars into ranked trade signals and books the
best of them as simulated trades against a capital ledger.

It provides tools for:
  - Computing EMA/SMA/RSI/MACD/Bollinger indicators per symbol
  - Classifying market regime and firing trend, mean-reversion and scalp rules
  - Leverage-aware stop placement and fixed-risk position sizing
  - A daily loss circuit breaker over the trade journal
  - Querying and exporting the trade journal`,
	SilenceUsage: true,
}

var (
	configPath string
	envFile    string
	logLevel   string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with PILOT_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig resolves defaults, the config file, PILOT_* overrides and the
// --log-level flag, in that order.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(configPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	if err := cfg.LoadEnv(envFile); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.Log.Console {
		return logging.Console(cfg.Log.Level, os.Stderr)
	}
	return logging.New(cfg.Log.Level, os.Stderr)
}
