package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cryptopilot/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage pilot configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  pilot config init -o pilot.yaml
  pilot config validate -f pilot.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Write the default engine, journal and logging settings to a file.

The format follows the extension: .yaml/.yml writes YAML, anything else JSON.
PILOT_* environment variables still override the file at run time.

Example:
  pilot config init -o pilot.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file on top of the defaults and check every
engine and journal setting, including the strategy names.

Example:
  pilot config validate -f pilot.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "pilot.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (required)")
	configValidateCmd.MarkFlagRequired("file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  pilot run -c %s --data ./bars\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(configValidatePath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	e := cfg.Engine
	fmt.Printf("✓ Configuration valid: %s\n", configValidatePath)
	fmt.Printf("  Capital: %.4f (risk %.1f%% per trade, daily loss limit %.1f%%)\n",
		e.StartCapital, e.RiskFraction*100, e.MaxDailyLossPct)
	fmt.Printf("  Targets: TP %.1f%%, SL %.1f%%, leverage %.0fx\n",
		e.TakeProfitPct*100, e.StopLossPct*100, e.Leverage)
	fmt.Printf("  Strategies: %s (top %d)\n", strings.Join(e.Strategies, ", "), e.TopN)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
