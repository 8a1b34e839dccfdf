// Command psceval calculates PSC economics for oil and gas development
// scenarios, ranks them and persists the results.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rewired-gh/psceval/internal/config"
	"github.com/rewired-gh/psceval/internal/logger"
	"github.com/rewired-gh/psceval/internal/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		var cfgErr *models.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "Configuration error: %s: %s\n", cfgErr.Field, cfgErr.Reason)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "psceval",
	Short:         "PSC economics engine for oil and gas scenarios",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `psceval evaluates production sharing contract economics for development
scenarios: OPEX schedules, the annual cash-flow waterfall, NPV, IRR and
payback, and a weighted multi-criteria ranking across scenarios.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", envFile, err)
		}

		configFile, _ := cmd.Flags().GetString("config")
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			cfg.Logging.Level = level
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		logger.Init(cfg.Logging.Level, cfg.Logging.Format)
		if configFile != "" {
			logger.Debug("Configuration loaded from %s", configFile)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (defaults and PSCEVAL_* env vars when empty)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(opexCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(comparisonsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "psceval %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:   %s\n", date)
	},
}
