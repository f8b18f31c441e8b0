// Package main provides the skill_monitor CLI: market runs over job-listing corpora, gap
// analysis, learning recommendations and the JSON API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/skill-monitor/internal/config"
	"github.com/jonathan/skill-monitor/internal/logging"
)

var (
	configPath string
	logLevel   string
	logFile    string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "skill_monitor",
	Short: "Job market skill analytics",
	Long:  "skill_monitor extracts skills from job listings, aggregates market demand into a competency matrix and compares user profiles against it to produce learning plans.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this rotated file")
}

// setup loads configuration and builds the logger; flags override the config file
func setup(cmd *cobra.Command) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	merged := loaded.MergeWithDefaults(config.DefaultConfig())
	if cmd.Flags().Changed("log-level") {
		merged.LogLevel = logLevel
	}
	if cmd.Flags().Changed("log-file") {
		merged.LogFile = logFile
	}
	if err := merged.Validate(); err != nil {
		return err
	}
	cfg = &merged

	l, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger = l
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
