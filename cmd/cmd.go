// Package cmd defines the command-line interface for codetriage.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(historyCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("complexity-threshold", "t", contract.DefaultComplexityThreshold, "Cyclomatic complexity threshold for structural findings")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.JSONOut), "Output format: json or text")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.SQLiteBackend), "Run-history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of analyzeCmd to Viper
	analyzeCmd.Flags().Bool("skip-structural", false, "Skip structural (AST) analysis")
	analyzeCmd.Flags().Bool("skip-typecheck", false, "Skip the type checker stage")
	analyzeCmd.Flags().Bool("skip-lint", false, "Skip the linter stage")
	analyzeCmd.Flags().Bool("skip-history", false, "Skip git history metrics")
	analyzeCmd.Flags().String("typecheck-cmd", "", "Override the type checker invocation (default: go vet ./...)")
	analyzeCmd.Flags().String("lint-cmd", "", "Override the linter invocation (default: staticcheck -f json ./...)")
	analyzeCmd.Flags().String("typecheck-timeout", "", "Timeout for the type checker stage (e.g., 10m)")
	analyzeCmd.Flags().String("lint-timeout", "", "Timeout for the linter stage (e.g., 5m)")
	analyzeCmd.Flags().String("git-timeout", "", "Timeout for git history metrics (e.g., 2m)")
	if err := viper.BindPFlags(analyzeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analyze flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
