package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kweller/codetriage/schema"
)

// Default values for configuration.
const (
	DefaultComplexityThreshold = 10
	MaxComplexityThreshold     = 500
	DefaultTypecheckTimeout    = 10 * time.Minute
	DefaultLintTimeout         = 5 * time.Minute
	DefaultGitTimeout          = 2 * time.Minute
)

// Default tool invocations for the normalizer pipelines.
var (
	DefaultTypecheckCmd = []string{"go", "vet", "./..."}
	DefaultLintCmd      = []string{"staticcheck", "-f", "json", "./..."}
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath            string
	ComplexityThreshold int
	Workers             int

	SkipStructural bool
	SkipTypecheck  bool
	SkipLint       bool
	SkipHistory    bool

	TypecheckCmd     []string
	LintCmd          []string
	TypecheckTimeout time.Duration
	LintTimeout      time.Duration
	GitTimeout       time.Duration

	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	ComplexityThreshold int    `mapstructure:"complexity-threshold"`
	Workers             int    `mapstructure:"workers"`
	Output              string `mapstructure:"output"`
	OutputFile          string `mapstructure:"output-file"`
	Width               int    `mapstructure:"width"`
	Color               string `mapstructure:"color"`
	HistoryBackend      string `mapstructure:"history-backend"`
	HistoryDBConnect    string `mapstructure:"history-db-connect"`

	// --- Fields from analyzeCmd.Flags() ---
	SkipStructural   bool   `mapstructure:"skip-structural"`
	SkipTypecheck    bool   `mapstructure:"skip-typecheck"`
	SkipLint         bool   `mapstructure:"skip-lint"`
	SkipHistory      bool   `mapstructure:"skip-history"`
	TypecheckCmd     string `mapstructure:"typecheck-cmd"`
	LintCmd          string `mapstructure:"lint-cmd"`
	TypecheckTimeout string `mapstructure:"typecheck-timeout"`
	LintTimeout      string `mapstructure:"lint-timeout"`
	GitTimeout       string `mapstructure:"git-timeout"`
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.TypecheckCmd != nil {
		clone.TypecheckCmd = make([]string, len(c.TypecheckCmd))
		copy(clone.TypecheckCmd, c.TypecheckCmd)
	}
	if c.LintCmd != nil {
		clone.LintCmd = make([]string, len(c.LintCmd))
		copy(clone.LintCmd, c.LintCmd)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processToolCommands(cfg, input); err != nil {
		return err
	}
	if err := processTimeouts(cfg, input); err != nil {
		return err
	}
	if err := resolveRepoPath(ctx, cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.SkipStructural = input.SkipStructural
	cfg.SkipTypecheck = input.SkipTypecheck
	cfg.SkipLint = input.SkipLint
	cfg.SkipHistory = input.SkipHistory
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Threshold Validation ---
	if input.ComplexityThreshold <= 0 || input.ComplexityThreshold > MaxComplexityThreshold {
		return fmt.Errorf("complexity threshold must be greater than 0 and cannot exceed %d (received %d)",
			MaxComplexityThreshold, input.ComplexityThreshold)
	}
	cfg.ComplexityThreshold = input.ComplexityThreshold

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be json, text", input.Output)
	}

	// --- 4. Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	return nil
}

// processToolCommands splits the tool invocation overrides into argv form.
func processToolCommands(cfg *Config, input *ConfigRawInput) error {
	cfg.TypecheckCmd = DefaultTypecheckCmd
	if input.TypecheckCmd != "" {
		argv := strings.Fields(input.TypecheckCmd)
		if len(argv) == 0 {
			return fmt.Errorf("typecheck-cmd must contain at least a tool name")
		}
		cfg.TypecheckCmd = argv
	}

	cfg.LintCmd = DefaultLintCmd
	if input.LintCmd != "" {
		argv := strings.Fields(input.LintCmd)
		if len(argv) == 0 {
			return fmt.Errorf("lint-cmd must contain at least a tool name")
		}
		cfg.LintCmd = argv
	}

	return nil
}

// processTimeouts parses the per-stage timeout overrides.
func processTimeouts(cfg *Config, input *ConfigRawInput) error {
	parse := func(name, value string, fallback time.Duration) (time.Duration, error) {
		if value == "" {
			return fallback, nil
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid --%s value '%s': %w", name, value, err)
		}
		if d <= 0 {
			return 0, fmt.Errorf("--%s must be positive (received %s)", name, value)
		}
		return d, nil
	}

	var err error
	if cfg.TypecheckTimeout, err = parse("typecheck-timeout", input.TypecheckTimeout, DefaultTypecheckTimeout); err != nil {
		return err
	}
	if cfg.LintTimeout, err = parse("lint-timeout", input.LintTimeout, DefaultLintTimeout); err != nil {
		return err
	}
	if cfg.GitTimeout, err = parse("git-timeout", input.GitTimeout, DefaultGitTimeout); err != nil {
		return err
	}
	return nil
}

// resolveRepoPath resolves the target path to an absolute directory.
// The path does not need to be a Git repository; history metrics degrade
// gracefully when it is not.
func resolveRepoPath(_ context.Context, cfg *Config, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	info, err := os.Stat(absSearchPath)
	if err != nil {
		return fmt.Errorf("cannot analyze %q: %w", searchPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot analyze %q: not a directory", searchPath)
	}

	cfg.RepoPath = absSearchPath
	return nil
}
