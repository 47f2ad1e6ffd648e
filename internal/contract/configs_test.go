package contract

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kweller/codetriage/schema"
)

func validInput(t *testing.T) *ConfigRawInput {
	t.Helper()
	return &ConfigRawInput{
		RepoPathStr:         t.TempDir(),
		ComplexityThreshold: DefaultComplexityThreshold,
		Workers:             4,
		Output:              "json",
		Color:               "yes",
		HistoryBackend:      "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("valid minimal config", func(t *testing.T) {
		input := validInput(t)
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(ctx, cfg, input))

		assert.Equal(t, DefaultComplexityThreshold, cfg.ComplexityThreshold)
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, schema.JSONOut, cfg.Output)
		assert.True(t, cfg.UseColors)
		assert.Equal(t, DefaultTypecheckCmd, cfg.TypecheckCmd)
		assert.Equal(t, DefaultLintCmd, cfg.LintCmd)
		assert.Equal(t, DefaultTypecheckTimeout, cfg.TypecheckTimeout)
		assert.Equal(t, DefaultLintTimeout, cfg.LintTimeout)
		assert.Equal(t, DefaultGitTimeout, cfg.GitTimeout)
		assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	})

	t.Run("tool command overrides are split into argv", func(t *testing.T) {
		input := validInput(t)
		input.TypecheckCmd = "gopls check ./..."
		input.LintCmd = "staticcheck -f json ./cmd/..."
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(ctx, cfg, input))

		assert.Equal(t, []string{"gopls", "check", "./..."}, cfg.TypecheckCmd)
		assert.Equal(t, []string{"staticcheck", "-f", "json", "./cmd/..."}, cfg.LintCmd)
	})

	t.Run("timeout overrides are parsed", func(t *testing.T) {
		input := validInput(t)
		input.TypecheckTimeout = "90s"
		input.GitTimeout = "30s"
		cfg := &Config{}
		require.NoError(t, ProcessAndValidate(ctx, cfg, input))

		assert.Equal(t, 90*time.Second, cfg.TypecheckTimeout)
		assert.Equal(t, 30*time.Second, cfg.GitTimeout)
		assert.Equal(t, DefaultLintTimeout, cfg.LintTimeout)
	})

	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{"zero threshold", func(in *ConfigRawInput) { in.ComplexityThreshold = 0 }},
		{"threshold beyond limit", func(in *ConfigRawInput) { in.ComplexityThreshold = MaxComplexityThreshold + 1 }},
		{"zero workers", func(in *ConfigRawInput) { in.Workers = 0 }},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "xml" }},
		{"invalid color", func(in *ConfigRawInput) { in.Color = "maybe" }},
		{"invalid backend", func(in *ConfigRawInput) { in.HistoryBackend = "oracle" }},
		{"negative timeout", func(in *ConfigRawInput) { in.LintTimeout = "-5s" }},
		{"garbage timeout", func(in *ConfigRawInput) { in.GitTimeout = "soon" }},
		{"missing repo path", func(in *ConfigRawInput) { in.RepoPathStr = "/definitely/not/a/real/path" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(t)
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(ctx, &Config{}, input))
		})
	}
}

func TestProcessAndValidateRejectsFilePath(t *testing.T) {
	input := validInput(t)
	input.RepoPathStr = "configs.go" // a file, not a directory
	err := ProcessAndValidate(context.Background(), &Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		connStr     string
		expectError bool
	}{
		{"sqlite allows empty", schema.SQLiteBackend, "", false},
		{"none allows empty", schema.NoneBackend, "", false},
		{"mysql requires conn string", schema.MySQLBackend, "", true},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/triage", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass/triage", true},
		{"postgres requires conn string", schema.PostgreSQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=triage user=u", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost user=u", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		RepoPath:     "/tmp/repo",
		TypecheckCmd: []string{"go", "vet", "./..."},
		LintCmd:      []string{"staticcheck"},
	}
	clone := cfg.Clone()
	clone.TypecheckCmd[0] = "mutated"
	assert.Equal(t, "go", cfg.TypecheckCmd[0], "clone must not share backing arrays")
}
