package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/sketchlink/pkg/core"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.File)
	assert.Equal(t, Default(), cfg.Config)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeConfig(t, `
selection:
  function: jaro_winkler
  threshold_code: 0.7
matching:
  max_iterations: 20
rules:
  disabled: [RP01]
  severity:
    NM01: hint
  options:
    CN01:
      ignore_self_lines: true
`)
	t.Setenv("SKETCHLINK_MATCHING__MAX_ITERATIONS", "30")
	t.Setenv("SKETCHLINK_SELECTION__THRESHOLD_CODE", "0.75")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("max-iterations", 0, "")
	flags.String("output", "", "")
	require.NoError(t, flags.Parse([]string{"--max-iterations", "40", "--output", "json"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "jaro_winkler", cfg.Selection.Function, "file overrides defaults")
	assert.InDelta(t, 0.75, cfg.Selection.ThresholdCode, 1e-9, "env overrides file")
	assert.Equal(t, 40, cfg.Matching.MaxIterations, "flags override env")
	assert.Equal(t, "json", cfg.Output)
	assert.InDelta(t, DefaultThresholdArchitecture, cfg.Selection.ThresholdArchitecture, 1e-9)

	ec := cfg.EngineConfig()
	assert.True(t, ec.DisabledRules["RP01"])
	assert.Equal(t, core.SeverityHint, ec.SeverityOverrides["NM01"])
	assert.Equal(t, true, ec.Options["CN01"]["ignore_self_lines"])
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
selection:
  function: soundex
  match_delta: 2
matching:
  formula: z
output: yaml
`)

	_, err := Load(path, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	var cfgErr *core.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	for _, key := range []string{"selection.function", "selection.match_delta", "matching.formula", "output"} {
		assert.Contains(t, err.Error(), key)
	}
}

func TestFindConfigFile_Upward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, ConfigFileNameAlt), []byte("verbose: true\n"), 0o600))

	assert.Equal(t, filepath.Join(root, ConfigFileNameAlt), FindConfigFile(nested))
}

func TestValidate_Default(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
