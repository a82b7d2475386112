package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("precision", 0, "")
	flags.String("style", "", "")
	flags.Int("digits", 0, "")
	flags.Bool("verbose", false, "")
	flags.String("log-file", "", "")
	return flags
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, DefaultPrecision, cfg.Precision)
	assert.Equal(t, DefaultStyle, cfg.Style)
	assert.Equal(t, DefaultDigits, cfg.Digits)
	assert.False(t, cfg.Verbose)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apeval.yaml")
	require.NoError(t, os.WriteFile(path, []byte("precision: 100\nstyle: spreadsheet\n"), 0o644))

	cfg, err := Load(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Precision)
	assert.Equal(t, "spreadsheet", cfg.Style)
	assert.Equal(t, path, FileUsed())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("APEVAL_PRECISION", "32")
	t.Setenv("APEVAL_DIGITS", "12")
	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Precision)
	assert.Equal(t, 12, cfg.Digits)
}

func TestLoadFlagPrecedence(t *testing.T) {
	t.Setenv("APEVAL_PRECISION", "32")
	flags := newFlags(t)
	require.NoError(t, flags.Parse([]string{"--precision", "48", "--log-file", "out.log"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.Precision, "explicit flag should beat the environment")
	assert.Equal(t, "out.log", cfg.LogFile)
}

func TestLoadUnsetFlagsIgnored(t *testing.T) {
	t.Setenv("APEVAL_PRECISION", "32")
	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.Precision, "unset flags should not mask lower layers")
}

func TestValidation(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"zero precision", map[string]string{"APEVAL_PRECISION": "0"}},
		{"negative digits", map[string]string{"APEVAL_DIGITS": "-1"}},
		{"unknown style", map[string]string{"APEVAL_STYLE": "haskell"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			_, err := Load("", newFlags(t))
			assert.Error(t, err)
		})
	}
}
