package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "confctl.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJson(t *testing.T) {
	path := writeConfigFile(t, `{
		"env": "prod",
		"environments": {"prod": "https://events.example.com"},
		"debug": true
	}`)

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "prod", cfg.Env)
	assert.True(t, cfg.Debug)
	// file environments merge over the defaults
	assert.Equal(t, map[string]string{
		"local": "http://localhost:8000",
		"prod":  "https://events.example.com",
	}, cfg.Environments)
}

func TestParseJson_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfigFile(t, `{"environments": {"stage": "https://stage.example.com"}}`)

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "local", cfg.Env)
	assert.False(t, cfg.Debug)
	assert.Contains(t, cfg.Environments, "stage")
}

func TestParseJson_NoFlagIsANoop(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	assert.Equal(t, "local", cfg.Env)
}

func TestParseJson_BadFilePanics(t *testing.T) {
	path := writeConfigFile(t, `{not json`)

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"cmd", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseJson(cfg) })
}
