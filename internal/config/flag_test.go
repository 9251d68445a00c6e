package config

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected *Config
		name     string
		args     []string
	}{
		{name: "environment short flag",
			args:     []string{"cmd", "-e", "stage", "regquery"},
			expected: &Config{Env: "stage"}},
		{name: "environment long flag",
			args:     []string{"cmd", "--env=prod", "regeditcsv"},
			expected: &Config{Env: "prod"}},
		{name: "explicit url and debug",
			args:     []string{"cmd", "-url", "http://127.0.0.1:8000", "-debug", "timetable"},
			expected: &Config{BaseURL: "http://127.0.0.1:8000", Debug: true}},
		{name: "subcommand flags are ignored",
			args:     []string{"cmd", "regedit", "-set", "Team=Infra", "-all"},
			expected: &Config{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })
			os.Args = tt.args

			config := &Config{}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(config, tt.expected))
		})
	}
}
