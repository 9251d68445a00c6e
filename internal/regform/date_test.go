package regform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Strict(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"empty clears", "", ""},
		{"full timestamp round-trips", "2024-03-15T10:00:00", "2024-03-15T10:00:00"},
		{"minute precision is padded", "2024-03-15T10:00", "2024-03-15T10:00:00"},
		{"space separator", "2024-03-15 10:00:00", "2024-03-15T10:00:00"},
		{"date only gets midnight", "2024-03-15", "2024-03-15T00:00:00"},
		{"offset is kept", "2024-03-15T10:00:00+02:00", "2024-03-15T10:00:00+02:00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDate(tc.value, false, false)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseDate_StrictRejectsLooseInput(t *testing.T) {
	for _, value := range []string{"15/03/2024", "March 15", "tomorrow"} {
		_, err := parseDate(value, false, false)
		var cerr *CoercionError
		require.ErrorAs(t, err, &cerr, value)
		assert.Contains(t, cerr.Msg, value)
	}
}

func TestParseDate_Autodate(t *testing.T) {
	got, err := parseDate("03/15/2024 10:30", true, false)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15T10:30:00", got)
}

func TestParseDate_DateOnly(t *testing.T) {
	got, err := parseDate("2024-03-15T10:00:00", false, true)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", got)

	got, err = parseDate("", true, true)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
