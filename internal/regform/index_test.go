package regform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `{
  "sections": {
    "1": {"enabled": true},
    "2": {"enabled": false}
  },
  "items": {
    "10": {"title": "Email Address", "htmlName": "email", "inputType": "email", "isEnabled": true, "sectionId": 1},
    "11": {"title": "First Name", "htmlName": "first_name", "inputType": "text", "isEnabled": true, "sectionId": 1},
    "12": {"title": "Team", "htmlName": "field_7", "inputType": "single_choice", "isEnabled": true, "sectionId": 1,
           "captions": {"id1": "Infra", "id2": "Apps"}},
    "13": {"title": "Hidden", "htmlName": "field_8", "inputType": "text", "isEnabled": false, "sectionId": 1},
    "14": {"title": "In Disabled Section", "htmlName": "field_9", "inputType": "text", "isEnabled": true, "sectionId": 2},
    "15": {"title": "Just a heading", "inputType": "label", "isEnabled": true, "sectionId": 1}
  }
}`

func TestParseSchema_SkipsDisabledAndLabels(t *testing.T) {
	fields, err := ParseSchema([]byte(sampleSchema))
	require.NoError(t, err)

	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.RawName)
	}
	assert.Equal(t, []string{"email", "field_7", "first_name"}, names)
}

func TestNewIndex_LookupByTitleAndRaw(t *testing.T) {
	fields, err := ParseSchema([]byte(sampleSchema))
	require.NoError(t, err)

	ix, err := NewIndex(fields, false)
	require.NoError(t, err)

	f, err := ix.Lookup("Team", false)
	require.NoError(t, err)
	assert.Equal(t, "field_7", f.RawName)

	f, err = ix.Lookup("field_7", true)
	require.NoError(t, err)
	assert.Equal(t, "Team", f.Title)

	_, err = ix.Lookup("No Such Field", false)
	var uerr *UnknownFieldError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "No Such Field", uerr.Key)
}

func TestNewIndex_AmbiguousTitleFails(t *testing.T) {
	fields := []Field{
		newField(rawField{Title: "Team", HTMLName: "field_7", InputType: "text", IsEnabled: true}),
		newField(rawField{Title: "Team", HTMLName: "field_8", InputType: "text", IsEnabled: true}),
	}

	_, err := NewIndex(fields, false)
	var aerr *AmbiguousFieldError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, "Team", aerr.Title)
}

func TestNewIndex_AmbiguousTitlesStillResolvableByRaw(t *testing.T) {
	// Colliding titles are fine in raw mode: titles are not indexed there.
	fields := []Field{
		newField(rawField{Title: "Team", HTMLName: "field_7", InputType: "text", IsEnabled: true}),
		newField(rawField{Title: "Team", HTMLName: "field_8", InputType: "text", IsEnabled: true}),
	}

	ix, err := NewIndex(fields, true)
	require.NoError(t, err)

	for _, raw := range []string{"field_7", "field_8"} {
		f, err := ix.Lookup(raw, true)
		require.NoError(t, err)
		assert.Equal(t, raw, f.RawName)
	}
}

func TestColumnName(t *testing.T) {
	fields, err := ParseSchema([]byte(sampleSchema))
	require.NoError(t, err)
	ix, err := NewIndex(fields, false)
	require.NoError(t, err)

	name, err := ix.ColumnName("email", false)
	require.NoError(t, err)
	assert.Equal(t, "Email Address", name)

	name, err = ix.ColumnName("email", true)
	require.NoError(t, err)
	assert.Equal(t, "email", name)

	_, err = ix.ColumnName("affiliation", false)
	var uerr *UnknownFieldError
	require.ErrorAs(t, err, &uerr)
}
