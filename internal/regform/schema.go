package regform

import (
	"encoding/json"
	"fmt"
	"sort"
)

// The form setup page embeds the schema as one JSON document: items keyed by
// field id, sections keyed by section id.
type rawSchema struct {
	Items    map[string]rawField   `json:"items"`
	Sections map[string]rawSection `json:"sections"`
}

type rawSection struct {
	Enabled bool `json:"enabled"`
}

type rawField struct {
	Title           string            `json:"title"`
	InputType       string            `json:"inputType"`
	HTMLName        string            `json:"htmlName"`
	IsEnabled       bool              `json:"isEnabled"`
	SectionID       json.Number       `json:"sectionId"`
	Captions        map[string]string `json:"captions"`
	Choices         []Choice          `json:"choices"`
	ArrivalDateFrom string            `json:"arrivalDateFrom"`
	DepartureDateTo string            `json:"departureDateTo"`
}

// ParseSchema decodes a form-schema document into the enabled, addressable
// fields. Fields in disabled sections, disabled fields and pure labels
// (fields without a machine name) are dropped. The result is ordered by raw
// name so callers get stable listings.
func ParseSchema(data []byte) ([]Field, error) {
	var raw rawSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode form schema: %w", err)
	}

	fields := make([]Field, 0, len(raw.Items))
	for _, item := range raw.Items {
		if section, ok := raw.Sections[item.SectionID.String()]; ok && !section.Enabled {
			continue
		}
		if !item.IsEnabled || item.HTMLName == "" {
			continue
		}
		fields = append(fields, newField(item))
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].RawName < fields[j].RawName })
	return fields, nil
}

func newField(item rawField) Field {
	f := Field{
		RawName:  item.HTMLName,
		Title:    item.Title,
		Type:     InputType(item.InputType),
		Captions: item.Captions,
		Choices:  item.Choices,
	}

	switch f.Type {
	case TypeBool, TypeCheckbox:
		f.kind = boolKind{}
	case TypeText, TypeTextarea, TypePhone, TypeNumber:
		f.kind = textKind{}
	case TypeEmail:
		f.kind = emailKind{}
	case TypeDate:
		f.kind = dateKind{}
	case TypeSingleChoice:
		f.kind = choiceKind{byCaption: reverseCaptions(item.Captions)}
	case TypeMultiChoice:
		f.kind = choiceKind{multi: true, byCaption: reverseCaptions(item.Captions)}
	case TypeCountry:
		f.kind = countryKind{choices: item.Choices}
	case TypeAccommodation:
		f.kind = accommodationKind{
			choices:     item.Choices,
			byCaption:   reverseCaptions(item.Captions),
			byID:        choicesByID(item.Choices),
			arrivalFrom: item.ArrivalDateFrom,
			departureTo: item.DepartureDateTo,
		}
	}
	// Anything else (labels and future field types) keeps a nil kind and
	// fails coercion with the type name.

	return f
}

func reverseCaptions(captions map[string]string) map[string]string {
	rev := make(map[string]string, len(captions))
	for id, caption := range captions {
		rev[caption] = id
	}
	return rev
}

func choicesByID(choices []Choice) map[string]Choice {
	byID := make(map[string]Choice, len(choices))
	for _, c := range choices {
		byID[c.ID] = c
	}
	return byID
}
