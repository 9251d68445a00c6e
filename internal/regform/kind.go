package regform

import (
	"strings"
)

// Accommodation is the payload value for an accommodation field. Dates are
// omitted for the "no accommodation" choice.
type Accommodation struct {
	Choice            string `json:"choice"`
	IsNoAccommodation bool   `json:"isNoAccommodation"`
	ArrivalDate       string `json:"arrivalDate,omitempty"`
	DepartureDate     string `json:"departureDate,omitempty"`
}

type boolKind struct{}

func (boolKind) coerce(_ *Field, value string, _ CoerceOptions) (any, bool, error) {
	switch strings.ToLower(value) {
	case "yes", "true", "1":
		return true, true, nil
	}
	return false, true, nil
}

// textKind covers text, textarea, phone and number: the value passes through
// unmodified.
type textKind struct{}

func (textKind) coerce(_ *Field, value string, _ CoerceOptions) (any, bool, error) {
	return value, true, nil
}

type emailKind struct{}

func (emailKind) coerce(_ *Field, value string, opts CoerceOptions) (any, bool, error) {
	if !opts.AllowEmail {
		return nil, false, nil
	}
	return value, true, nil
}

type dateKind struct{}

func (dateKind) coerce(_ *Field, value string, opts CoerceOptions) (any, bool, error) {
	s, err := parseDate(value, opts.Autodate, false)
	if err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// choiceKind resolves captions to choice ids. The selection is a map of
// choice id to 1, which is also what "no selection" (an empty map) looks
// like on the wire.
type choiceKind struct {
	multi     bool
	byCaption map[string]string
}

func (k choiceKind) coerce(f *Field, value string, _ CoerceOptions) (any, bool, error) {
	parts := []string{value}
	if k.multi {
		parts = strings.Split(value, ",")
	}

	selection := map[string]int{}
	for _, caption := range parts {
		if caption == "" {
			continue
		}
		id, ok := k.byCaption[caption]
		if !ok {
			return nil, false, coerceErrf("couldn't find choice %q for field %q", caption, f.Title)
		}
		selection[id] = 1
	}
	return selection, true, nil
}

type countryKind struct {
	choices []Choice
}

func (k countryKind) coerce(_ *Field, value string, _ CoerceOptions) (any, bool, error) {
	if value == "" {
		return "", true, nil
	}
	for _, c := range k.choices {
		if c.Caption == value {
			return c.CountryKey, true, nil
		}
	}
	return nil, false, coerceErrf("could not find country %s", value)
}

// accommodationKind parses "arrival,departure,choice caption" values. The
// caption may itself contain commas, so the value is split on the first two
// commas only. The literal "none" selects the no-accommodation choice.
type accommodationKind struct {
	choices     []Choice
	byCaption   map[string]string
	byID        map[string]Choice
	arrivalFrom string
	departureTo string
}

func (k accommodationKind) coerce(f *Field, value string, opts CoerceOptions) (any, bool, error) {
	if value == "" {
		return nil, false, nil
	}

	if value == "none" {
		for _, c := range k.choices {
			if c.IsNoAccommodation {
				return Accommodation{Choice: c.ID, IsNoAccommodation: true}, true, nil
			}
		}
		return nil, false, coerceErrf("field %q has no \"no accommodation\" choice", f.Title)
	}

	parts := strings.SplitN(value, ",", 3)
	if len(parts) != 3 {
		return nil, false, coerceErrf(
			"format of accommodation field is e.g. '2021-01-01,2021-01-02,Option Name', got %q", value)
	}

	id, ok := k.byCaption[parts[2]]
	if !ok {
		return nil, false, coerceErrf("couldn't find choice %q for field %q", parts[2], f.Title)
	}
	choice := k.byID[id]
	if choice.IsNoAccommodation {
		return Accommodation{Choice: id, IsNoAccommodation: true}, true, nil
	}

	arrival, err := parseDate(parts[0], opts.Autodate, true)
	if err != nil {
		return nil, false, err
	}
	departure, err := parseDate(parts[1], opts.Autodate, true)
	if err != nil {
		return nil, false, err
	}

	// yyyy-mm-dd strings order the same way the dates do.
	if departure <= arrival {
		return nil, false, coerceErrf(
			"departure date %s is before or equal to arrival date %s", departure, arrival)
	}
	if k.arrivalFrom != "" && arrival < k.arrivalFrom {
		return nil, false, coerceErrf(
			"date %s is before allowed arrival date %s", arrival, k.arrivalFrom)
	}
	if k.departureTo != "" && departure > k.departureTo {
		return nil, false, coerceErrf(
			"date %s is after allowed departure date %s", departure, k.departureTo)
	}

	return Accommodation{Choice: id, ArrivalDate: arrival, DepartureDate: departure}, true, nil
}
