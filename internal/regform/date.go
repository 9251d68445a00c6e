package regform

import (
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// isoLayouts are the accepted strict formats together with the layout the
// value is re-rendered in. Output is always second precision; an explicit
// offset is kept when the input carried one.
var isoLayouts = []struct{ in, out string }{
	{"2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05Z07:00"},
	{"2006-01-02T15:04:05", "2006-01-02T15:04:05"},
	{"2006-01-02T15:04", "2006-01-02T15:04:05"},
	{"2006-01-02 15:04:05", "2006-01-02T15:04:05"},
	{"2006-01-02", "2006-01-02T15:04:05"},
}

// parseDate normalizes a date value for the remote form. An empty value stays
// empty, which clears the field. With autodate the input may be in almost any
// human-entered format; otherwise it must already be ISO-8601. dateOnly
// renders as yyyy-mm-dd and is used for accommodation date ranges.
func parseDate(value string, autodate, dateOnly bool) (string, error) {
	if value == "" {
		return "", nil
	}

	if autodate {
		t, err := dateparse.ParseAny(value)
		if err != nil {
			return "", fmt.Errorf("parse date %q: %w", value, err)
		}
		return render(t, "2006-01-02T15:04:05", dateOnly), nil
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout.in, value); err == nil {
			return render(t, layout.out, dateOnly), nil
		}
	}

	return "", coerceErrf(
		"invalid date format %q, use -autodate or correct the CSV file to use ISO8601 yyyy-mm-ddThh:mm:ss",
		value)
}

func render(t time.Time, layout string, dateOnly bool) string {
	if dateOnly {
		return t.Format("2006-01-02")
	}
	return t.Format(layout)
}
