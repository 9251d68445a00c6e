package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
)

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// RegQuery filters a form's registrations by field values and prints the
// requested columns.
func (a *App) RegQuery(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("regquery", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var queries stringList
	var columns stringList
	fs.Var(&queries, "query", "filter as Field=Value, repeatable")
	fs.Var(&columns, "field", "column to show, repeatable (default: Email Address)")
	rawFields := fs.Bool("rawfields", false, "field names are raw names instead of titles")
	format := fs.String("format", "csv", "output format: csv or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: regquery [flags] <conference> <regform>")
	}
	if *format != "csv" && *format != "json" {
		return fmt.Errorf("unknown format %q, expected csv or json", *format)
	}

	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}
	form, err := atoiArg("regform", fs.Arg(1))
	if err != nil {
		return err
	}
	if len(columns) == 0 {
		columns = stringList{"Email Address"}
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	index, err := a.fieldIndex(ctx, client, conference, form, *rawFields)
	if err != nil {
		return err
	}

	// filters are keyed by raw field name on the wire
	query := map[string]string{}
	for _, q := range queries {
		name, value, ok := strings.Cut(q, "=")
		if !ok {
			return fmt.Errorf("expected Field=Value, got %q", q)
		}
		f, err := index.Lookup(name, *rawFields)
		if err != nil {
			return err
		}
		query[f.RawName] = value
	}

	// requested columns go out under their display title; "id" is the
	// service's own registration id pseudo-column
	visible := make([]string, 0, len(columns))
	for _, col := range columns {
		if col == "id" {
			visible = append(visible, "id")
			continue
		}
		f, err := index.Lookup(col, *rawFields)
		if err != nil {
			return err
		}
		visible = append(visible, f.Title)
	}

	results, err := client.QueryRegistrations(ctx, conference, form, query, visible)
	if err != nil {
		return err
	}

	if *format == "json" {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	w := csv.NewWriter(a.out)
	// a single column is self-explaining; more get a header row
	if len(visible) > 1 && len(results) > 0 {
		header := make([]string, 0, len(visible))
		for _, col := range visible {
			if col == "id" {
				col = "ID"
			}
			header = append(header, col)
		}
		if err := w.Write(header); err != nil {
			return err
		}
	}
	for _, result := range results {
		row := make([]string, 0, len(visible))
		for _, col := range visible {
			if col == "id" {
				col = "ID"
			}
			row = append(row, result[col])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
