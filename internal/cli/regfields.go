package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/eventops/confctl/internal/regform"
)

// RegFields lists a form's fields with their raw names, types and choices,
// the reference an operator needs to write CSV headers and -set flags.
func (a *App) RegFields(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("regfields", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: regfields <conference> <regform>")
	}

	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}
	form, err := atoiArg("regform", fs.Arg(1))
	if err != nil {
		return err
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	// raw mode: a listing must not fail over colliding titles
	index, err := a.fieldIndex(ctx, client, conference, form, true)
	if err != nil {
		return err
	}

	for _, f := range index.Fields() {
		fmt.Fprintf(a.out, "%s (%s): %s\n", f.RawName, f.Type, f.Title)
		printChoices(a, f)
	}
	return nil
}

func printChoices(a *App, f *regform.Field) {
	switch f.Type {
	case regform.TypeSingleChoice, regform.TypeMultiChoice:
		for id, caption := range f.Captions {
			fmt.Fprintf(a.out, "\t%s: %s\n", id, caption)
		}
	case regform.TypeAccommodation:
		for _, c := range f.Choices {
			marker := ""
			if c.IsNoAccommodation {
				marker = " (no accommodation)"
			}
			fmt.Fprintf(a.out, "\t%s: %s%s\n", c.ID, c.Caption, marker)
		}
	}
}
