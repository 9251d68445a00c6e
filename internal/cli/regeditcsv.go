package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"github.com/eventops/confctl/internal/eventapi"
	"github.com/eventops/confctl/internal/reconcile"
	"github.com/eventops/confctl/internal/regform"
)

// fieldIndex fetches a form's schema and builds the field lookup every
// registration command starts from.
func (a *App) fieldIndex(ctx context.Context, client *eventapi.Client, conference, form int, raw bool) (*regform.Index, error) {
	data, err := client.FormSchema(ctx, conference, form)
	if err != nil {
		return nil, err
	}
	fields, err := regform.ParseSchema(data)
	if err != nil {
		return nil, err
	}
	return regform.NewIndex(fields, raw)
}

// RegEditCSV reconciles a form's registrations with a CSV file: one update
// per row, optionally registering users the form does not know yet.
func (a *App) RegEditCSV(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("regeditcsv", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	register := fs.Bool("register", false, "register users not yet known to the form")
	autodate := fs.Bool("autodate", false, "accept loosely formatted dates")
	rawFields := fs.Bool("rawfields", false, "headers are raw field names instead of titles")
	notify := fs.Bool("notify", false, "send notification emails about the changes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("usage: regeditcsv [flags] <conference> <regform> <file.csv>")
	}

	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}
	form, err := atoiArg("regform", fs.Arg(1))
	if err != nil {
		return err
	}

	file, err := os.Open(fs.Arg(2))
	if err != nil {
		return fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	index, err := a.fieldIndex(ctx, client, conference, form, *rawFields)
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("rows"),
		progressbar.OptionSetWriter(a.errOut),
		progressbar.OptionSpinnerType(14),
	)

	var updated, registered, failed int
	report := func(o reconcile.Outcome) {
		bar.Add(1)
		switch o.Status {
		case reconcile.StatusUpdated:
			updated++
		case reconcile.StatusRegistered:
			registered++
		case reconcile.StatusFailed:
			failed++
			bar.Clear()
			fmt.Fprintf(a.out, "%s FAILED: %s\n", o.Key, o.Message())
		}
	}

	engine := reconcile.NewEngine(client, a.log)
	err = engine.EditCSV(ctx, conference, form, index, file, reconcile.Options{
		Register:  *register,
		Autodate:  *autodate,
		RawFields: *rawFields,
		Notify:    *notify,
		Debug:     a.config.Debug,
	}, report)
	bar.Finish()
	bar.Clear()
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%d updated, %d registered, %d failed\n", updated, registered, failed)
	return nil
}
