package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/eventops/confctl/internal/reconcile"
)

// fieldValues collects repeated -set Field=Value flags.
type fieldValues []reconcile.FieldValue

func (f *fieldValues) String() string {
	parts := make([]string, 0, len(*f))
	for _, fv := range *f {
		parts = append(parts, fv.Field+"="+fv.Value)
	}
	return strings.Join(parts, ",")
}

func (f *fieldValues) Set(value string) error {
	field, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected Field=Value, got %q", value)
	}
	*f = append(*f, reconcile.FieldValue{Field: field, Value: val})
	return nil
}

// RegEdit applies explicit field overrides to registrations named by id or
// email, or to every registration with -all.
func (a *App) RegEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("regedit", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	var sets fieldValues
	fs.Var(&sets, "set", "field override as Field=Value, repeatable")
	allowEmail := fs.Bool("allow-email", false, "permit changing the email field")
	rawFields := fs.Bool("rawfields", false, "field names are raw names instead of titles")
	autodate := fs.Bool("autodate", false, "accept loosely formatted dates")
	notify := fs.Bool("notify", false, "send notification emails about the changes")
	all := fs.Bool("all", false, "apply to every registration of the conference")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: regedit [flags] <conference> <regform> [id|email]...")
	}

	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}
	form, err := atoiArg("regform", fs.Arg(1))
	if err != nil {
		return err
	}
	tokens := fs.Args()[2:]

	if *all && len(tokens) > 0 {
		return fmt.Errorf("-all and explicit registrations are mutually exclusive")
	}
	if !*all && len(tokens) == 0 {
		return fmt.Errorf("no registrations given, use -all to edit every one")
	}
	if len(sets) == 0 {
		return fmt.Errorf("nothing to change, use -set Field=Value")
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	index, err := a.fieldIndex(ctx, client, conference, form, *rawFields)
	if err != nil {
		return err
	}

	// row failures are reported, not escalated; only whole-run conditions
	// (bad token, bad override) make the command fail
	report := func(o reconcile.Outcome) {
		if o.Status == reconcile.StatusFailed {
			fmt.Fprintf(a.out, "%s FAILED: %s\n", o.Key, o.Message())
			return
		}
		fmt.Fprintf(a.out, "%s %s\n", o.Key, o.Status)
	}

	engine := reconcile.NewEngine(client, a.log)
	return engine.EditRegistrations(ctx, conference, form, index, tokens, sets, reconcile.EditOptions{
		AllowEmail: *allowEmail,
		RawFields:  *rawFields,
		Autodate:   *autodate,
		Notify:     *notify,
		All:        *all,
		Debug:      a.config.Debug,
	}, report)
}
