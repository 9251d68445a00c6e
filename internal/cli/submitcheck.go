package cli

import (
	"context"
	"flag"
	"fmt"
)

// SubmitCheck lists contribution persons missing the submitter role, with
// the page where an operator can grant it.
func (a *App) SubmitCheck(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("submitcheck", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: submitcheck <conference>")
	}
	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	missing, err := client.MissingSubmitters(ctx, conference)
	if err != nil {
		return err
	}

	for _, m := range missing {
		fmt.Fprintf(a.out, "%s %s\n", m.Name, m.URL)
	}
	return nil
}
