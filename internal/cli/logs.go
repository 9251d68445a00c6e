package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

// EmailLog lists the recipients of email-log entries matching a query.
func (a *App) EmailLog(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("emaillog", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: emaillog <conference> <query>")
	}

	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}
	query := strings.Join(fs.Args()[1:], " ")

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	recipients, err := client.EmailLog(ctx, conference, query)
	if err != nil {
		return err
	}

	for _, r := range recipients {
		fmt.Fprintln(a.out, r)
	}
	return nil
}
