package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
)

// ContribLink attaches a link to a contribution's material list.
func (a *App) ContribLink(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contriblink", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 4 {
		return fmt.Errorf("usage: contriblink <conference> <contribution> <url> <title>")
	}

	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}
	cid, err := atoiArg("contribution", fs.Arg(1))
	if err != nil {
		return err
	}
	link, title := fs.Arg(2), fs.Arg(3)
	if !strings.HasPrefix(link, "http") {
		return fmt.Errorf("%s is not a link", link)
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	message, ok, err := client.ContributionAddLink(ctx, conference, cid, link, title)
	if err != nil {
		return err
	}

	if ok {
		fmt.Fprintf(a.out, "Success: %s\n", message)
	} else {
		fmt.Fprintf(a.out, "Fail: %s\n", message)
	}
	return nil
}
