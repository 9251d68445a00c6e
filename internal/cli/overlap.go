package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/eventops/confctl/internal/eventapi"
)

// Overlap checks the contribution schedule for double-booked presenters and
// rooms, and lists contributions without a time slot.
func (a *App) Overlap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("overlap", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: overlap <conference>")
	}
	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	contribs, err := client.ContributionList(ctx, conference)
	if err != nil {
		return err
	}

	report := eventapi.CheckSchedule(contribs)
	for _, title := range report.Unscheduled {
		fmt.Fprintf(a.out, "Unscheduled: %s\n", title)
	}
	for _, c := range report.Conflicts {
		if c.Room != "" {
			fmt.Fprintf(a.out, "\tTime/Room Conflict in %s: %s @%s - %s vs %s @%s - %s\n",
				c.Room, c.Title, c.Start, c.End, c.PrevTitle, c.PrevStart, c.PrevEnd)
			continue
		}
		fmt.Fprintf(a.out, "\tConflict: %s @%s - %s vs %s @%s - %s\n",
			c.Title, c.Start, c.End, c.PrevTitle, c.PrevStart, c.PrevEnd)
	}
	return nil
}
