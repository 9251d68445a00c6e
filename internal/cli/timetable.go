package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"github.com/eventops/confctl/internal/eventapi"
)

// Timetable dumps a conference's timetable export as JSON.
func (a *App) Timetable(ctx context.Context, args []string) error {
	return a.dumpExport(ctx, args, "timetable", (*eventapi.Client).Timetable)
}

// Contributions dumps a conference's contribution export as JSON.
func (a *App) Contributions(ctx context.Context, args []string) error {
	return a.dumpExport(ctx, args, "contributions", (*eventapi.Client).Contributions)
}

func (a *App) dumpExport(ctx context.Context, args []string, name string, fetch func(*eventapi.Client, context.Context, int) (json.RawMessage, error)) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: %s <conference>", name)
	}
	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	data, err := fetch(client, ctx, conference)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\n", data)
	return nil
}

var swapKeys = map[string]eventapi.SwapKey{
	"cid": eventapi.SwapByContribution,
	"tid": eventapi.SwapByTimetableID,
	"aid": eventapi.SwapByFriendlyID,
}

// Swap exchanges the time slots of two timetable entries.
func (a *App) Swap(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("swap", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	idType := fs.String("type", "cid", "id type: cid (contribution), tid (timetable), aid (friendly)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("usage: swap [-type cid|tid|aid] <conference> <a> <b>")
	}

	key, ok := swapKeys[*idType]
	if !ok {
		return fmt.Errorf("unknown id type %q, expected cid, tid or aid", *idType)
	}

	conference, err := atoiArg("conference", fs.Arg(0))
	if err != nil {
		return err
	}
	aID, err := atoiArg("a", fs.Arg(1))
	if err != nil {
		return err
	}
	bID, err := atoiArg("b", fs.Arg(2))
	if err != nil {
		return err
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}
	if err := client.SwapTimetable(ctx, conference, aID, bID, key); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "swapped %d and %d\n", aID, bID)
	return nil
}
