// Package cli implements the confctl subcommands on top of the eventapi
// client and the reconcile engine.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/eventops/confctl/internal/config"
	"github.com/eventops/confctl/internal/eventapi"
	"github.com/eventops/confctl/internal/logging"
)

// App dispatches subcommands. The API client is created lazily so commands
// that never talk to the service (cleartoken, help) don't trigger a token
// prompt.
type App struct {
	config *config.Config
	log    logging.Logger
	out    io.Writer
	errOut io.Writer

	client *eventapi.Client
}

func NewApp(c *config.Config, log logging.Logger, out, errOut io.Writer) *App {
	return &App{config: c, log: log, out: out, errOut: errOut}
}

func (a *App) api(ctx context.Context) (*eventapi.Client, error) {
	if a.client != nil {
		return a.client, nil
	}

	endpoint, err := a.config.Endpoint()
	if err != nil {
		return nil, err
	}

	token, err := a.token()
	if err != nil {
		return nil, err
	}

	client, err := eventapi.NewClient(endpoint, token, a.log)
	if err != nil {
		return nil, err
	}

	a.log.Debug(ctx, "api client ready", "endpoint", endpoint)
	a.client = client
	return client, nil
}

// Run executes one subcommand. args holds the subcommand name followed by
// its arguments, with the global flags already stripped.
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.usage()
		return fmt.Errorf("no command given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "regeditcsv":
		return a.RegEditCSV(ctx, rest)
	case "regedit":
		return a.RegEdit(ctx, rest)
	case "regfields":
		return a.RegFields(ctx, rest)
	case "regquery":
		return a.RegQuery(ctx, rest)
	case "adduser":
		return a.AddUser(ctx, rest)
	case "groupadduser":
		return a.GroupAddUser(ctx, rest)
	case "timetable":
		return a.Timetable(ctx, rest)
	case "contributions":
		return a.Contributions(ctx, rest)
	case "submitcheck":
		return a.SubmitCheck(ctx, rest)
	case "overlap":
		return a.Overlap(ctx, rest)
	case "contriblink":
		return a.ContribLink(ctx, rest)
	case "swap":
		return a.Swap(ctx, rest)
	case "emaillog":
		return a.EmailLog(ctx, rest)
	case "cleartoken":
		return a.ClearToken(ctx, rest)
	case "help":
		a.usage()
		return nil
	default:
		a.usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) usage() {
	fmt.Fprint(a.errOut, `usage: confctl [-e env] [-url url] [-config file] [-debug] <command> [args]

commands:
  regeditcsv <conference> <regform> <file.csv>   reconcile registrations with a CSV file
  regedit <conference> <regform> <id|email>...   edit fields of single registrations
  regfields <conference> <regform>               list the fields of a registration form
  regquery <conference> <regform>                query registrations by field values
  adduser <email> <first> <last> [affiliation]   create a user account
  groupadduser <group> <id|email>...             add users to a group
  timetable <conference>                         dump the timetable as JSON
  contributions <conference>                     dump the contribution list as JSON
  submitcheck <conference>                       find contributors missing the submitter role
  overlap <conference>                           check for schedule conflicts
  contriblink <conference> <id> <url> <title>    attach a link to a contribution
  swap <conference> <a> <b>                      swap two timetable slots
  emaillog <conference> <query>                  list recipients from the email log
  cleartoken                                     forget the stored API token
`)
}

// atoiArg converts a positional argument that must be numeric, naming it in
// the error.
func atoiArg(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, value)
	}
	return n, nil
}
