package cli

import (
	"context"
	"flag"
	"fmt"
	"slices"
	"strconv"
)

// AddUser creates a user account.
func (a *App) AddUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 || fs.NArg() > 4 {
		return fmt.Errorf("usage: adduser <email> <first> <last> [affiliation]")
	}
	email, first, last := fs.Arg(0), fs.Arg(1), fs.Arg(2)
	affiliation := fs.Arg(3)

	client, err := a.api(ctx)
	if err != nil {
		return err
	}

	if existing, err := client.SearchUser(ctx, email); err != nil {
		return err
	} else if len(existing) > 0 {
		return fmt.Errorf("user %s already exists (id %d)", email, existing[0].ID)
	}

	if err := client.AddUser(ctx, email, first, last, affiliation); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user %s created\n", email)
	return nil
}

// GroupAddUser adds users, named by id or email, to a group named by id or
// name. Users that cannot be found are warned about and skipped; the group
// edit happens only when it would actually change the member list.
func (a *App) GroupAddUser(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("groupadduser", flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: groupadduser <group> <id|email>...")
	}

	client, err := a.api(ctx)
	if err != nil {
		return err
	}

	group, err := a.resolveGroup(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	var userIDs []int
	for _, token := range fs.Args()[1:] {
		if id, err := strconv.Atoi(token); err == nil {
			userIDs = append(userIDs, id)
			continue
		}
		users, err := client.SearchUser(ctx, token)
		if err != nil {
			return err
		}
		if len(users) == 0 {
			a.log.Warn(ctx, "no user found, skipping", "email", token)
			continue
		}
		userIDs = append(userIDs, users[0].ID)
	}
	if len(userIDs) == 0 {
		return fmt.Errorf("none of the given users could be found")
	}

	members, err := client.GroupMembers(ctx, group)
	if err != nil {
		return err
	}

	added := 0
	for _, id := range userIDs {
		if !slices.Contains(members, id) {
			members = append(members, id)
			added++
		}
	}
	if added == 0 {
		fmt.Fprintln(a.out, "all users are already members")
		return nil
	}

	if err := client.EditGroup(ctx, group, members); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d users added\n", added)
	return nil
}

func (a *App) resolveGroup(ctx context.Context, token string) (int, error) {
	if id, err := strconv.Atoi(token); err == nil {
		return id, nil
	}

	client, err := a.api(ctx)
	if err != nil {
		return 0, err
	}
	groups, err := client.SearchGroup(ctx, token, true)
	if err != nil {
		return 0, err
	}
	if len(groups) == 0 {
		return 0, fmt.Errorf("no group named %q", token)
	}
	return groups[0].ID, nil
}
