package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

const keyringService = "confctl"

// promptToken is an indirection used to facilitate testing. It points to the
// interactive token prompt and can be swapped in tests.
var promptToken = readTokenFromTerminal

// token returns the API token for the configured environment: from the
// system keyring when present, otherwise prompted interactively and stored
// for next time.
func (a *App) token() (string, error) {
	key := "token." + a.config.Env

	token, err := keyring.Get(keyringService, key)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("read token from keyring: %w", err)
	}

	token, err = promptToken(a.config.Env)
	if err != nil {
		return "", err
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("no token given for %s", a.config.Env)
	}

	if err := keyring.Set(keyringService, key, token); err != nil {
		return "", fmt.Errorf("store token in keyring: %w", err)
	}
	return token, nil
}

func readTokenFromTerminal(env string) (string, error) {
	fmt.Fprintf(os.Stderr, "Enter token for %s: ", env)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(data), nil
}

// ClearToken forgets the stored token of the configured environment, used
// after it expired or was revoked.
func (a *App) ClearToken(_ context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: cleartoken")
	}

	err := keyring.Delete(keyringService, "token."+a.config.Env)
	if errors.Is(err, keyring.ErrNotFound) {
		fmt.Fprintf(a.out, "no token stored for %s\n", a.config.Env)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete token from keyring: %w", err)
	}
	fmt.Fprintf(a.out, "token for %s cleared\n", a.config.Env)
	return nil
}
