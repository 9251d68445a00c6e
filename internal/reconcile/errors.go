package reconcile

import (
	"errors"
	"fmt"

	"github.com/eventops/confctl/internal/eventapi"
	"github.com/eventops/confctl/internal/regform"
)

// IdentityError reports an email or id with no registration behind it.
type IdentityError struct {
	Key string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("user %s is not registered", e.Key)
}

// MissingColumnError means the CSV input lacks a column the run cannot work
// without. It is fatal for the whole run.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing %q column in csv file", e.Column)
}

// ExpectedRowError reports whether err is an anticipated per-row condition —
// a bad value, an unknown column, an unknown user — as opposed to an
// unexpected failure such as a transport error. Debug mode re-raises only
// the unexpected kind.
func ExpectedRowError(err error) bool {
	var cerr *regform.CoercionError
	var uerr *regform.UnknownFieldError
	var ierr *IdentityError
	return errors.As(err, &cerr) || errors.As(err, &uerr) || errors.As(err, &ierr)
}

func errorCategory(err error) string {
	var rerr *eventapi.RemoteError
	switch {
	case errors.As(err, &rerr):
		return "RemoteError"
	case errors.Is(err, eventapi.ErrTokenExpired):
		return "TokenExpired"
	default:
		return "UnexpectedError"
	}
}
