package reconcile

import (
	"context"
	"fmt"
	"strconv"

	"github.com/eventops/confctl/internal/regform"
)

// FieldValue is one explicit field override, as passed with -set.
type FieldValue struct {
	Field string
	Value string
}

// EditOptions control a single-registration edit run.
type EditOptions struct {
	// AllowEmail permits changing the email field, normally the immutable
	// identity key.
	AllowEmail bool
	RawFields  bool
	Autodate   bool
	Notify     bool
	// All applies the overrides to every registrant of the conference
	// instead of resolving tokens.
	All   bool
	Debug bool
}

// EditRegistrations applies explicit field overrides to a list of
// registrations named by numeric id or by email. Token resolution and
// override coercion failures are fatal up front — the overrides apply
// identically to every registration, so a bad one would fail every row.
// Remote failures stay row-scoped and are reported per registration id.
func (e *Engine) EditRegistrations(ctx context.Context, conference, form int, index *regform.Index, tokens []string, sets []FieldValue, opts EditOptions, report func(Outcome)) error {
	regids, err := e.resolveTokens(ctx, conference, tokens, opts.All)
	if err != nil {
		return err
	}

	payload := map[string]any{}
	for _, set := range sets {
		f, err := index.Lookup(set.Field, opts.RawFields)
		if err != nil {
			return err
		}
		value, include, err := f.Coerce(set.Value, regform.CoerceOptions{
			Autodate:   opts.Autodate,
			AllowEmail: opts.AllowEmail,
		})
		if err != nil {
			return fmt.Errorf("field %q: %w", set.Field, err)
		}
		if include {
			payload[f.RawName] = value
		}
	}

	for _, regid := range regids {
		key := strconv.Itoa(regid)
		if err := e.api.EditRegistration(ctx, conference, form, regid, payload, opts.Notify); err != nil {
			report(Outcome{Key: key, Status: StatusFailed, Err: err})
			if opts.Debug && !ExpectedRowError(err) {
				return err
			}
			continue
		}
		report(Outcome{Key: key, Status: StatusUpdated})
	}

	return nil
}

func (e *Engine) resolveTokens(ctx context.Context, conference int, tokens []string, all bool) ([]int, error) {
	if all {
		regs, err := e.api.Registrations(ctx, conference)
		if err != nil {
			return nil, fmt.Errorf("loading registration list: %w", err)
		}
		regids := make([]int, 0, len(regs))
		for _, reg := range regs {
			regids = append(regids, reg.RegistrantID)
		}
		return regids, nil
	}

	resolver := NewResolver(e.api, conference, true, e.log)

	regids := make([]int, 0, len(tokens))
	for _, token := range tokens {
		if id, err := strconv.Atoi(token); err == nil {
			regids = append(regids, id)
			continue
		}
		id, err := resolver.Resolve(ctx, token)
		if err != nil {
			return nil, err
		}
		regids = append(regids, id)
	}
	return regids, nil
}
