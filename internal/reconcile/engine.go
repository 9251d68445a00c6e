// Package reconcile maps rows of external spreadsheet data onto remote
// registrations: resolving emails to registration ids, coercing cell values
// through the form schema, registering missing users on demand, and applying
// one update per row while keeping row failures isolated from each other.
package reconcile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/eventops/confctl/internal/eventapi"
	"github.com/eventops/confctl/internal/logging"
	"github.com/eventops/confctl/internal/regform"
)

// API is the slice of the remote service the engine drives.
type API interface {
	Registrations(ctx context.Context, conference int) ([]eventapi.Registrant, error)
	EditRegistration(ctx context.Context, conference, form, regid int, fields map[string]any, notify bool) error
	ImportRegistrations(ctx context.Context, conference, form int, rows [][]string, notify bool) error
}

// registrationFields are the raw names populated by the batch-registration
// import, in the column order the import endpoint expects (email comes
// last). The first two are required.
var registrationFields = []string{"first_name", "last_name", "affiliation", "position", "phone"}

// Options control one CSV reconciliation run.
type Options struct {
	// Register users whose email has no registration yet.
	Register bool
	// Autodate accepts loosely formatted dates in date-typed cells.
	Autodate bool
	// RawFields means CSV headers are raw field names, not display titles.
	RawFields bool
	// Notify asks the service to email users about the change.
	Notify bool
	// Debug re-raises the first unexpected row error after reporting it.
	Debug bool
}

type Engine struct {
	api API
	log logging.Logger
}

func NewEngine(api API, log logging.Logger) *Engine {
	return &Engine{api: api, log: log}
}

// EditCSV reconciles tabular input against a form's registrations. Rows are
// processed strictly in input order, one remote update per row; a row's
// failure is reported through report and never aborts the batch. The
// returned error is non-nil only for whole-run conditions: an unusable
// input (MissingColumnError), a failed registration batch, or — in debug
// mode — the first unexpected row error.
func (e *Engine) EditCSV(ctx context.Context, conference, form int, index *regform.Index, input io.Reader, opts Options, report func(Outcome)) error {
	emailCol, err := index.ColumnName("email", opts.RawFields)
	if err != nil {
		return err
	}

	header, rows, err := readRows(input)
	if err != nil {
		return err
	}
	if !slices.Contains(header, emailCol) {
		return &MissingColumnError{Column: emailCol}
	}

	resolver := NewResolver(e.api, conference, false, e.log)

	// Emails batch-registered during this run: their registration-borne
	// fields must not be re-submitted as edits below.
	registered := map[string]bool{}
	// Emails whose registration failed: their rows cannot be updated.
	regFailed := map[string]bool{}

	if opts.Register {
		resolver, err = e.registerMissing(ctx, conference, form, index, rows, emailCol,
			resolver, opts, registered, regFailed, report)
		if err != nil {
			return err
		}
	}

	for _, row := range rows {
		email := row[emailCol]
		if regFailed[email] {
			continue
		}

		if err := e.updateRow(ctx, conference, form, index, resolver, header, row, emailCol, registered[email], opts); err != nil {
			report(Outcome{Key: email, Status: StatusFailed, Err: err})
			if opts.Debug && !ExpectedRowError(err) {
				return err
			}
			continue
		}

		status := StatusUpdated
		if registered[email] {
			status = StatusRegistered
		}
		report(Outcome{Key: email, Status: status})
	}

	return nil
}

// registerMissing collects rows whose email has no registration, submits
// them as one import batch and returns a fresh resolver that sees the newly
// issued ids. A row that cannot be registered is reported and remembered in
// regFailed; a failure of the batch itself is fatal for the whole step.
func (e *Engine) registerMissing(ctx context.Context, conference, form int, index *regform.Index, rows []map[string]string, emailCol string, resolver *Resolver, opts Options, registered, regFailed map[string]bool, report func(Outcome)) (*Resolver, error) {
	var batch [][]string
	position := map[string]int{}

	for _, row := range rows {
		email := row[emailCol]
		known, err := resolver.IsKnown(ctx, email)
		if err != nil {
			return nil, err
		}
		if known {
			continue
		}

		record, err := registrationRecord(row, index, opts.RawFields, email)
		if err != nil {
			regFailed[email] = true
			report(Outcome{Key: email, Status: StatusFailed, Err: err})
			continue
		}

		// Later rows for the same email replace the earlier record.
		if idx, dup := position[email]; dup {
			batch[idx] = record
			continue
		}
		position[email] = len(batch)
		batch = append(batch, record)
		registered[email] = true
	}

	if len(batch) == 0 {
		return resolver, nil
	}

	e.log.Info(ctx, "registering new users", "count", len(batch))
	if err := e.api.ImportRegistrations(ctx, conference, form, batch, opts.Notify); err != nil {
		return nil, fmt.Errorf("batch registration: %w", err)
	}

	// The import issued new registration ids; start over with a fresh cache.
	return NewResolver(e.api, conference, false, e.log), nil
}

func (e *Engine) updateRow(ctx context.Context, conference, form int, index *regform.Index, resolver *Resolver, header []string, row map[string]string, emailCol string, justRegistered bool, opts Options) error {
	email := row[emailCol]

	regid, err := resolver.Resolve(ctx, email)
	if err != nil {
		var ierr *IdentityError
		if errors.As(err, &ierr) && !opts.Register {
			return fmt.Errorf("%w, use -register if needed", err)
		}
		return err
	}

	payload := map[string]any{}
	for _, col := range header {
		if col == emailCol {
			continue
		}
		f, err := index.Lookup(col, opts.RawFields)
		if err != nil {
			return err
		}
		if justRegistered && slices.Contains(registrationFields, f.RawName) {
			// Already populated by the registration import.
			continue
		}
		value, include, err := f.Coerce(row[col], regform.CoerceOptions{Autodate: opts.Autodate})
		if err != nil {
			return err
		}
		if include {
			payload[f.RawName] = value
		}
	}

	e.log.Debug(ctx, "updating registration", "regid", regid, "fields", len(payload))
	return e.api.EditRegistration(ctx, conference, form, regid, payload, opts.Notify)
}

// registrationRecord assembles one import row. First and last name columns
// are required; affiliation, position and phone default to empty.
func registrationRecord(row map[string]string, index *regform.Index, raw bool, email string) ([]string, error) {
	record := make([]string, 0, len(registrationFields)+1)

	for i, rawName := range registrationFields {
		required := i < 2

		col, err := index.ColumnName(rawName, raw)
		if err != nil {
			if required {
				return nil, fmt.Errorf("user %s cannot be registered: the form has no %s field", email, rawName)
			}
			record = append(record, "")
			continue
		}

		value, ok := row[col]
		if !ok && required {
			return nil, fmt.Errorf(
				"user %s is not previously registered and the csv has no %q column; at least email, first and last name are required",
				email, col)
		}
		record = append(record, value)
	}

	return append(record, email), nil
}

// readRows reads the input into a header and one ordered column→value map
// per row. A cell missing from a short row is an explicit empty string.
func readRows(input io.Reader) ([]string, []map[string]string, error) {
	r := csv.NewReader(input)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row %d: %w", len(rows)+2, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}
