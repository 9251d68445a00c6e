package regform

import "fmt"

// AmbiguousFieldError means two enabled form fields share a display title, so
// titles cannot be used as column keys for this form.
type AmbiguousFieldError struct {
	Title string
}

func (e *AmbiguousFieldError) Error() string {
	return "ambiguous field info, use raw field names instead: " + e.Title
}

// UnknownFieldError reports a column or field key the form does not have.
type UnknownFieldError struct {
	Key string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("could not find registration field %q", e.Key)
}

// CoercionError reports an input value that cannot be converted into the
// typed representation a field expects. Batch callers treat it as scoped to
// the row that carried the value.
type CoercionError struct {
	Msg string
}

func (e *CoercionError) Error() string { return e.Msg }

func coerceErrf(format string, args ...any) *CoercionError {
	return &CoercionError{Msg: fmt.Sprintf(format, args...)}
}
