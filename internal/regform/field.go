// Package regform models a conference registration form: the schema of its
// fields, a lookup index over them, and the conversion of raw text values
// into the typed payloads the remote form expects.
package regform

// InputType is the remote form's tag for a field's kind.
type InputType string

const (
	TypeBool          InputType = "bool"
	TypeCheckbox      InputType = "checkbox"
	TypeSingleChoice  InputType = "single_choice"
	TypeMultiChoice   InputType = "multi_choice"
	TypeCountry       InputType = "country"
	TypeAccommodation InputType = "accommodation"
	TypeText          InputType = "text"
	TypeTextarea      InputType = "textarea"
	TypePhone         InputType = "phone"
	TypeNumber        InputType = "number"
	TypeEmail         InputType = "email"
	TypeDate          InputType = "date"
)

// Choice is one selectable option of a choice-like field. Country choices use
// CountryKey, accommodation choices use ID and IsNoAccommodation.
type Choice struct {
	ID                string `json:"id"`
	Caption           string `json:"caption"`
	CountryKey        string `json:"countryKey"`
	IsNoAccommodation bool   `json:"isNoAccommodation"`
}

// Field is one enabled form field. Captions and Choices are kept for listing
// the form to an operator; coercion state lives in the kind.
type Field struct {
	RawName  string
	Title    string
	Type     InputType
	Captions map[string]string
	Choices  []Choice

	kind kind
}

// CoerceOptions adjust value conversion.
//
// Autodate enables lenient date parsing. AllowEmail permits changing the
// email field, which is normally the immutable identity key and is silently
// left alone.
type CoerceOptions struct {
	Autodate   bool
	AllowEmail bool
}

// kind is the type-specific coercion behavior behind a Field. Each
// implementation carries only the data its rule needs. The returned bool
// reports whether the value belongs in the update payload at all: some kinds
// (email without AllowEmail, an empty accommodation value) leave the field
// unset instead of writing a zero value.
type kind interface {
	coerce(f *Field, value string, opts CoerceOptions) (any, bool, error)
}

// Coerce converts a raw text value into the representation the remote form
// expects for this field. It is a pure function of the value, the options and
// the field's precomputed lookup tables.
func (f *Field) Coerce(value string, opts CoerceOptions) (any, bool, error) {
	if f.kind == nil {
		return nil, false, coerceErrf("unhandled field type: %s", f.Type)
	}
	return f.kind.coerce(f, value, opts)
}
