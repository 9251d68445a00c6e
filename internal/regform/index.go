package regform

// Index is a queryable view over a form's fields, addressable by display
// title or by raw machine name. Raw names are canonical and never collide;
// titles are only usable if no two enabled fields share one.
type Index struct {
	byTitle map[string]*Field
	byRaw   map[string]*Field
	fields  []*Field
}

// NewIndex builds the index. It fails with an AmbiguousFieldError when two
// fields collapse to the same display title, in which case the caller should
// switch to raw field names: with raw set, titles are not indexed at all and
// colliding titles are no obstacle.
func NewIndex(fields []Field, raw bool) (*Index, error) {
	ix := &Index{
		byTitle: make(map[string]*Field, len(fields)),
		byRaw:   make(map[string]*Field, len(fields)),
		fields:  make([]*Field, 0, len(fields)),
	}

	for i := range fields {
		f := &fields[i]
		if !raw {
			if _, dup := ix.byTitle[f.Title]; dup {
				return nil, &AmbiguousFieldError{Title: f.Title}
			}
			ix.byTitle[f.Title] = f
		}
		ix.byRaw[f.RawName] = f
		ix.fields = append(ix.fields, f)
	}

	return ix, nil
}

// Lookup resolves a column key to its field, by raw name when raw is set and
// by display title otherwise.
func (ix *Index) Lookup(key string, raw bool) (*Field, error) {
	m := ix.byTitle
	if raw {
		m = ix.byRaw
	}
	f, ok := m[key]
	if !ok {
		return nil, &UnknownFieldError{Key: key}
	}
	return f, nil
}

// ColumnName returns the CSV header name for a well-known field: the raw name
// itself in raw mode, the display title otherwise.
func (ix *Index) ColumnName(rawName string, raw bool) (string, error) {
	f, ok := ix.byRaw[rawName]
	if !ok {
		return "", &UnknownFieldError{Key: rawName}
	}
	if raw {
		return f.RawName, nil
	}
	return f.Title, nil
}

// Fields returns the indexed fields in raw-name order.
func (ix *Index) Fields() []*Field {
	return ix.fields
}
