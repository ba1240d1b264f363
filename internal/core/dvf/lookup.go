package dvf

// Lookup translates a code to a label
type Lookup interface {
	Label(code string) (string, bool)
}

// MapLookup is an in-memory Lookup
type MapLookup map[string]string

// Label implements Lookup
func (m MapLookup) Label(code string) (string, bool) {
	l, ok := m[code]
	return l, ok
}

// LabelOr returns the label for code, or def when code is unknown or l is nil
func LabelOr(l Lookup, code, def string) string {
	if l == nil {
		return def
	}
	if label, ok := l.Label(code); ok {
		return label
	}
	return def
}
