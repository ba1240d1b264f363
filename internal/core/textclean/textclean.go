// Package textclean cleans raw source values before they reach the field mapping
// Pipeline order
// 1 drop invalid UTF-8 bytes
// 2 drop C0/C1 control characters and DEL
// 3 Unicode NFC composition (old archives mix decomposed accents)
package textclean

import (
	"io"
	"strings"
	"sync"
	"unicode"

	perr "dvf/internal/platform/errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// pool of fresh transformer chains; a chain carries state and is not goroutine safe
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Remove(runes.Predicate(unicode.IsControl)),
			norm.NFC,
		)
	},
}

// Clean returns s with invalid bytes and control characters removed, NFC composed.
// Printable ASCII, which is nearly every DVF value, is returned unchanged without allocating.
func Clean(s string) string {
	if isPrintableASCII(s) {
		return s
	}
	s = strings.ToValidUTF8(s, "")

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return s
	}
	return out
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c < 0x20 || c >= 0x7F {
			return false
		}
	}
	return true
}

// Encodings accepted for source archives
var encodings = map[string]encoding.Encoding{
	"windows-1252": charmap.Windows1252,
	"cp1252":       charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
	"latin1":       charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
}

// ValidEncoding reports whether name is "", "utf-8" or a supported single byte charset
func ValidEncoding(name string) bool {
	_, err := lookup(name)
	return err == nil
}

func lookup(name string) (encoding.Encoding, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" || n == "utf-8" || n == "utf8" {
		return nil, nil
	}
	if e, ok := encodings[n]; ok {
		return e, nil
	}
	return nil, perr.InvalidArgf("unsupported source encoding %q", name)
}

// NewReader wraps r so it yields UTF-8; "" and "utf-8" return r untouched
func NewReader(r io.Reader, name string) (io.Reader, error) {
	enc, err := lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return r, nil
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
