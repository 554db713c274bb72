package source

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Encoding names a source text encoding. The zero value behaves like UTF8.
type Encoding struct {
	Name string
	enc  encoding.Encoding
}

// UTF8 passes bytes through unchanged.
var UTF8 = Encoding{Name: "utf-8"}

var encodings = map[string]Encoding{
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"latin1":       {Name: "latin1", enc: charmap.ISO8859_1},
	"iso-8859-1":   {Name: "latin1", enc: charmap.ISO8859_1},
	"windows-1252": {Name: "windows-1252", enc: charmap.Windows1252},
	"cp1252":       {Name: "windows-1252", enc: charmap.Windows1252},
}

// LookupEncoding resolves a case-insensitive encoding name.
func LookupEncoding(name string) (Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return UTF8, nil
	}
	if e, ok := encodings[key]; ok {
		return e, nil
	}
	return Encoding{}, fmt.Errorf("unknown encoding %q (supported: %s)", name, strings.Join(EncodingNames(), ", "))
}

// EncodingNames lists the accepted encoding names in sorted order.
func EncodingNames() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsUTF8 reports whether the encoding is the identity transform.
func (e Encoding) IsUTF8() bool {
	return e.enc == nil
}

// Reader wraps r so that reads yield UTF-8.
func (e Encoding) Reader(r io.Reader) io.Reader {
	if e.enc == nil {
		return r
	}
	return transform.NewReader(r, e.enc.NewDecoder())
}

// Decode converts raw bytes to UTF-8.
func (e Encoding) Decode(raw []byte) ([]byte, error) {
	if e.enc == nil {
		return raw, nil
	}
	out, _, err := transform.Bytes(e.enc.NewDecoder(), raw)
	return out, err
}
