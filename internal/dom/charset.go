package dom

import (
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// charsetReader decodes non-UTF-8 input. Enterprise Architect writes
// windows-1252 by default. Unknown labels fall back to reading the input
// unchanged.
func (d *Document) charsetReader(label string, input io.Reader) (io.Reader, error) {
	d.Charset = strings.ToLower(label)
	enc, err := htmlindex.Get(label)
	if err != nil {
		d.CharsetFallback = true
		return input, nil
	}
	return enc.NewDecoder().Reader(input), nil
}
