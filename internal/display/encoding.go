package display

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// LookupEncoding resolves a WHATWG encoding label such as "utf-8" or
// "windows-1252". An empty label means UTF-8.
func LookupEncoding(label string) (encoding.Encoding, error) {
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// EncodingName returns the canonical label of enc.
func EncodingName(enc encoding.Encoding) string {
	if enc == nil {
		return "utf-8"
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return "utf-8"
	}
	return name
}

// NewEncodingWriter returns a writer that transcodes UTF-8 text into enc
// before writing it to w. Close flushes buffered output.
func NewEncodingWriter(w io.Writer, enc encoding.Encoding) io.WriteCloser {
	if enc == nil || enc == unicode.UTF8 {
		return nopCloser{w}
	}
	return transform.NewWriter(w, encoding.HTMLEscapeUnsupported(enc.NewEncoder()))
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
