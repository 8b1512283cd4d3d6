package display

import (
	"html/template"
	"strings"
	"sync"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Content is rendered markup. A nil Content means nothing was rendered.
type Content interface {
	HTML() template.HTML
}

// HTMLString is Content backed by a string of trusted markup.
type HTMLString string

func (s HTMLString) HTML() template.HTML { return template.HTML(s) }
func (s HTMLString) String() string      { return string(s) }

// String returns the markup of c, or "" for absent content.
func String(c Content) string {
	if c == nil {
		return ""
	}
	return string(c.HTML())
}

// TextCollector is an in-memory writer that collects rendered text. It
// carries the encoding of the writer the text will eventually reach, so
// nested renders inherit it. It must be closed once the content has been
// taken.
type TextCollector struct {
	mu     sync.Mutex
	enc    encoding.Encoding
	buf    strings.Builder
	closed bool
}

// NewTextCollector creates a collector for text bound to enc. A nil enc
// means UTF-8.
func NewTextCollector(enc encoding.Encoding) *TextCollector {
	if enc == nil {
		enc = unicode.UTF8
	}
	return &TextCollector{enc: enc}
}

func (c *TextCollector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return 0, errCollectorClosed
	}
	return c.buf.Write(p)
}

// Encoding returns the encoding the collected text is destined for.
func (c *TextCollector) Encoding() encoding.Encoding { return c.enc }

// Content returns what has been collected so far.
func (c *TextCollector) Content() Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	return HTMLString(c.buf.String())
}

// Close releases the buffer. Further writes fail.
func (c *TextCollector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.buf.Reset()
	return nil
}
