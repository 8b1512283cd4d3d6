package placement

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
)

// element is the generic document tree the grammar is applied to.
type element struct {
	name     string
	attrs    []attribute
	children []*element
}

type attribute struct {
	name  string
	value string
}

// readElement decodes exactly one root element from r. Namespace
// declarations are dropped. Comments and processing instructions are
// ignored, and so is character data inside the root. Text outside the root
// element makes the document malformed.
func readElement(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var (
		root  *element
		stack []*element
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil && len(stack) == 0 {
				return nil, fmt.Errorf("unexpected second root element <%s>", t.Name.Local)
			}
			e, err := newElement(t)
			if err != nil {
				return nil, err
			}
			if len(stack) == 0 {
				root = e
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 0 && len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("unexpected text %q outside the root element", bytes.TrimSpace(t))
			}
		}
	}

	if root == nil {
		return nil, errors.New("document has no root element")
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("element <%s> is not closed", stack[len(stack)-1].name)
	}
	return root, nil
}

func newElement(t xml.StartElement) (*element, error) {
	e := &element{name: t.Name.Local}
	seen := make(map[string]struct{}, len(t.Attr))
	for _, a := range t.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		if _, dup := seen[a.Name.Local]; dup {
			return nil, fmt.Errorf("duplicate attribute %q on <%s>", a.Name.Local, e.name)
		}
		seen[a.Name.Local] = struct{}{}
		e.attrs = append(e.attrs, attribute{name: a.Name.Local, value: a.Value})
	}
	return e, nil
}

// charsetReader decodes documents declaring a non UTF-8 encoding, e.g.
// <?xml version="1.0" encoding="windows-1252"?>.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}
