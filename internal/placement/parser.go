package placement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/vfs"
)

// ParseError reports a placement document that is not well-formed XML.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed placement document: %v", e.Err)
	}
	return fmt.Sprintf("malformed placement document %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser reads placement documents from a virtual file system.
type Parser struct {
	fs vfs.FileSystem

	// DisableMonitoring is a hint for caching collaborators; it does not
	// change how documents are parsed.
	DisableMonitoring bool
}

// NewParser creates a Parser reading from fs.
func NewParser(fs vfs.FileSystem) *Parser {
	return &Parser{fs: fs}
}

// Load parses the document at path. It returns (nil, nil) when no file
// exists there.
func (p *Parser) Load(ctx context.Context, path string) (*File, error) {
	logger := ctxlog.FromContext(ctx)
	if !p.fs.Exists(path) {
		logger.Debug("Placement file not found.", "path", path)
		return nil, nil
	}

	rc, err := p.fs.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	file, err := Parse(rc)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	logger.Debug("Placement file parsed.", "path", path, "nodes", len(file.Nodes))
	return file, nil
}

// ParseText parses an in-memory document. A nil text yields (nil, nil).
func (p *Parser) ParseText(text *string) (*File, error) {
	if text == nil {
		return nil, nil
	}
	return ParseString(*text)
}

// ParseString parses an in-memory document.
func ParseString(text string) (*File, error) {
	return Parse(strings.NewReader(text))
}

// Parse reads one document from r and builds its placement tree.
func Parse(r io.Reader) (*File, error) {
	root, err := readElement(r)
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return &File{Nodes: accept(root)}, nil
}

type elementKind int

const (
	elementOther elementKind = iota
	elementMatch
	elementPlace
)

func classify(name string) elementKind {
	switch name {
	case "Placement", "Match":
		return elementMatch
	case "Place":
		return elementPlace
	default:
		return elementOther
	}
}

func accept(e *element) []Node {
	switch classify(e.name) {
	case elementMatch:
		return acceptMatch(e)
	case elementPlace:
		return acceptPlace(e)
	default:
		return nil
	}
}

func acceptChildren(e *element) []Node {
	var nodes []Node
	for _, child := range e.children {
		nodes = append(nodes, accept(child)...)
	}
	return nodes
}

func acceptMatch(e *element) []Node {
	if len(e.attrs) == 0 {
		return acceptChildren(e)
	}

	terms := make(map[string]string, len(e.attrs))
	for _, attr := range e.attrs {
		terms[attr.name] = attr.value
	}
	return []Node{&Match{Terms: terms, Nodes: acceptChildren(e)}}
}

func acceptPlace(e *element) []Node {
	nodes := make([]Node, 0, len(e.attrs))
	for _, attr := range e.attrs {
		nodes = append(nodes, &ShapeLocation{ShapeType: attr.name, Location: attr.value})
	}
	return nodes
}
