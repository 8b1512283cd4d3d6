package display

import "github.com/690486439/Orchard2/internal/placement"

// Metadata describes how a shape is displayed.
type Metadata struct {
	Type        string
	DisplayType string
	// Alternates are tried last first before Type.
	Alternates []string
	// Wrappers are rendered around the shape's own output, innermost first.
	Wrappers []string
	Zone     string
	Position string
	// ChildContent holds the inner output while a wrapper renders.
	ChildContent Content
}

// Shape is a unit of display: a type plus arbitrary properties.
type Shape struct {
	Metadata   Metadata
	Properties map[string]any
}

// NewShape creates a shape of the given type.
func NewShape(shapeType string, props map[string]any) *Shape {
	if props == nil {
		props = make(map[string]any)
	}
	return &Shape{Metadata: Metadata{Type: shapeType}, Properties: props}
}

// Apply merges placement info into the shape's metadata.
func (s *Shape) Apply(info placement.Info) {
	if info.Hidden() {
		s.Metadata.Zone = ""
		s.Metadata.Position = ""
	} else if info.Location != "" {
		s.Metadata.Zone = info.Zone()
		s.Metadata.Position = info.Position()
	}
	s.Metadata.Alternates = append(s.Metadata.Alternates, info.Alternates...)
	s.Metadata.Wrappers = append(s.Metadata.Wrappers, info.Wrappers...)
	if info.ShapeType != "" {
		s.Metadata.Type = info.ShapeType
	}
}
