package shapes

import (
	"strings"

	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/extensions"
	"github.com/690486439/Orchard2/internal/placement"
)

// Binding binds a shape type, or one of its alternates, to a render
// delegate.
type Binding struct {
	// Name is the full shape type the binding answers to, e.g.
	// "parts_title__summary".
	Name string
	// Source is where the binding came from, typically a template path.
	Source  string
	Feature *extensions.FeatureDescriptor
	Render  display.RenderFunc
}

type placementRule struct {
	predicate placement.Predicate
	info      placement.Info
}

// Descriptor gathers everything known about one shape type: the bindings
// of the type and its alternates, and its placement rules.
type Descriptor struct {
	ShapeType string
	Bindings  map[string]*Binding
	// Feature is the feature of the last alteration applied.
	Feature *extensions.FeatureDescriptor

	placements []placementRule
}

func newDescriptor(shapeType string) *Descriptor {
	return &Descriptor{ShapeType: shapeType, Bindings: make(map[string]*Binding)}
}

// Placement returns the placement of the most recently added rule whose
// predicate holds for ctx.
func (d *Descriptor) Placement(ctx placement.Context) (placement.Info, bool) {
	for i := len(d.placements) - 1; i >= 0; i-- {
		if d.placements[i].predicate(ctx) {
			return d.placements[i].info, true
		}
	}
	return placement.Info{}, false
}

// descriptorKey returns the shape type a binding name belongs to: the part
// before the first "__".
func descriptorKey(name string) string {
	key, _, _ := strings.Cut(name, "__")
	return strings.ToLower(key)
}

func bindingKey(name string) string {
	return strings.ToLower(name)
}
