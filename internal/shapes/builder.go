package shapes

import (
	"cmp"
	"slices"

	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/extensions"
	"github.com/690486439/Orchard2/internal/placement"
)

// TableBuilder collects shape alterations during one discovery pass. A
// builder belongs to a single shell and a single pass.
type TableBuilder struct {
	alterations []*AlterationBuilder
}

// NewTableBuilder creates an empty builder.
func NewTableBuilder() *TableBuilder {
	return &TableBuilder{}
}

// Describe starts an alteration of shapeType.
func (b *TableBuilder) Describe(shapeType string) *AlterationBuilder {
	a := &AlterationBuilder{shapeType: shapeType}
	b.alterations = append(b.alterations, a)
	return a
}

// Len returns the number of alterations described so far.
func (b *TableBuilder) Len() int { return len(b.alterations) }

// AlterationBuilder configures one alteration of a shape descriptor.
type AlterationBuilder struct {
	shapeType  string
	feature    *extensions.FeatureDescriptor
	configures []func(*Descriptor)
}

// From attributes the alteration to feature.
func (a *AlterationBuilder) From(feature *extensions.FeatureDescriptor) *AlterationBuilder {
	a.feature = feature
	return a
}

// Configure adds an arbitrary change to the descriptor.
func (a *AlterationBuilder) Configure(fn func(*Descriptor)) *AlterationBuilder {
	a.configures = append(a.configures, fn)
	return a
}

// BoundAs binds the shape type to the render delegate produced by factory.
// The factory is called when the table is built, with the final descriptor.
func (a *AlterationBuilder) BoundAs(source string, factory func(*Descriptor) display.RenderFunc) *AlterationBuilder {
	name, feature := a.shapeType, a.feature
	return a.Configure(func(d *Descriptor) {
		d.Bindings[bindingKey(name)] = &Binding{
			Name:    name,
			Source:  source,
			Feature: feature,
			Render:  factory(d),
		}
	})
}

// Placement adds a placement rule applying info when predicate holds.
func (a *AlterationBuilder) Placement(predicate placement.Predicate, info placement.Info) *AlterationBuilder {
	if predicate == nil {
		predicate = placement.Always
	}
	return a.Configure(func(d *Descriptor) {
		d.placements = append(d.placements, placementRule{predicate: predicate, info: info})
	})
}

// Build applies the alterations of the enabled features, in feature order,
// and returns the resulting table. Alterations from features that are not
// enabled are ignored; alterations without a feature apply first.
func (b *TableBuilder) Build(features []*extensions.FeatureDescriptor) *Table {
	rank := make(map[string]int, len(features))
	for i, f := range features {
		rank[f.ID] = i + 1
	}

	applicable := make([]*AlterationBuilder, 0, len(b.alterations))
	for _, a := range b.alterations {
		if a.feature != nil && rank[a.feature.ID] == 0 {
			continue
		}
		applicable = append(applicable, a)
	}
	slices.SortStableFunc(applicable, func(x, y *AlterationBuilder) int {
		return cmp.Compare(x.rank(rank), y.rank(rank))
	})

	t := newTable()
	for _, a := range applicable {
		key := descriptorKey(a.shapeType)
		d, ok := t.descriptors[key]
		if !ok {
			d = newDescriptor(key)
			t.descriptors[key] = d
		}
		d.Feature = a.feature
		for _, fn := range a.configures {
			fn(d)
		}
	}
	t.index()
	return t
}

func (a *AlterationBuilder) rank(ranks map[string]int) int {
	if a.feature == nil {
		return 0
	}
	return ranks[a.feature.ID]
}
