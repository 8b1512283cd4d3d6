package shapes

import (
	"maps"
	"slices"

	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/placement"
)

// Table is the built, read-only shape table of a shell.
type Table struct {
	descriptors map[string]*Descriptor
	bindings    map[string]*Binding
}

func newTable() *Table {
	return &Table{
		descriptors: make(map[string]*Descriptor),
		bindings:    make(map[string]*Binding),
	}
}

func (t *Table) index() {
	for _, d := range t.descriptors {
		maps.Copy(t.bindings, d.Bindings)
	}
}

// Descriptor returns the descriptor of shapeType.
func (t *Table) Descriptor(shapeType string) (*Descriptor, bool) {
	d, ok := t.descriptors[descriptorKey(shapeType)]
	return d, ok
}

// Descriptors returns every descriptor ordered by shape type.
func (t *Table) Descriptors() []*Descriptor {
	keys := slices.Sorted(maps.Keys(t.descriptors))
	out := make([]*Descriptor, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.descriptors[k])
	}
	return out
}

// Lookup returns the binding registered under name. Names are
// case-insensitive.
func (t *Table) Lookup(name string) (*Binding, bool) {
	b, ok := t.bindings[bindingKey(name)]
	return b, ok
}

// Bindings returns every binding ordered by name.
func (t *Table) Bindings() []*Binding {
	keys := slices.Sorted(maps.Keys(t.bindings))
	out := make([]*Binding, 0, len(keys))
	for _, k := range keys {
		out = append(out, t.bindings[k])
	}
	return out
}

// Binding implements display.Bindings.
func (t *Table) Binding(name string) (display.RenderFunc, bool) {
	b, ok := t.Lookup(name)
	if !ok {
		return nil, false
	}
	return b.Render, true
}

// Place implements display.Bindings.
func (t *Table) Place(shapeType string, pctx placement.Context) (placement.Info, bool) {
	d, ok := t.Descriptor(shapeType)
	if !ok {
		return placement.Info{}, false
	}
	return d.Placement(pctx)
}
