package display

import (
	"context"
	"errors"
	"fmt"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/placement"
)

// ErrShapeNotBound is returned when neither a shape's type nor any of its
// alternates has a binding.
var ErrShapeNotBound = errors.New("shape is not bound")

// Bindings is the view of a shape table the Manager needs.
type Bindings interface {
	// Binding returns the render delegate registered under name.
	Binding(name string) (RenderFunc, bool)
	// Place returns the placement for a shape type in the given context.
	Place(shapeType string, pctx placement.Context) (placement.Info, bool)
}

// Manager displays shapes using the bindings of one shell.
type Manager struct {
	bindings Bindings
}

// NewManager creates a display manager over bindings.
func NewManager(bindings Bindings) *Manager {
	return &Manager{bindings: bindings}
}

// Place applies the placement registered for shape in pctx, if any, and
// returns it.
func (m *Manager) Place(shape *Shape, pctx placement.Context) (placement.Info, bool) {
	if pctx.DisplayType == "" {
		pctx.DisplayType = shape.Metadata.DisplayType
	}
	info, ok := m.bindings.Place(shape.Metadata.Type, pctx)
	if ok {
		shape.Apply(info)
	}
	return info, ok
}

// Execute renders shape. Alternates are tried from the last one added back
// to the first, then the shape type itself. Wrappers are rendered around
// the result in order, each seeing the previous output as ChildContent.
func (m *Manager) Execute(ctx context.Context, shape *Shape, vc *ViewContext) (Content, error) {
	logger := ctxlog.FromContext(ctx)

	render, name, ok := m.resolve(shape)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrShapeNotBound, shape.Metadata.Type)
	}
	logger.Debug("Displaying shape.", "shape", shape.Metadata.Type, "binding", name)

	dc := &DisplayContext{ViewContext: vc, Value: shape, Shape: shape}
	content, err := render(ctx, dc)
	if err != nil {
		return nil, fmt.Errorf("display %s: %w", name, err)
	}

	for _, wrapper := range shape.Metadata.Wrappers {
		wrap, ok := m.bindings.Binding(wrapper)
		if !ok {
			logger.Warn("Wrapper is not bound, skipping.", "shape", shape.Metadata.Type, "wrapper", wrapper)
			continue
		}
		shape.Metadata.ChildContent = content
		content, err = wrap(ctx, dc)
		if err != nil {
			return nil, fmt.Errorf("display wrapper %s: %w", wrapper, err)
		}
	}
	shape.Metadata.ChildContent = nil
	return content, nil
}

func (m *Manager) resolve(shape *Shape) (RenderFunc, string, bool) {
	alts := shape.Metadata.Alternates
	for i := len(alts) - 1; i >= 0; i-- {
		if render, ok := m.bindings.Binding(alts[i]); ok {
			return render, alts[i], true
		}
	}
	render, ok := m.bindings.Binding(shape.Metadata.Type)
	return render, shape.Metadata.Type, ok
}
