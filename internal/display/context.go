package display

import (
	"context"
	"errors"
	"io"
	"maps"

	"golang.org/x/text/encoding"
)

var errCollectorClosed = errors.New("display: text collector is closed")

// View is a located template ready to render. Rendering happens
// asynchronously; the returned channel yields exactly one value, nil on
// success. Views that hold resources also implement io.Closer.
type View interface {
	Path() string
	RenderAsync(ctx context.Context, vc *ViewContext) <-chan error
}

// ViewLocator finds partial views by template path.
type ViewLocator interface {
	// FindPartialView reports false when no view exists for path.
	FindPartialView(ctx context.Context, path string) (View, bool, error)
}

// PartialRenderer renders a template inside an established view context.
type PartialRenderer interface {
	Partial(ctx context.Context, path string, model any) (Content, error)
}

// ViewContext is the state of one view render: the view being rendered,
// where its output goes and the data available to it.
type ViewContext struct {
	View     View
	Writer   io.Writer
	Encoding encoding.Encoding
	ViewData map[string]any
	Model    any
	// Helper renders partials from within this context. When nil a helper
	// is built from the dispatcher's locator.
	Helper PartialRenderer
}

// derive returns a child context rendering view into w. View data is
// copied so a partial cannot leak values back into its parent.
func (vc *ViewContext) derive(view View, w io.Writer, model any) *ViewContext {
	child := &ViewContext{View: view, Writer: w, Model: model}
	if vc != nil {
		child.Encoding = vc.Encoding
		child.ViewData = maps.Clone(vc.ViewData)
		child.Helper = vc.Helper
	}
	if child.ViewData == nil {
		child.ViewData = make(map[string]any)
	}
	return child
}

func (vc *ViewContext) encoding() encoding.Encoding {
	if vc == nil {
		return nil
	}
	return vc.Encoding
}

// DisplayContext is what a shape binding receives.
type DisplayContext struct {
	ViewContext *ViewContext
	Value       any
	Shape       *Shape
}

// RenderFunc renders a shape. It is the delegate a binding is bound to.
type RenderFunc func(ctx context.Context, dc *DisplayContext) (Content, error)
