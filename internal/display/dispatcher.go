package display

import (
	"context"
	"fmt"
	"io"

	"github.com/690486439/Orchard2/internal/ctxlog"
)

// Dispatcher renders template files bound to shapes.
type Dispatcher struct {
	locator ViewLocator
}

// NewDispatcher creates a Dispatcher that locates views with locator.
func NewDispatcher(locator ViewLocator) *Dispatcher {
	return &Dispatcher{locator: locator}
}

// Render renders the template at path for dc. Inside an established view
// the context's partial renderer is used. Otherwise the view is rendered
// detached; if it cannot be located the result is (nil, nil).
func (d *Dispatcher) Render(ctx context.Context, dc *DisplayContext, path string) (Content, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Rendering template file.", "path", path)

	var (
		content Content
		err     error
	)
	if vc := dc.ViewContext; vc != nil && vc.View != nil {
		content, err = d.helperFor(vc).Partial(ctx, path, dc.Value)
	} else {
		content, err = d.renderDetached(ctx, dc, path)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Done rendering template file.", "path", path)
	return content, nil
}

func (d *Dispatcher) helperFor(vc *ViewContext) PartialRenderer {
	if vc.Helper != nil {
		return vc.Helper
	}
	return NewHelper(vc, d.locator)
}

// renderDetached handles shapes displayed from outside any view, e.g.
// during programmatic composition, where no view context was established
// by a view engine.
func (d *Dispatcher) renderDetached(ctx context.Context, dc *DisplayContext, path string) (Content, error) {
	// Render operations run to completion once started.
	ctx = context.WithoutCancel(ctx)

	view, found, err := d.locator.FindPartialView(ctx, path)
	if err != nil {
		return nil, err
	}
	if !found {
		ctxlog.FromContext(ctx).Debug("Partial view not found.", "path", path)
		return nil, nil
	}
	return renderView(ctx, dc.ViewContext, view, dc.Value)
}

// renderView renders view into a fresh collector and blocks until the
// asynchronous render completes. The collector and the view are released
// on every path.
func renderView(ctx context.Context, parent *ViewContext, view View, model any) (Content, error) {
	if closer, ok := view.(io.Closer); ok {
		defer closer.Close()
	}

	collector := NewTextCollector(parent.encoding())
	defer collector.Close()

	vc := parent.derive(view, collector, model)
	vc.Encoding = collector.Encoding()

	if err := <-view.RenderAsync(ctx, vc); err != nil {
		return nil, fmt.Errorf("render %s: %w", view.Path(), err)
	}
	return collector.Content(), nil
}

