package display

import (
	"context"
	"fmt"
)

// Helper renders partials on behalf of an established view context.
type Helper struct {
	vc      *ViewContext
	locator ViewLocator
}

// NewHelper contextualises a partial renderer to vc.
func NewHelper(vc *ViewContext, locator ViewLocator) *Helper {
	return &Helper{vc: vc, locator: locator}
}

// Partial renders the view at path with model. Unlike a detached render, a
// missing view inside an established view is an error.
func (h *Helper) Partial(ctx context.Context, path string, model any) (Content, error) {
	view, found, err := h.locator.FindPartialView(ctx, path)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("partial view %q was not found", path)
	}
	return renderView(ctx, h.vc, view, model)
}
