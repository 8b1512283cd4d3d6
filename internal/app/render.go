package app

import (
	"fmt"
	"io"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/placement"
)

// RenderRequest describes a shape to display from outside any view.
type RenderRequest struct {
	Shell      string
	ShapeType  string
	Properties map[string]any
	Placement  placement.Context
}

// Render places and displays a shape, writing the markup to w in the
// shell's encoding.
func (a *App) Render(w io.Writer, req RenderRequest) (*display.Shape, error) {
	sh, err := a.Shell(req.Shell)
	if err != nil {
		return nil, err
	}
	ctx := ctxlog.With(a.ctx, "shell", sh.Settings.Name)

	dm, err := sh.Display(ctx)
	if err != nil {
		return nil, err
	}

	shape := display.NewShape(req.ShapeType, req.Properties)
	shape.Metadata.DisplayType = req.Placement.DisplayType
	if info, ok := dm.Place(shape, req.Placement); ok && info.Hidden() {
		ctxlog.FromContext(ctx).Info("Shape is hidden by placement.", "shape", req.ShapeType)
		return shape, nil
	}

	content, err := dm.Execute(ctx, shape, sh.ViewContext())
	if err != nil {
		return nil, err
	}

	ew := display.NewEncodingWriter(w, sh.Encoding)
	if _, err := io.WriteString(ew, display.String(content)); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	if err := ew.Close(); err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	return shape, nil
}
