package viewengine

import (
	"context"

	"github.com/690486439/Orchard2/internal/display"
)

// Composite is a display.ViewLocator over several engines. Engines are
// asked in order and the first one to find a view wins.
type Composite struct {
	engines []Engine
}

// NewComposite chains engines. Engines that render partials themselves
// resolve them through the composite, so a Go template can include a
// markdown file.
func NewComposite(engines ...Engine) *Composite {
	c := &Composite{engines: engines}
	for _, e := range engines {
		if l, ok := e.(interface{ setLocator(display.ViewLocator) }); ok {
			l.setLocator(c)
		}
	}
	return c
}

// Engines returns the chained engines, which also act as template file
// detectors during discovery.
func (c *Composite) Engines() []Engine { return c.engines }

func (c *Composite) FindPartialView(ctx context.Context, path string) (display.View, bool, error) {
	for _, e := range c.engines {
		view, found, err := e.FindPartialView(ctx, path)
		if err != nil {
			return nil, false, err
		}
		if found {
			return view, true, nil
		}
	}
	return nil, false, nil
}
