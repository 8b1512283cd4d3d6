// Package shell composes the per-tenant runtime of the host.
//
// Each shell gets its own feature set, shape table and display manager.
// Shells share the extension catalogue, the view engines and the parsed
// placement files, all of which are read-only or safe for concurrent use.
package shell

import (
	"context"
	"fmt"

	"github.com/690486439/Orchard2/internal/config"
	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/extensions"
	"github.com/690486439/Orchard2/internal/placement"
	"github.com/690486439/Orchard2/internal/shapes"
	"github.com/690486439/Orchard2/internal/shapes/harvest"
	"github.com/690486439/Orchard2/internal/shapes/shapeplacement"
	"github.com/690486439/Orchard2/internal/shapes/shapetemplate"
	"github.com/690486439/Orchard2/internal/viewengine"
	"github.com/690486439/Orchard2/internal/vfs"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding"
)

// Watcher signals changes in a directory on disk.
type Watcher interface {
	Watch(dir, key string, onChange func()) error
}

// Context is the composed runtime of one shell.
type Context struct {
	Settings *config.Shell
	Features extensions.FeatureManager
	Shapes   *shapes.Manager
	Encoding encoding.Encoding
}

// Table returns the shell's current shape table.
func (c *Context) Table(ctx context.Context) (*shapes.Table, error) {
	return c.Shapes.Table(ctx)
}

// Display returns a display manager over the shell's current shape table.
func (c *Context) Display(ctx context.Context) (*display.Manager, error) {
	table, err := c.Shapes.Table(ctx)
	if err != nil {
		return nil, err
	}
	return display.NewManager(table), nil
}

// ViewContext returns a fresh detached view context writing in the shell's
// encoding.
func (c *Context) ViewContext() *display.ViewContext {
	return &display.ViewContext{Encoding: c.Encoding, ViewData: map[string]any{"shell": c.Settings.Name}}
}

// Host creates shell contexts.
type Host struct {
	fs         vfs.FileSystem
	extensions *extensions.Manager
	views      *viewengine.Composite
	placements *placement.Cache
	harvesters []harvest.Harvester
	watcher    Watcher

	// DisableMonitoring stops shells from watching extension directories.
	DisableMonitoring bool
}

// NewHost creates a Host. watcher may be nil.
func NewHost(fs vfs.FileSystem, ext *extensions.Manager, views *viewengine.Composite, placements *placement.Cache, watcher Watcher) *Host {
	return &Host{
		fs:         fs,
		extensions: ext,
		views:      views,
		placements: placements,
		harvesters: []harvest.Harvester{harvest.BasicHarvester{}},
		watcher:    watcher,
	}
}

// CreateContext builds the context of one shell and its initial shape
// table.
func (h *Host) CreateContext(ctx context.Context, settings *config.Shell) (*Context, error) {
	ctx = ctxlog.With(ctx, "shell", settings.Name)
	logger := ctxlog.FromContext(ctx)
	logger.Info("Creating shell context...")

	enc, err := display.LookupEncoding(settings.Encoding)
	if err != nil {
		return nil, fmt.Errorf("shell %q: %w", settings.Name, err)
	}

	features := extensions.NewShellFeatures(h.extensions, settings.Features)

	detectors := make([]shapetemplate.Detector, 0, len(h.views.Engines()))
	for _, e := range h.views.Engines() {
		detectors = append(detectors, e)
	}
	templates := shapetemplate.New(features, h.fs, h.harvesters, detectors, display.NewDispatcher(h.views))
	templates.DisableMonitoring = h.DisableMonitoring

	placements := shapeplacement.New(features, h.fs, h.placements)
	placements.DisableMonitoring = h.DisableMonitoring

	manager := shapes.NewManager(features, placements, templates)
	if h.watcher != nil {
		invalidate := func() {
			logger.Info("Extension files changed, invalidating shape table.")
			manager.Invalidate()
		}
		key := "shell:" + settings.Name
		templates.Monitor(h.watcher, key, invalidate)
		placements.Monitor(h.watcher, key, invalidate)
	}

	c := &Context{
		Settings: settings,
		Features: features,
		Shapes:   manager,
		Encoding: enc,
	}
	if _, err := c.Table(ctx); err != nil {
		return nil, fmt.Errorf("shell %q: %w", settings.Name, err)
	}
	logger.Info("Shell context created.")
	return c, nil
}

// Compose creates the contexts of every shell concurrently. The first
// failure cancels the rest and is returned.
func (h *Host) Compose(ctx context.Context, shells ...*config.Shell) (map[string]*Context, error) {
	results := make([]*Context, len(shells))

	g, gctx := errgroup.WithContext(ctx)
	for i, settings := range shells {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := h.CreateContext(gctx, settings)
			if err != nil {
				return err
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	contexts := make(map[string]*Context, len(shells))
	for _, c := range results {
		contexts[c.Settings.Name] = c
	}
	return contexts, nil
}
