// Package shapeplacement turns the Placement.info files of the active
// extensions into placement rules of the shape table.
package shapeplacement

import (
	"context"
	"fmt"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/extensions"
	"github.com/690486439/Orchard2/internal/placement"
	"github.com/690486439/Orchard2/internal/shapes"
	"github.com/690486439/Orchard2/internal/vfs"
)

// FileName is the placement file expected at the root of an extension.
const FileName = "Placement.info"

// Watcher signals changes in a directory on disk.
type Watcher interface {
	Watch(dir, key string, onChange func()) error
}

// Strategy is the shapes.Provider reading placement files.
type Strategy struct {
	features extensions.FeatureManager
	fs       vfs.FileSystem
	cache    *placement.Cache

	watcher  Watcher
	watchKey string
	onChange func()

	// DisableMonitoring stops the strategy from watching extension roots.
	DisableMonitoring bool
}

// New creates a Strategy loading files through cache.
func New(features extensions.FeatureManager, fs vfs.FileSystem, cache *placement.Cache) *Strategy {
	return &Strategy{features: features, fs: fs, cache: cache}
}

// Monitor calls onChange when the directory holding a loaded placement
// file changes. Registrations are made under key and replace those of
// earlier passes.
func (s *Strategy) Monitor(w Watcher, key string, onChange func()) {
	s.watcher = w
	s.watchKey = key
	s.onChange = onChange
}

// Discover registers the placement rules of every active extension,
// attributed to the extension's namesake feature.
func (s *Strategy) Discover(ctx context.Context, builder *shapes.TableBuilder) error {
	logger := ctxlog.FromContext(ctx)

	features, err := s.features.GetEnabledFeatures(ctx)
	if err != nil {
		return fmt.Errorf("failed to get enabled features: %w", err)
	}

	seen := make(map[string]bool)
	rules := 0
	for _, f := range features {
		ext := f.Extension
		if ext == nil || seen[ext.ID] {
			continue
		}
		seen[ext.ID] = true

		virtualPath := s.fs.Combine(s.fs.Combine(ext.Location, ext.ID), FileName)
		file, err := s.cache.Get(ctx, virtualPath)
		if err != nil {
			return err
		}
		if file == nil {
			continue
		}
		s.monitor(ctx, s.fs.Combine(ext.Location, ext.ID))

		namesake := namesakeFeature(ext)
		if namesake == nil {
			continue
		}
		placement.Walk(file, func(loc *placement.ShapeLocation, pred placement.Predicate) {
			info := placement.ParseLocation(loc.Location)
			info.Source = virtualPath
			builder.Describe(loc.ShapeType).From(namesake).Placement(pred, info)
			rules++
		})
	}

	logger.Debug("Placement rules registered.", "rules", rules)
	return nil
}

func namesakeFeature(ext *extensions.ExtensionDescriptor) *extensions.FeatureDescriptor {
	for _, f := range ext.Features {
		if f.ID == ext.ID {
			return f
		}
	}
	return nil
}

func (s *Strategy) monitor(ctx context.Context, virtualDir string) {
	if s.DisableMonitoring || s.watcher == nil || s.onChange == nil {
		return
	}
	mapper, ok := s.fs.(vfs.PhysicalMapper)
	if !ok {
		return
	}
	dir, ok := mapper.PhysicalPath(virtualDir)
	if !ok {
		return
	}
	if err := s.watcher.Watch(dir, s.watchKey, s.onChange); err != nil {
		ctxlog.FromContext(ctx).Debug("Placement directory not monitored.", "dir", dir, "error", err)
	}
}
