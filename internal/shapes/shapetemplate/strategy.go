// Package shapetemplate binds shapes to the template files of the active
// extensions.
package shapetemplate

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/display"
	"github.com/690486439/Orchard2/internal/extensions"
	"github.com/690486439/Orchard2/internal/shapes"
	"github.com/690486439/Orchard2/internal/shapes/harvest"
	"github.com/690486439/Orchard2/internal/vfs"
)

// DiscoveryError aborts a discovery pass when a template directory cannot
// be listed.
type DiscoveryError struct {
	Extension string
	Path      string
	Err       error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discovering templates of extension %q in %s: %v", e.Extension, e.Path, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// Detector recognises template files by name.
type Detector interface {
	DetectTemplateFileNames(fileNames []string) []string
}

// Watcher signals changes in a directory on disk.
type Watcher interface {
	Watch(dir, key string, onChange func()) error
}

// Renderer renders a template file for a display context.
type Renderer interface {
	Render(ctx context.Context, dc *display.DisplayContext, path string) (display.Content, error)
}

// Strategy is the shapes.Provider binding template files to shape types.
type Strategy struct {
	features   extensions.FeatureManager
	fs         vfs.FileSystem
	harvesters []harvest.Harvester
	detectors  []Detector
	renderer   Renderer

	watcher  Watcher
	watchKey string
	onChange func()

	// DisableMonitoring stops the strategy from watching the directories it
	// scans.
	DisableMonitoring bool
}

// New creates a Strategy.
func New(features extensions.FeatureManager, fs vfs.FileSystem, harvesters []harvest.Harvester, detectors []Detector, renderer Renderer) *Strategy {
	return &Strategy{
		features:   features,
		fs:         fs,
		harvesters: harvesters,
		detectors:  detectors,
		renderer:   renderer,
	}
}

// Monitor makes every pass watch the template directories it scanned and
// call onChange when one of them changes. Registrations are made under key,
// so a rebuild replaces the previous pass's handlers instead of adding to
// them.
func (s *Strategy) Monitor(w Watcher, key string, onChange func()) {
	s.watcher = w
	s.watchKey = key
	s.onChange = onChange
}

type pathContext struct {
	harvester   harvest.Harvester
	subPath     string
	virtualPath string
	fileNames   []string
}

type shapeContext struct {
	extension *extensions.ExtensionDescriptor
	info      harvest.ShapeInfo
	hit       harvest.ShapeHit
}

// Discover binds the templates of every active extension into builder.
// Nothing is registered when the pass fails.
func (s *Strategy) Discover(ctx context.Context, builder *shapes.TableBuilder) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Start discovering shapes")

	features, err := s.features.GetEnabledFeatures(ctx)
	if err != nil {
		return fmt.Errorf("failed to get enabled features: %w", err)
	}

	exts := once(features)
	var staged []shapeContext
	for _, ext := range exts {
		hits, err := s.discoverExtension(ctx, ext)
		if err != nil {
			return err
		}
		staged = append(staged, hits...)
	}

	bound := 0
	for _, sc := range staged {
		// Templates are always associated with the namesake feature of the
		// module or theme.
		for _, feature := range sc.extension.Features {
			if feature.ID != sc.extension.ID {
				continue
			}
			logger.Debug("Binding template as shape.",
				"path", sc.info.TemplateVirtualPath, "shape", sc.hit.ShapeType, "feature", feature.ID)
			builder.Describe(sc.hit.ShapeType).
				From(feature).
				BoundAs(sc.info.TemplateVirtualPath, s.bind(sc.info.TemplateVirtualPath))
			bound++
		}
	}

	logger.Info("Done discovering shapes", "extensions", len(exts), "bindings", bound)
	return nil
}

// once returns the owning extension of each feature, each extension once,
// in feature order.
func once(features []*extensions.FeatureDescriptor) []*extensions.ExtensionDescriptor {
	seen := make(map[string]bool)
	var out []*extensions.ExtensionDescriptor
	for _, f := range features {
		if f.Extension == nil || seen[f.Extension.ID] {
			continue
		}
		seen[f.Extension.ID] = true
		out = append(out, f.Extension)
	}
	return out
}

func (s *Strategy) discoverExtension(ctx context.Context, ext *extensions.ExtensionDescriptor) ([]shapeContext, error) {
	logger := ctxlog.FromContext(ctx).With("extension", ext.ID)
	logger.Debug("Start discovering candidate views filenames")

	basePath := s.fs.Combine(ext.Location, ext.ID)
	var pathContexts []pathContext
	// Harvesters may share sub-paths; each directory is listed once.
	listings := make(map[string][]string)
	for _, h := range s.harvesters {
		for _, subPath := range h.SubPaths() {
			virtualPath := s.fs.Combine(basePath, subPath)
			fileNames, listed := listings[virtualPath]
			if !listed && s.fs.DirectoryExists(virtualPath) {
				names, err := s.fs.ListFileNames(virtualPath)
				if err != nil {
					return nil, &DiscoveryError{Extension: ext.ID, Path: virtualPath, Err: err}
				}
				fileNames = names
				s.monitor(ctx, virtualPath)
			}
			listings[virtualPath] = fileNames
			pathContexts = append(pathContexts, pathContext{
				harvester:   h,
				subPath:     subPath,
				virtualPath: virtualPath,
				fileNames:   fileNames,
			})
		}
	}
	logger.Debug("Done discovering candidate views filenames")

	var out []shapeContext
	for _, pc := range pathContexts {
		for _, d := range s.detectors {
			for _, fileName := range d.DetectTemplateFileNames(pc.fileNames) {
				info := harvest.ShapeInfo{
					SubPath:             pc.subPath,
					FileName:            strings.TrimSuffix(fileName, path.Ext(fileName)),
					TemplateVirtualPath: s.fs.Combine(pc.virtualPath, fileName),
				}
				for _, hit := range pc.harvester.HarvestShape(info) {
					out = append(out, shapeContext{extension: ext, info: info, hit: hit})
				}
			}
		}
	}
	return out, nil
}

func (s *Strategy) bind(templatePath string) func(*shapes.Descriptor) display.RenderFunc {
	return func(*shapes.Descriptor) display.RenderFunc {
		return func(ctx context.Context, dc *display.DisplayContext) (display.Content, error) {
			return s.renderer.Render(ctx, dc, templatePath)
		}
	}
}

func (s *Strategy) monitor(ctx context.Context, virtualPath string) {
	if s.DisableMonitoring || s.watcher == nil || s.onChange == nil {
		return
	}
	mapper, ok := s.fs.(vfs.PhysicalMapper)
	if !ok {
		return
	}
	dir, ok := mapper.PhysicalPath(virtualPath)
	if !ok {
		return
	}
	if err := s.watcher.Watch(dir, s.watchKey, s.onChange); err != nil {
		ctxlog.FromContext(ctx).Warn("Failed to watch template directory.", "path", virtualPath, "error", err)
	}
}
