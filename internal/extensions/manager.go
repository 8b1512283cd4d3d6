package extensions

import (
	"context"
	"fmt"
	"sync"

	"github.com/690486439/Orchard2/internal/config"
	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/vfs"
)

type location struct {
	dir      string
	manifest string
	kind     Kind
}

var locations = []location{
	{dir: ModulesLocation, manifest: "module.hcl", kind: KindModule},
	{dir: ThemesLocation, manifest: "theme.hcl", kind: KindTheme},
}

// Manager discovers installed extensions. Results are cached until
// Invalidate is called.
type Manager struct {
	fs     vfs.FileSystem
	loader config.Loader

	mu         sync.Mutex
	extensions []*ExtensionDescriptor
}

// NewManager creates a Manager reading manifests with loader.
func NewManager(fs vfs.FileSystem, loader config.Loader) *Manager {
	return &Manager{fs: fs, loader: loader}
}

// AvailableExtensions returns every installed extension, modules first,
// each group ordered by ID.
func (m *Manager) AvailableExtensions(ctx context.Context) ([]*ExtensionDescriptor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.extensions != nil {
		return m.extensions, nil
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Discovering extensions...")

	found := []*ExtensionDescriptor{}
	for _, loc := range locations {
		if !m.fs.DirectoryExists(loc.dir) {
			continue
		}
		ids, err := m.fs.ListDirectoryNames(loc.dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", loc.dir, err)
		}
		for _, id := range ids {
			ext, err := m.load(ctx, loc, id)
			if err != nil {
				return nil, err
			}
			if ext == nil {
				logger.Debug("Directory has no manifest, skipping.", "location", loc.dir, "id", id)
				continue
			}
			found = append(found, ext)
		}
	}

	logger.Info("Extensions discovered.", "count", len(found))
	m.extensions = found
	return found, nil
}

// AvailableFeatures returns the features of every installed extension,
// keyed by feature ID.
func (m *Manager) AvailableFeatures(ctx context.Context) (map[string]*FeatureDescriptor, error) {
	exts, err := m.AvailableExtensions(ctx)
	if err != nil {
		return nil, err
	}
	features := make(map[string]*FeatureDescriptor)
	for _, ext := range exts {
		for _, f := range ext.Features {
			if prev, dup := features[f.ID]; dup {
				return nil, fmt.Errorf("feature %q is declared by both %s and %s", f.ID, prev.Extension.ID, ext.ID)
			}
			features[f.ID] = f
		}
	}
	return features, nil
}

// Invalidate drops the cached extension list.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.extensions = nil
	m.mu.Unlock()
}

func (m *Manager) load(ctx context.Context, loc location, id string) (*ExtensionDescriptor, error) {
	path := m.fs.Combine(m.fs.Combine(loc.dir, id), loc.manifest)
	if !m.fs.Exists(path) {
		return nil, nil
	}

	rc, err := m.fs.OpenRead(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	manifest, err := m.loader.LoadManifest(ctx, rc, path)
	if err != nil {
		return nil, err
	}
	return newExtension(loc, id, manifest), nil
}

// newExtension builds the descriptor, making sure the namesake feature
// exists and comes first.
func newExtension(loc location, id string, manifest *config.Manifest) *ExtensionDescriptor {
	ext := &ExtensionDescriptor{
		ID:          id,
		Location:    loc.dir,
		Kind:        loc.kind,
		Name:        manifest.Name,
		Description: manifest.Description,
		Version:     manifest.Version,
		Author:      manifest.Author,
	}
	if ext.Name == "" {
		ext.Name = id
	}

	namesake := &FeatureDescriptor{
		ID:           id,
		Name:         ext.Name,
		Description:  manifest.Description,
		Dependencies: manifest.Dependencies,
		Extension:    ext,
	}
	ext.Features = append(ext.Features, namesake)

	for _, fm := range manifest.Features {
		if fm.ID == id {
			if fm.Name != "" {
				namesake.Name = fm.Name
			}
			if fm.Description != "" {
				namesake.Description = fm.Description
			}
			namesake.Category = fm.Category
			namesake.Dependencies = append(namesake.Dependencies, fm.Dependencies...)
			continue
		}
		name := fm.Name
		if name == "" {
			name = fm.ID
		}
		ext.Features = append(ext.Features, &FeatureDescriptor{
			ID:           fm.ID,
			Name:         name,
			Description:  fm.Description,
			Category:     fm.Category,
			Dependencies: fm.Dependencies,
			Extension:    ext,
		})
	}
	return ext
}
