package extensions

import (
	"context"
	"fmt"
	"slices"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/dag"
)

// FeatureManager reports the features enabled for one shell.
type FeatureManager interface {
	// GetEnabledFeatures returns the enabled features ordered so that every
	// feature follows its dependencies.
	GetEnabledFeatures(ctx context.Context) ([]*FeatureDescriptor, error)
}

// ShellFeatures is the FeatureManager of a shell whose enabled feature IDs
// come from configuration. Dependencies are enabled transitively.
type ShellFeatures struct {
	manager *Manager
	enabled []string
}

// NewShellFeatures creates the feature manager for a shell enabling the
// given feature IDs.
func NewShellFeatures(manager *Manager, enabled []string) *ShellFeatures {
	return &ShellFeatures{manager: manager, enabled: enabled}
}

func (s *ShellFeatures) GetEnabledFeatures(ctx context.Context) ([]*FeatureDescriptor, error) {
	available, err := s.manager.AvailableFeatures(ctx)
	if err != nil {
		return nil, err
	}

	roots := make([]*FeatureDescriptor, 0, len(s.enabled))
	for _, id := range s.enabled {
		f, ok := available[id]
		if !ok {
			return nil, fmt.Errorf("enabled feature %q is not installed", id)
		}
		roots = append(roots, f)
	}
	// Themes override modules, so they go last among unrelated features.
	slices.SortStableFunc(roots, func(a, b *FeatureDescriptor) int {
		return int(a.Extension.Kind) - int(b.Extension.Kind)
	})

	g := dag.New()
	visited := make(map[string]bool)
	var add func(f *FeatureDescriptor) error
	add = func(f *FeatureDescriptor) error {
		if visited[f.ID] {
			return nil
		}
		visited[f.ID] = true
		g.AddNode(f.ID)
		for _, depID := range f.Dependencies {
			dep, ok := available[depID]
			if !ok {
				return fmt.Errorf("feature %q depends on %q, which is not installed", f.ID, depID)
			}
			if err := add(dep); err != nil {
				return err
			}
			if err := g.AddEdge(depID, f.ID); err != nil {
				return err
			}
		}
		return nil
	}
	for _, f := range roots {
		if err := add(f); err != nil {
			return nil, err
		}
	}

	ids, err := g.Sort()
	if err != nil {
		return nil, fmt.Errorf("feature dependencies: %w", err)
	}

	features := make([]*FeatureDescriptor, 0, len(ids))
	for _, id := range ids {
		features = append(features, available[id])
	}
	ctxlog.FromContext(ctx).Debug("Enabled features resolved.", "requested", len(s.enabled), "enabled", len(features))
	return features, nil
}
