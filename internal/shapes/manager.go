package shapes

import (
	"context"
	"fmt"
	"sync"

	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/extensions"
)

// Provider contributes shape alterations to a table.
type Provider interface {
	Discover(ctx context.Context, builder *TableBuilder) error
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, builder *TableBuilder) error

func (f ProviderFunc) Discover(ctx context.Context, builder *TableBuilder) error {
	return f(ctx, builder)
}

// Manager builds and caches the shape table of one shell.
type Manager struct {
	features  extensions.FeatureManager
	providers []Provider

	mu         sync.Mutex
	table      *Table
	generation uint64
}

// NewManager creates a Manager running providers in order.
func NewManager(features extensions.FeatureManager, providers ...Provider) *Manager {
	return &Manager{features: features, providers: providers}
}

// Table returns the cached table, building it on first use or after
// Invalidate. Each build uses a fresh builder.
func (m *Manager) Table(ctx context.Context) (*Table, error) {
	m.mu.Lock()
	if m.table != nil {
		t := m.table
		m.mu.Unlock()
		return t, nil
	}
	gen := m.generation
	m.mu.Unlock()

	t, err := m.build(ctx)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// A change observed while building makes this table stale already.
	if m.generation == gen {
		m.table = t
	}
	return t, nil
}

// Invalidate drops the cached table.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.table = nil
	m.generation++
}

func (m *Manager) build(ctx context.Context) (*Table, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Building shape table...")

	features, err := m.features.GetEnabledFeatures(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get enabled features: %w", err)
	}

	builder := NewTableBuilder()
	for _, p := range m.providers {
		if err := p.Discover(ctx, builder); err != nil {
			return nil, err
		}
	}

	t := builder.Build(features)
	logger.Info("Shape table built.", "descriptors", len(t.descriptors), "bindings", len(t.bindings))
	return t, nil
}
