package config

import (
	"context"
	"io"
)

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// LoadHost reads the host configuration file at path.
	LoadHost(ctx context.Context, path string) (*Host, error)

	// LoadManifest reads an extension manifest. filename is used for
	// diagnostics only.
	LoadManifest(ctx context.Context, r io.Reader, filename string) (*Manifest, error)
}
