package hcl

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/690486439/Orchard2/internal/config"
	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/schema"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	// Environ supplies the variables exposed as `env.*`. Defaults to os.Environ.
	Environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadHost parses and decodes the host configuration at path. A relative
// extensions_path is resolved against the directory of the file.
func (l *Loader) LoadHost(ctx context.Context, path string) (*config.Host, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL host loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root schema.Host
	diags = gohcl.DecodeBody(file.Body, l.evalContext(filepath.Dir(path)), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	host, err := translateHost(&root, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("invalid host configuration %s: %w", path, err)
	}
	logger.Debug("HCL host loading complete.", "shells", len(host.Shells), "extensions_path", host.ExtensionsPath)
	return host, nil
}

// LoadManifest parses and decodes one extension manifest.
func (l *Loader) LoadManifest(ctx context.Context, r io.Reader, filename string) (*config.Manifest, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", filename, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root schema.Manifest
	diags = gohcl.DecodeBody(file.Body, l.evalContext(""), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	manifest, err := translateManifest(&root)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", filename, err)
	}
	ctxlog.FromContext(ctx).Debug("Manifest loaded.", "file", filename, "features", len(manifest.Features))
	return manifest, nil
}
