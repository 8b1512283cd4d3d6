// This file contains the logic for translating HCL schema structs into the
// format-agnostic configuration model defined in the config package.

package hcl

import (
	"fmt"
	"path/filepath"

	"github.com/690486439/Orchard2/internal/config"
	"github.com/690486439/Orchard2/internal/schema"
)

// translateHost converts the HCL host schema into the agnostic model.
func translateHost(s *schema.Host, configDir string) (*config.Host, error) {
	host := &config.Host{
		ExtensionsPath:    s.ExtensionsPath,
		DisableMonitoring: s.DisableMonitoring,
		LogLevel:          s.LogLevel,
		LogFormat:         s.LogFormat,
	}
	if host.ExtensionsPath == "" {
		host.ExtensionsPath = "extensions"
	}
	if !filepath.IsAbs(host.ExtensionsPath) {
		host.ExtensionsPath = filepath.Join(configDir, host.ExtensionsPath)
	}

	seen := make(map[string]struct{}, len(s.Shells))
	for _, sh := range s.Shells {
		if _, dup := seen[sh.Name]; dup {
			return nil, fmt.Errorf("shell %q declared more than once", sh.Name)
		}
		seen[sh.Name] = struct{}{}
		host.Shells = append(host.Shells, &config.Shell{
			Name:     sh.Name,
			Features: sh.Features,
			Encoding: sh.Encoding,
		})
	}
	return host, nil
}

// translateManifest converts the HCL manifest schema into the agnostic model.
func translateManifest(s *schema.Manifest) (*config.Manifest, error) {
	m := &config.Manifest{
		Name:         s.Name,
		Description:  s.Description,
		Version:      s.Version,
		Author:       s.Author,
		Dependencies: s.Dependencies,
	}

	seen := make(map[string]struct{}, len(s.Features))
	for _, f := range s.Features {
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("feature %q declared more than once", f.ID)
		}
		seen[f.ID] = struct{}{}
		m.Features = append(m.Features, &config.FeatureManifest{
			ID:           f.ID,
			Name:         f.Name,
			Description:  f.Description,
			Category:     f.Category,
			Dependencies: f.Dependencies,
		})
	}
	return m, nil
}
