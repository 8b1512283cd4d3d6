// Package schema holds the HCL decoding structures for the host
// configuration and extension manifests. They mirror the files on disk and
// are translated into the format-agnostic config model by the hcl package.
package schema

// --- Host configuration ---

// Host represents the top-level structure of an orchard.hcl file.
type Host struct {
	ExtensionsPath    string   `hcl:"extensions_path,optional"`
	DisableMonitoring bool     `hcl:"disable_monitoring,optional"`
	LogLevel          string   `hcl:"log_level,optional"`
	LogFormat         string   `hcl:"log_format,optional"`
	Shells            []*Shell `hcl:"shell,block"`
}

// Shell represents a `shell` block: one tenant and its enabled features.
type Shell struct {
	Name     string   `hcl:"name,label"`
	Features []string `hcl:"features,optional"`
	Encoding string   `hcl:"encoding,optional"`
}

// --- Extension manifests ---

// Manifest represents the top-level structure of a module.hcl or theme.hcl
// file. Root attributes describe the extension and its namesake feature.
type Manifest struct {
	Name         string     `hcl:"name,optional"`
	Description  string     `hcl:"description,optional"`
	Version      string     `hcl:"version,optional"`
	Author       string     `hcl:"author,optional"`
	Dependencies []string   `hcl:"dependencies,optional"`
	Features     []*Feature `hcl:"feature,block"`
}

// Feature represents a `feature` block declaring an additional feature.
type Feature struct {
	ID           string   `hcl:"id,label"`
	Name         string   `hcl:"name,optional"`
	Description  string   `hcl:"description,optional"`
	Category     string   `hcl:"category,optional"`
	Dependencies []string `hcl:"dependencies,optional"`
}
