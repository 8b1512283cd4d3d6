package config

// Host is the process-wide configuration: where extensions live and which
// shells (tenants) to compose.
type Host struct {
	ExtensionsPath    string
	DisableMonitoring bool
	LogLevel          string
	LogFormat         string
	Shells            []*Shell
}

// Shell describes one tenant and the features enabled for it.
type Shell struct {
	Name     string
	Features []string
	// Encoding is the name of the output encoding, e.g. "utf-8" or
	// "windows-1252". Empty means UTF-8.
	Encoding string
}

// Shell returns the shell with the given name, or nil.
func (h *Host) Shell(name string) *Shell {
	for _, s := range h.Shells {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Manifest is the format-agnostic representation of a module.hcl or
// theme.hcl file.
type Manifest struct {
	Name        string
	Description string
	Version     string
	Author      string
	// Dependencies apply to the namesake feature.
	Dependencies []string
	Features     []*FeatureManifest
}

// FeatureManifest declares one feature of an extension.
type FeatureManifest struct {
	ID           string
	Name         string
	Description  string
	Category     string
	Dependencies []string
}
