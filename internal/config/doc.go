// Package config defines the format-agnostic configuration model for the
// host and its extensions, along with the Loader interface used to read it.
//
// The model is the single source of truth for the extensions and shell
// packages. Concrete loaders, such as the HCL one, live in separate
// packages.
package config
