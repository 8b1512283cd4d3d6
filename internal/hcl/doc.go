// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for parsing the host configuration and the
// extension manifests and translating them into the config model.
package hcl
