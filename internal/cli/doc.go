// Package cli implements the orchard command line: flag parsing, command
// dispatch and mapping of failures to exit codes.
package cli
