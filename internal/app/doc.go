// Package app contains the core application logic. It wires the host
// configuration, the extension catalogue, view engines and shells into an
// App, decoupled from any specific entrypoint like a CLI.
package app
