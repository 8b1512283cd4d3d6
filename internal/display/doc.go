// Package display renders shapes.
//
// The Dispatcher renders a bound template for a shape. When the caller is
// already inside a view (the ViewContext carries an active View) rendering
// goes through that context's partial renderer. Otherwise the template is
// located and rendered detached into an in-memory collector. View rendering
// is asynchronous underneath; the Dispatcher always blocks until it
// completes, so callers never deal with pending results.
//
// The Manager resolves which binding renders a shape, honouring alternates
// and wrappers, and applies placement information from the shape table.
package display
