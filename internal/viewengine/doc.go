// Package viewengine locates and renders template files.
//
// An Engine recognises its own template files by extension and produces
// display.Views for them. GoTemplate renders html/template files, Markdown
// renders CommonMark with GitHub extensions. Composite chains engines into
// a single display.ViewLocator.
package viewengine
