// Package extensions discovers the modules and themes installed on the
// virtual file system and resolves which of their features a shell has
// enabled.
//
// Extensions live in one directory per extension:
//
//	Modules/<Id>/module.hcl
//	Themes/<Id>/theme.hcl
//
// Every extension owns a namesake feature whose ID equals the extension ID.
// Templates and placement files found in an extension are always attributed
// to that feature.
package extensions
