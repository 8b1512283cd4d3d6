// Package shapes builds the shape table of a shell.
//
// Providers describe shapes into a TableBuilder: template discovery binds
// shape types to template files, placement files attach placement rules.
// Every description is attributed to the feature that contributed it.
// Build applies the descriptions in feature order so that features
// enabled later (themes in particular) override earlier bindings.
package shapes
