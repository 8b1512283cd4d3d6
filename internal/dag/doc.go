// Package dag provides a small directed acyclic graph used to order
// features so that every feature comes after the features it depends on.
package dag
