// Package dictionary looks up English definitions in an online sense
// inventory. Only the gloss of the first listed sense is used.
package dictionary
