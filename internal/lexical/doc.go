// Package lexical tags English words with a coarse part of speech.
// Tagging is delegated to the prose averaged perceptron model; this package
// only folds Penn Treebank tags into a small closed set of categories.
package lexical
