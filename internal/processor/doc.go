// Package processor runs the flashcard pipeline.
//
// For every word it tags the part of speech, looks up a definition,
// translates it, fetches a picture and synthesizes a pronunciation, then
// assembles one card and finally packages the whole deck into the run
// directory. Words are handled one after another with a short pause in
// between; no step runs concurrently.
package processor
