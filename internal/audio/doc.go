// Package audio synthesizes spoken pronunciations of English words.
package audio
