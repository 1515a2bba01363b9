// Package anki assembles flashcards and packages them as Anki decks.
//
// Cards use the Basic note type: the Front shows the picture, the word with
// its part of speech and an optional pronunciation clip, the Back holds the
// Vietnamese translation. Decks are written as .apkg files (zipped sqlite
// collection plus media) or as a plain CSV export.
package anki
