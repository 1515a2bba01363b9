package internal

// Version is the current vocabdeck release.
const Version = "0.3.0"
