// Package translation translates English definitions and words into the
// learner's language (Vietnamese by default). Providers are the public Google
// translate endpoint, OpenAI chat models and Gemini. The Service wrapper never
// fails: it reports whether the text was really translated or passed through.
package translation
