// Package models lists the OpenAI models usable for translation and
// speech, to help choose values for --openai-model and audio.openai_model.
package models
