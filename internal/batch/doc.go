// Package batch turns freeform user input (a text area or a file) into the
// ordered list of vocabulary words processed by the pipeline.
package batch
