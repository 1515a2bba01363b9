// Package web serves the browser front end: a form to paste words into,
// a result page with a per-word report and the deck download.
package web
