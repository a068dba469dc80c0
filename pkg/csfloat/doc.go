// Package csfloat is the HTTP client for the public screenshot API and the
// image host that serves the rendered screenshots.
//
// Every non-200 response becomes a typed *errors.Error carrying the status
// code, so callers can decide with errors.TypeOf whether to back off.
package csfloat
