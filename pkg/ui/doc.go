// Package ui holds the plain terminal output used by the batch commands:
// colored print helpers with a quiet mode, a single-line progress display,
// and optional desktop notifications. The interactive viewer lives in
// package tui.
package ui
