// Package tui is the terminal front end: the same Search and Detail screens
// as the web pages, drawn with Bubble Tea.
package tui
