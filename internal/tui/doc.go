// Package tui implements the interactive terminal front end: a submission
// form, a waiting screen driven by workflow updates, and a playback screen
// for the finished episode.
package tui
