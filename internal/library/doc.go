// Package library persists completed podcast episodes in a SQLite database
// alongside their downloaded audio files.
package library
