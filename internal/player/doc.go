// Package player drives audio playback through an external player binary and
// tracks transport state (position, duration, playing).
package player
