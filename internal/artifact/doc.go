// Package artifact downloads generated podcast audio into the episode
// library.
package artifact
