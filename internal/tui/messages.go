package tui

import (
	"time"

	"repocast/internal/generation"
	"repocast/internal/library"
)

// generationMsg carries one workflow update from the runner goroutine. Seq
// identifies the submission it belongs to; stale messages are dropped.
type generationMsg struct {
	Seq    int
	Update generation.Update
}

// episodeStoredMsg reports the outcome of the download-probe-record pipeline
// that runs after a workflow finishes.
type episodeStoredMsg struct {
	Seq     int
	Episode library.Episode
	Err     error
}

// cancelledMsg is sent after the active run has been stopped and drained.
type cancelledMsg struct{}

// tickMsg drives the clock: elapsed time on the waiting screen and the
// playback position counter.
type tickMsg struct {
	Time time.Time
}
