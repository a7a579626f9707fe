package player

import (
	"log/slog"
	"sync"
	"time"

	"repocast/internal/logging"
)

// State is a snapshot of the transport panel.
type State struct {
	Position time.Duration
	Duration time.Duration
	Playing  bool
}

// SeekStep is the distance covered by a single seek action.
const SeekStep = 10 * time.Second

// Session owns playback state for one loaded episode. Position advances on
// Tick while playing, clamps to the known duration, and seeking restarts the
// player process at the new offset.
type Session struct {
	transport Transport
	logger    *slog.Logger

	mu       sync.Mutex
	path     string
	position time.Duration
	duration time.Duration
	playing  bool
	stop     func()
	// gen invalidates exit callbacks from superseded player processes.
	gen int
}

// NewSession builds a session over the given transport. A nil logger
// disables logging.
func NewSession(transport Transport, logger *slog.Logger) *Session {
	return &Session{
		transport: transport,
		logger:    logging.WithComponent(logger, "player"),
	}
}

// Load points the session at an audio file and optionally starts playback.
// An autoplay failure is logged and leaves the session paused; it is never
// surfaced as an error.
func (s *Session) Load(path string, duration time.Duration, autoplay bool) {
	s.mu.Lock()
	s.haltLocked()
	s.path = path
	s.duration = duration
	s.position = 0
	s.mu.Unlock()

	if autoplay {
		s.Play()
	}
}

// Play starts or resumes playback from the current position. Start failures
// are logged and leave the session paused.
func (s *Session) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

// Pause stops the player process and keeps the current position.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltLocked()
}

// Toggle flips between playing and paused.
func (s *Session) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing {
		s.haltLocked()
		return
	}
	s.startLocked()
}

// SeekBy moves the position by delta, clamped to [0, duration]. When
// playing, the player restarts at the new offset.
func (s *Session) SeekBy(delta time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.position + delta
	if next < 0 {
		next = 0
	}
	if s.duration > 0 && next > s.duration {
		next = s.duration
	}
	s.position = next

	if s.playing {
		s.haltLocked()
		s.startLocked()
	}
}

// Restart rewinds to the beginning and starts playback.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltLocked()
	s.position = 0
	s.startLocked()
}

// Tick advances the position by one second while playing. The TUI calls this
// on its clock tick.
func (s *Session) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return
	}
	s.position += time.Second
	if s.duration > 0 && s.position > s.duration {
		s.position = s.duration
	}
}

// State returns a snapshot of the transport.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Position: s.position, Duration: s.duration, Playing: s.playing}
}

// Close stops any running player process.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.haltLocked()
}

func (s *Session) startLocked() {
	if s.playing || s.path == "" {
		return
	}

	s.gen++
	gen := s.gen
	stop, err := s.transport.Play(s.path, s.position, func(exitErr error) {
		s.onExit(gen, exitErr)
	})
	if err != nil {
		// Autoplay rejection and missing binaries land here; stay paused.
		s.logger.Warn("playback did not start", logging.Error(err))
		return
	}
	s.stop = stop
	s.playing = true
}

func (s *Session) haltLocked() {
	if s.stop != nil {
		s.gen++ // ignore the exit callback from the stopped process
		s.stop()
		s.stop = nil
	}
	s.playing = false
}

func (s *Session) onExit(gen int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.playing = false
	s.stop = nil
	if err != nil {
		s.logger.Warn("player exited with error", logging.Error(err))
		return
	}
	// Natural end of the file.
	if s.duration > 0 {
		s.position = s.duration
	}
}
