package player

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeTransport struct {
	mu       sync.Mutex
	starts   []time.Duration
	startErr error
	onExit   func(error)
	stopped  int
}

func (f *fakeTransport) Play(path string, offset time.Duration, onExit func(error)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return nil, f.startErr
	}
	f.starts = append(f.starts, offset)
	f.onExit = onExit
	return func() {
		f.mu.Lock()
		f.stopped++
		f.mu.Unlock()
	}, nil
}

func (f *fakeTransport) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.starts)
}

func (f *fakeTransport) lastOffset() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.starts) == 0 {
		return -1
	}
	return f.starts[len(f.starts)-1]
}

func TestLoadWithAutoplay(t *testing.T) {
	transport := &fakeTransport{}
	session := NewSession(transport, nil)

	session.Load("/tmp/episode.mp3", 2*time.Minute, true)

	state := session.State()
	if !state.Playing {
		t.Error("expected playing after autoplay load")
	}
	if state.Duration != 2*time.Minute {
		t.Errorf("duration = %v", state.Duration)
	}
	if transport.startCount() != 1 {
		t.Errorf("starts = %d, want 1", transport.startCount())
	}
}

func TestAutoplayFailureStaysPaused(t *testing.T) {
	transport := &fakeTransport{startErr: errors.New("no audio device")}
	session := NewSession(transport, nil)

	session.Load("/tmp/episode.mp3", time.Minute, true)

	if session.State().Playing {
		t.Error("autoplay failure must leave the session paused")
	}
}

func TestTickAdvancesAndClamps(t *testing.T) {
	transport := &fakeTransport{}
	session := NewSession(transport, nil)
	session.Load("/tmp/episode.mp3", 2*time.Second, true)

	session.Tick()
	if got := session.State().Position; got != time.Second {
		t.Errorf("position after one tick = %v", got)
	}
	session.Tick()
	session.Tick()
	if got := session.State().Position; got != 2*time.Second {
		t.Errorf("position must clamp to duration, got %v", got)
	}
}

func TestTickWhilePausedDoesNothing(t *testing.T) {
	session := NewSession(&fakeTransport{}, nil)
	session.Load("/tmp/episode.mp3", time.Minute, false)
	session.Tick()
	if got := session.State().Position; got != 0 {
		t.Errorf("paused tick moved position to %v", got)
	}
}

func TestToggle(t *testing.T) {
	transport := &fakeTransport{}
	session := NewSession(transport, nil)
	session.Load("/tmp/episode.mp3", time.Minute, false)

	session.Toggle()
	if !session.State().Playing {
		t.Fatal("expected playing after toggle")
	}
	session.Toggle()
	if session.State().Playing {
		t.Fatal("expected paused after second toggle")
	}
	if transport.stopped != 1 {
		t.Errorf("stop calls = %d, want 1", transport.stopped)
	}
}

func TestSeekWhilePlayingRestartsAtOffset(t *testing.T) {
	transport := &fakeTransport{}
	session := NewSession(transport, nil)
	session.Load("/tmp/episode.mp3", time.Minute, true)

	for i := 0; i < 5; i++ {
		session.Tick()
	}
	session.SeekBy(SeekStep)

	state := session.State()
	if state.Position != 15*time.Second {
		t.Errorf("position = %v, want 15s", state.Position)
	}
	if !state.Playing {
		t.Error("seek must keep playing")
	}
	if transport.lastOffset() != 15*time.Second {
		t.Errorf("player restarted at %v, want 15s", transport.lastOffset())
	}
}

func TestSeekClampsToBounds(t *testing.T) {
	session := NewSession(&fakeTransport{}, nil)
	session.Load("/tmp/episode.mp3", 30*time.Second, false)

	session.SeekBy(-SeekStep)
	if got := session.State().Position; got != 0 {
		t.Errorf("seek below zero gave %v", got)
	}
	session.SeekBy(5 * time.Minute)
	if got := session.State().Position; got != 30*time.Second {
		t.Errorf("seek past end gave %v", got)
	}
}

func TestNaturalExitMarksFinished(t *testing.T) {
	transport := &fakeTransport{}
	session := NewSession(transport, nil)
	session.Load("/tmp/episode.mp3", time.Minute, true)

	transport.onExit(nil)

	state := session.State()
	if state.Playing {
		t.Error("expected paused after natural exit")
	}
	if state.Position != time.Minute {
		t.Errorf("position = %v, want full duration", state.Position)
	}
}

func TestStaleExitCallbackIgnored(t *testing.T) {
	transport := &fakeTransport{}
	session := NewSession(transport, nil)
	session.Load("/tmp/episode.mp3", time.Minute, true)

	stale := transport.onExit
	session.Pause()
	session.Play()

	// The first process's exit must not stop the replacement.
	stale(errors.New("killed"))
	if !session.State().Playing {
		t.Error("stale exit callback stopped the new process")
	}
}

func TestRestart(t *testing.T) {
	transport := &fakeTransport{}
	session := NewSession(transport, nil)
	session.Load("/tmp/episode.mp3", time.Minute, true)
	for i := 0; i < 10; i++ {
		session.Tick()
	}

	session.Restart()

	state := session.State()
	if state.Position != 0 {
		t.Errorf("position after restart = %v", state.Position)
	}
	if !state.Playing {
		t.Error("restart must resume playback")
	}
	if transport.lastOffset() != 0 {
		t.Errorf("player restarted at %v, want 0", transport.lastOffset())
	}
}
