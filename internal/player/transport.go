package player

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

var commandContext = exec.CommandContext

// Transport starts audio playback of a file at an offset. onExit is invoked
// once when the player process ends, with a nil error for a clean finish.
// The returned stop function kills the process; the resulting exit error is
// suppressed.
type Transport interface {
	Play(path string, offset time.Duration, onExit func(error)) (stop func(), err error)
}

// ProcessTransport plays audio through an external player binary (ffplay by
// default).
type ProcessTransport struct {
	binary    string
	extraArgs []string
}

var _ Transport = (*ProcessTransport)(nil)

// Option configures a ProcessTransport.
type Option func(*ProcessTransport)

// WithBinary overrides the default player binary.
func WithBinary(binary string) Option {
	return func(t *ProcessTransport) {
		if binary != "" {
			t.binary = binary
		}
	}
}

// WithExtraArgs appends arguments to every player invocation.
func WithExtraArgs(args []string) Option {
	return func(t *ProcessTransport) {
		t.extraArgs = args
	}
}

// NewProcessTransport constructs a transport using defaults.
func NewProcessTransport(opts ...Option) *ProcessTransport {
	t := &ProcessTransport{binary: "ffplay"}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Play launches the player for path starting at offset.
func (t *ProcessTransport) Play(path string, offset time.Duration, onExit func(error)) (func(), error) {
	if path == "" {
		return nil, errors.New("audio path required")
	}
	if onExit == nil {
		onExit = func(error) {}
	}

	args := []string{"-nodisp", "-autoexit", "-loglevel", "error"}
	if offset > 0 {
		args = append(args, "-ss", strconv.FormatFloat(offset.Seconds(), 'f', 3, 64))
	}
	args = append(args, t.extraArgs...)
	args = append(args, path)

	ctx, cancel := context.WithCancel(context.Background())
	cmd := commandContext(ctx, t.binary, args...) //nolint:gosec
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("start player: %w", err)
	}

	go func() {
		err := cmd.Wait()
		if ctx.Err() != nil {
			// Killed by stop; not a playback failure.
			err = nil
		}
		onExit(err)
		cancel()
	}()

	return cancel, nil
}
