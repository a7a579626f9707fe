package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"repocast/internal/config"
	"repocast/internal/gateway"
	"repocast/internal/language"
	"repocast/internal/logging"
	"repocast/internal/repourl"
)

// ErrTimeout indicates the job did not finish within the configured maximum
// wait.
var ErrTimeout = errors.New("generation timed out")

// Phase names a state of the generation workflow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSubmitting Phase = "submitting"
	PhasePolling    Phase = "polling"
	PhaseReady      Phase = "ready"
	PhaseFailed     Phase = "failed"
)

// Request carries the validated inputs for one generation job.
type Request struct {
	Reference repourl.Reference
	Language  language.Language
}

// Update is delivered to the observer on every phase change and poll.
type Update struct {
	Phase      Phase
	WorkflowID string
	// Status is the last backend-reported progress text, when any.
	Status   string
	Polls    int
	Elapsed  time.Duration
	Artifact string
	Err      error
}

// Result describes a completed generation.
type Result struct {
	WorkflowID string
	Artifact   string
	Polls      int
	Elapsed    time.Duration
}

// Settings bounds the polling loop.
type Settings struct {
	// PollInterval is the initial delay between status checks.
	PollInterval time.Duration
	// PollBackoff multiplies the delay after each "still working" poll.
	// Values at or below 1 keep a fixed cadence.
	PollBackoff float64
	// PollIntervalMax caps the grown delay.
	PollIntervalMax time.Duration
	// MaxWait bounds the total time spent on one job. Zero waits forever.
	MaxWait time.Duration
}

// SettingsFromConfig maps workflow configuration onto runner settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		PollInterval:    cfg.PollInterval(),
		PollBackoff:     cfg.Workflow.PollBackoff,
		PollIntervalMax: cfg.PollIntervalMax(),
		MaxWait:         cfg.MaxWait(),
	}
}

// Runner executes generation jobs. At most one job is in flight at a time;
// starting a new one cancels the previous polling loop and waits for it to
// exit before submitting.
type Runner struct {
	gw       gateway.Service
	settings Settings
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner builds a Runner. A nil logger disables logging.
func NewRunner(gw gateway.Service, settings Settings, logger *slog.Logger) *Runner {
	if settings.PollInterval <= 0 {
		settings.PollInterval = 3 * time.Second
	}
	if settings.PollIntervalMax < settings.PollInterval {
		settings.PollIntervalMax = settings.PollInterval
	}
	return &Runner{
		gw:       gw,
		settings: settings,
		logger:   logging.WithComponent(logger, "generation"),
	}
}

// Run executes one full generation synchronously: submit, then poll until
// the job is ready, fails, times out, or ctx is cancelled. notify may be nil.
// Cancellation returns ctx.Err() without emitting a failure update.
func (r *Runner) Run(ctx context.Context, req Request, notify func(Update)) (Result, error) {
	if req.Reference.IsZero() {
		return Result{}, errors.New("repository reference required")
	}
	if req.Language.IsZero() {
		return Result{}, errors.New("language selection required")
	}
	if notify == nil {
		notify = func(Update) {}
	}

	start := time.Now()
	notify(Update{Phase: PhaseSubmitting})
	r.logger.Info("submitting generation job",
		logging.String(logging.FieldRepo, req.Reference.String()),
		logging.String(logging.FieldLanguage, req.Language.Wire()),
	)

	workflowID, err := r.gw.StartGeneration(ctx, req.Reference.URL(), req.Language.Wire())
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		err = fmt.Errorf("submit generation: %w", err)
		r.logger.Error("submission failed", logging.Error(err))
		notify(Update{Phase: PhaseFailed, Err: err, Elapsed: time.Since(start)})
		return Result{}, err
	}

	r.logger.Info("generation job accepted", logging.String(logging.FieldWorkflowID, workflowID))
	notify(Update{Phase: PhasePolling, WorkflowID: workflowID})

	return r.poll(ctx, start, workflowID, notify)
}

// poll issues status checks sequentially: each delay starts after the
// previous response lands, so overlapping requests cannot happen.
func (r *Runner) poll(ctx context.Context, start time.Time, workflowID string, notify func(Update)) (Result, error) {
	var deadline time.Time
	if r.settings.MaxWait > 0 {
		deadline = start.Add(r.settings.MaxWait)
	}

	delay := r.settings.PollInterval
	polls := 0
	lastStatus := ""

	for {
		if !deadline.IsZero() && time.Now().After(deadline) {
			err := fmt.Errorf("%w after %s", ErrTimeout, r.settings.MaxWait)
			r.logger.Error("generation timed out",
				logging.String(logging.FieldWorkflowID, workflowID),
				logging.Int("polls", polls),
			)
			notify(Update{Phase: PhaseFailed, Err: err, Polls: polls, Elapsed: time.Since(start)})
			return Result{}, err
		}

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-time.After(delay):
		}

		status, err := r.gw.WorkflowStatus(ctx, workflowID)
		polls++
		switch {
		case err == nil:
		case errors.Is(err, gateway.ErrNotRegistered):
			// The backend may not have registered the job at the first
			// poll; keep waiting silently.
			notify(Update{Phase: PhasePolling, WorkflowID: workflowID, Status: lastStatus, Polls: polls, Elapsed: time.Since(start)})
			delay = r.nextDelay(delay)
			continue
		case ctx.Err() != nil:
			return Result{}, ctx.Err()
		default:
			err = fmt.Errorf("poll status: %w", err)
			r.logger.Error("polling failed",
				logging.String(logging.FieldWorkflowID, workflowID),
				logging.Error(err),
			)
			notify(Update{Phase: PhaseFailed, Err: err, Polls: polls, Elapsed: time.Since(start)})
			return Result{}, err
		}

		if status.Done() {
			elapsed := time.Since(start)
			r.logger.Info("generation ready",
				logging.String(logging.FieldWorkflowID, workflowID),
				logging.Int("polls", polls),
				logging.Duration("elapsed", elapsed),
			)
			result := Result{WorkflowID: workflowID, Artifact: status.Result, Polls: polls, Elapsed: elapsed}
			notify(Update{Phase: PhaseReady, WorkflowID: workflowID, Polls: polls, Elapsed: elapsed, Artifact: status.Result})
			return result, nil
		}

		lastStatus = status.State
		if lastStatus != "" {
			r.logger.Debug("generation in progress",
				logging.String(logging.FieldWorkflowID, workflowID),
				logging.String("status", lastStatus),
				logging.Int("polls", polls),
			)
		}
		notify(Update{Phase: PhasePolling, WorkflowID: workflowID, Status: lastStatus, Polls: polls, Elapsed: time.Since(start)})
		delay = r.nextDelay(delay)
	}
}

func (r *Runner) nextDelay(current time.Duration) time.Duration {
	if r.settings.PollBackoff <= 1 {
		return current
	}
	grown := time.Duration(float64(current) * r.settings.PollBackoff)
	if grown > r.settings.PollIntervalMax {
		return r.settings.PollIntervalMax
	}
	return grown
}

// Start launches Run on a goroutine. Any previous run is cancelled and fully
// drained first, so two polling loops can never interleave.
func (r *Runner) Start(ctx context.Context, req Request, notify func(Update)) {
	r.mu.Lock()
	for r.cancel != nil {
		cancel, done := r.cancel, r.done
		r.mu.Unlock()
		cancel()
		<-done
		r.mu.Lock()
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer func() {
			r.mu.Lock()
			if r.done == done {
				r.cancel = nil
				r.done = nil
			}
			r.mu.Unlock()
			close(done)
		}()
		_, _ = r.Run(runCtx, req, notify)
	}()
}

// Stop cancels the active run, if any, and waits for its goroutine to exit.
// After Stop returns no further gateway requests are issued.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}
