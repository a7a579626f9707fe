package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"repocast/internal/generation"
	"repocast/internal/logging"
	"repocast/internal/player"
	"repocast/internal/repourl"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case generationMsg:
		return m.handleGenerationUpdate(msg)
	case episodeStoredMsg:
		return m.handleEpisodeStored(msg)
	case cancelledMsg:
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.screen {
	case screenForm:
		return m.handleFormKey(msg)
	case screenWaiting:
		return m.handleWaitingKey(msg)
	case screenPlayback:
		return m.handlePlaybackKey(msg)
	}
	return m, nil
}

// handleFormKey edits the URL buffer and cycles the language. The URL field
// has no cursor; input appends and backspace trims.
func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		return m.submit()
	case tea.KeyBackspace:
		if m.urlInput != "" {
			runes := []rune(m.urlInput)
			m.setInput(string(runes[:len(runes)-1]))
		}
		return m, nil
	case tea.KeyCtrlU:
		m.setInput("")
		return m, nil
	case tea.KeyLeft, tea.KeyShiftTab:
		m.langIdx = (m.langIdx + len(m.languages) - 1) % len(m.languages)
		return m, nil
	case tea.KeyRight, tea.KeyTab:
		m.langIdx = (m.langIdx + 1) % len(m.languages)
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		if strings.TrimSpace(text) == "" {
			return m, nil
		}
		m.setInput(m.urlInput + text)
		return m, nil
	}
	return m, nil
}

func (m Model) handleWaitingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.saving {
		// The artifact download finishes on its own; only quit is honored.
		if msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.seq++
		m.screen = screenForm
		m.formErr = "generation cancelled"
		return m, stopRunner(m.deps.Runner)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handlePlaybackKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case " ":
		m.deps.Session.Toggle()
		return m, nil
	case "left":
		m.deps.Session.SeekBy(-player.SeekStep)
		return m, nil
	case "right":
		m.deps.Session.SeekBy(player.SeekStep)
		return m, nil
	case "r":
		m.deps.Session.Restart()
		return m, nil
	case "d":
		copied, err := copyToWorkingDir(m.episode.AudioPath)
		if err != nil {
			m.copyNote = "copy failed: " + err.Error()
		} else {
			m.copyNote = "copied to " + copied
		}
		return m, nil
	case "n":
		// Back to the form for another episode; playback keeps running
		// until a new artifact is loaded.
		m.screen = screenForm
		m.formErr = ""
		return m, nil
	}
	return m, nil
}

// submit validates the form and launches the generation workflow.
func (m Model) submit() (tea.Model, tea.Cmd) {
	trimmed := strings.TrimSpace(m.urlInput)
	reference, ok := repourl.Parse(trimmed)
	if !ok {
		m.formErr = "enter a repository URL like https://github.com/owner/name"
		return m, nil
	}
	if m.deps.Runner == nil {
		// Playback-only invocations have no workflow wiring.
		m.formErr = "generation is not available here; run `repocast generate`"
		return m, nil
	}

	m.seq++
	m.request = generation.Request{Reference: reference, Language: m.Language()}
	m.updates = make(chan generation.Update, 64)
	m.progress = generation.Update{Phase: generation.PhaseSubmitting}
	m.startedAt = m.now
	if m.startedAt.IsZero() {
		m.startedAt = timeNow()
	}
	m.formErr = ""
	m.saving = false
	m.screen = screenWaiting

	updates := m.updates
	m.deps.Runner.Start(m.ctx, m.request, func(update generation.Update) {
		publish(updates, update)
	})
	return m, waitForUpdate(m.seq, updates)
}

// publish delivers an update without ever blocking the runner goroutine.
// When the buffer is full the oldest entry is discarded, so terminal updates
// always land.
func publish(updates chan generation.Update, update generation.Update) {
	for {
		select {
		case updates <- update:
			return
		default:
			select {
			case <-updates:
			default:
			}
		}
	}
}

func (m Model) handleGenerationUpdate(msg generationMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq || m.screen != screenWaiting {
		return m, nil
	}

	m.progress = msg.Update
	switch msg.Update.Phase {
	case generation.PhaseFailed:
		m.deps.Logger.Error("generation failed", logging.Error(msg.Update.Err))
		if m.deps.Notifier != nil {
			notifier, request := m.deps.Notifier, m.request
			err := msg.Update.Err
			go func() {
				_ = notifier.NotifyGenerationFailed(m.ctx, request.Reference.String(), err)
			}()
		}
		m.screen = screenForm
		m.formErr = errorText(msg.Update.Err)
		return m, nil
	case generation.PhaseReady:
		m.saving = true
		result := generation.Result{
			WorkflowID: msg.Update.WorkflowID,
			Artifact:   msg.Update.Artifact,
			Polls:      msg.Update.Polls,
			Elapsed:    msg.Update.Elapsed,
		}
		return m, storeEpisode(m.deps, m.seq, m.request, result)
	default:
		return m, waitForUpdate(m.seq, m.updates)
	}
}

func (m Model) handleEpisodeStored(msg episodeStoredMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.seq {
		return m, nil
	}
	m.saving = false
	if msg.Err != nil {
		m.screen = screenForm
		m.formErr = errorText(msg.Err)
		return m, nil
	}

	m.episode = msg.Episode
	m.screen = screenPlayback
	autoplay := m.deps.Config != nil && m.deps.Config.Player.Autoplay
	m.deps.Session.Load(
		msg.Episode.AudioPath,
		secondsToDuration(msg.Episode.DurationSeconds),
		autoplay,
	)
	return m, nil
}

func (m Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	m.now = msg.Time
	if m.screen == screenPlayback {
		m.deps.Session.Tick()
	}
	return m, tickCmd()
}

func errorText(err error) string {
	if err == nil {
		return "generation failed"
	}
	return err.Error()
}
