package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"repocast/internal/generation"
	"repocast/internal/gateway"
	"repocast/internal/library"
	"repocast/internal/player"
)

type idleGateway struct{}

func (idleGateway) StartGeneration(ctx context.Context, repoURL, language string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (idleGateway) WorkflowStatus(ctx context.Context, workflowID string) (gateway.Status, error) {
	return gateway.Status{}, ctx.Err()
}

func (idleGateway) Ping(context.Context) error { return nil }

type nopTransport struct{}

func (nopTransport) Play(string, time.Duration, func(error)) (func(), error) {
	return func() {}, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	runner := generation.NewRunner(idleGateway{}, generation.Settings{PollInterval: time.Millisecond}, nil)
	t.Cleanup(runner.Stop)
	return NewModel(context.Background(), Deps{
		Runner:  runner,
		Session: player.NewSession(nopTransport{}, nil),
	})
}

func typeString(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestFormEditingTracksValidity(t *testing.T) {
	m := newTestModel(t)
	if m.CanSubmit() {
		t.Fatal("empty form must not be submittable")
	}

	m = typeString(t, m, "https://github.com/foo/bar")
	if !m.urlValid || !m.CanSubmit() {
		t.Errorf("valid URL must enable submission, input=%q", m.urlInput)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(Model)
	if m.urlInput != "https://github.com/foo/ba" {
		t.Errorf("backspace result = %q", m.urlInput)
	}

	m = typeString(t, m, "!!")
	if m.urlValid {
		t.Error("invalid characters must clear validity")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlU})
	m = next.(Model)
	if m.urlInput != "" {
		t.Errorf("ctrl+u must clear the buffer, got %q", m.urlInput)
	}
}

func TestLanguageCycling(t *testing.T) {
	m := newTestModel(t)
	if got := m.Language().Wire(); got != "english" {
		t.Fatalf("default language = %q", got)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if got := m.Language().Wire(); got != "mandarin" {
		t.Errorf("after right = %q", got)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(Model)
	if got := m.Language().Wire(); got != "hindi" {
		t.Errorf("cycling wraps backwards, got %q", got)
	}
}

func TestSubmitRejectsInvalidURL(t *testing.T) {
	m := typeString(t, newTestModel(t), "https://example.com/foo/bar")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.screen != screenForm {
		t.Error("invalid URL must stay on the form")
	}
	if m.formErr == "" {
		t.Error("invalid URL must surface an error message")
	}
}

func TestSubmitStartsWorkflow(t *testing.T) {
	m := typeString(t, newTestModel(t), "https://github.com/foo/bar")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	if m.screen != screenWaiting {
		t.Fatal("valid submission must move to the waiting screen")
	}
	if cmd == nil {
		t.Fatal("submission must arm the update listener")
	}
	if m.request.Reference.String() != "foo/bar" {
		t.Errorf("request reference = %q", m.request.Reference.String())
	}
}

func TestGenerationFailureReturnsToForm(t *testing.T) {
	m := typeString(t, newTestModel(t), "https://github.com/foo/bar")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	next, _ = m.Update(generationMsg{Seq: m.seq, Update: generation.Update{
		Phase: generation.PhaseFailed,
		Err:   errors.New("gateway returned 502"),
	}})
	m = next.(Model)
	if m.screen != screenForm {
		t.Error("failure must return to the form")
	}
	if !strings.Contains(m.formErr, "gateway returned 502") {
		t.Errorf("formErr = %q", m.formErr)
	}
	if m.urlInput == "" {
		t.Error("failure must keep the typed URL")
	}
}

func TestStaleGenerationUpdateIgnored(t *testing.T) {
	m := typeString(t, newTestModel(t), "https://github.com/foo/bar")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	next, _ = m.Update(generationMsg{Seq: m.seq - 1, Update: generation.Update{
		Phase: generation.PhaseFailed,
		Err:   errors.New("old run"),
	}})
	m = next.(Model)
	if m.screen != screenWaiting {
		t.Error("stale updates must not change the screen")
	}
}

func TestEscCancelsWaiting(t *testing.T) {
	m := typeString(t, newTestModel(t), "https://github.com/foo/bar")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.screen != screenForm {
		t.Error("esc must return to the form")
	}
	if cmd == nil {
		t.Fatal("esc must stop the runner")
	}
	if msg := cmd(); msg != (cancelledMsg{}) {
		t.Errorf("stop command returned %#v", msg)
	}
}

func TestEpisodeStoredEntersPlayback(t *testing.T) {
	m := typeString(t, newTestModel(t), "https://github.com/foo/bar")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	episode := library.Episode{
		ID:              "ep-1",
		RepoOwner:       "foo",
		RepoName:        "bar",
		Language:        "english",
		AudioPath:       "/tmp/foo-bar.mp3",
		DurationSeconds: 120,
	}
	next, _ = m.Update(episodeStoredMsg{Seq: m.seq, Episode: episode})
	m = next.(Model)
	if m.screen != screenPlayback {
		t.Fatal("stored episode must enter playback")
	}
	if m.episode.ID != "ep-1" {
		t.Errorf("episode = %+v", m.episode)
	}
	state := m.deps.Session.State()
	if state.Duration != 2*time.Minute {
		t.Errorf("session duration = %s", state.Duration)
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	updates := make(chan generation.Update, 2)
	for i := 0; i < 10; i++ {
		publish(updates, generation.Update{Polls: i})
	}
	publish(updates, generation.Update{Phase: generation.PhaseReady, Polls: 10})

	var last generation.Update
	for {
		select {
		case last = <-updates:
			continue
		default:
		}
		break
	}
	if last.Phase != generation.PhaseReady {
		t.Errorf("newest update must survive overflow, got %+v", last)
	}
}

func TestViewShowsFormHints(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	for _, want := range []string{"repocast", "Repository URL", "Language", "English"} {
		if !strings.Contains(view, want) {
			t.Errorf("form view missing %q", want)
		}
	}

	m = typeString(t, m, "https://github.com/foo/bar")
	if !strings.Contains(m.View(), "Press Enter to generate") {
		t.Error("valid form must invite submission")
	}
}

func TestViewWaitingShowsWorkflow(t *testing.T) {
	m := typeString(t, newTestModel(t), "https://github.com/foo/bar")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	next, _ = m.Update(generationMsg{Seq: m.seq, Update: generation.Update{
		Phase:      generation.PhasePolling,
		WorkflowID: "wf-123",
		Status:     "synthesizing audio",
		Polls:      4,
		Elapsed:    17 * time.Second,
	}})
	m = next.(Model)

	view := m.View()
	for _, want := range []string{"foo/bar", "wf-123", "synthesizing audio", "Polls: 4"} {
		if !strings.Contains(view, want) {
			t.Errorf("waiting view missing %q", want)
		}
	}
}
