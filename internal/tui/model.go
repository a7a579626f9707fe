package tui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"repocast/internal/artifact"
	"repocast/internal/config"
	"repocast/internal/generation"
	"repocast/internal/language"
	"repocast/internal/library"
	"repocast/internal/logging"
	"repocast/internal/notifications"
	"repocast/internal/player"
	"repocast/internal/repourl"
)

// screen names the visible application screen.
type screen int

const (
	screenForm screen = iota
	screenWaiting
	screenPlayback
)

// Deps collects the collaborators the TUI drives. Probe may be nil, in which
// case stored episodes carry an unknown duration.
type Deps struct {
	Config     *config.Config
	Runner     *generation.Runner
	Store      *library.Store
	Downloader *artifact.Downloader
	Notifier   notifications.Service
	Session    *player.Session
	Probe      func(ctx context.Context, path string) (time.Duration, error)
	Logger     *slog.Logger

	// InitialURL prefills the submission form.
	InitialURL string
	// InitialLanguage preselects the form language when non-zero.
	InitialLanguage language.Language
	// InitialEpisode opens the session straight on the playback screen.
	InitialEpisode *library.Episode
}

// Model is the bubbletea application state.
type Model struct {
	deps   Deps
	ctx    context.Context
	screen screen

	// Form state. The URL input is a plain append/backspace buffer; validity
	// is recomputed on every edit.
	urlInput  string
	urlValid  bool
	languages []language.Language
	langIdx   int
	formErr   string

	// Waiting state.
	seq       int
	request   generation.Request
	updates   chan generation.Update
	progress  generation.Update
	startedAt time.Time
	saving    bool

	// Playback state.
	episode  library.Episode
	copyNote string
	now      time.Time
}

// NewModel builds the initial model on the submission form.
func NewModel(ctx context.Context, deps Deps) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	deps.Logger = logging.WithComponent(deps.Logger, "tui")
	m := Model{
		deps:      deps,
		ctx:       ctx,
		screen:    screenForm,
		languages: language.All(),
	}
	m.setInput(deps.InitialURL)
	if !deps.InitialLanguage.IsZero() {
		for i, lang := range m.languages {
			if lang == deps.InitialLanguage {
				m.langIdx = i
				break
			}
		}
	}
	if deps.InitialEpisode != nil {
		m.episode = *deps.InitialEpisode
		m.screen = screenPlayback
		if deps.Session != nil {
			deps.Session.Load(
				m.episode.AudioPath,
				secondsToDuration(m.episode.DurationSeconds),
				deps.Config != nil && deps.Config.Player.Autoplay,
			)
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Language returns the currently selected language.
func (m Model) Language() language.Language {
	return m.languages[m.langIdx]
}

// CanSubmit reports whether the form holds a submittable request.
func (m Model) CanSubmit() bool {
	return m.urlValid
}

// setInput replaces the URL buffer and recomputes validity.
func (m *Model) setInput(value string) {
	m.urlInput = value
	m.urlValid = repourl.IsValid(value)
}

// timeNow is swappable for tests.
var timeNow = time.Now

func secondsToDuration(seconds float64) time.Duration {
	if seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// Run drives a full interactive session and blocks until the user quits.
// The runner and player session are torn down before returning.
func Run(ctx context.Context, deps Deps) error {
	model := NewModel(ctx, deps)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	_, err := program.Run()
	if deps.Runner != nil {
		deps.Runner.Stop()
	}
	if deps.Session != nil {
		deps.Session.Close()
	}
	return err
}
