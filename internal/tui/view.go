package tui

import (
	"fmt"
	"strings"

	"repocast/internal/generation"
	"repocast/internal/library"
	"repocast/internal/player"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("repocast"))
	b.WriteString("\n\n")

	switch m.screen {
	case screenForm:
		b.WriteString(m.viewForm())
	case screenWaiting:
		b.WriteString(m.viewWaiting())
	case screenPlayback:
		b.WriteString(m.viewPlayback())
	}

	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder

	b.WriteString(infoStyle.Render("Repository URL"))
	b.WriteString("\n")
	field := m.urlInput
	if field == "" {
		field = infoStyle.Render("https://github.com/owner/name")
	}
	style := inputStyle
	if m.urlInput != "" && !m.urlValid {
		style = invalidInputStyle
	}
	b.WriteString(style.Render(field + "█"))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Language"))
	b.WriteString("\n")
	var choices []string
	for i, lang := range m.languages {
		label := lang.Display()
		if i == m.langIdx {
			label = highlightStyle.Render(label)
		} else {
			label = infoStyle.Render(label)
		}
		choices = append(choices, label)
	}
	b.WriteString(strings.Join(choices, "  "))
	b.WriteString("\n\n")

	if m.formErr != "" {
		b.WriteString(errorStyle.Render(m.formErr))
		b.WriteString("\n\n")
	}

	if m.CanSubmit() {
		b.WriteString(statusStyle.Render("Press Enter to generate"))
	} else {
		b.WriteString(infoStyle.Render("Enter a github.com repository URL"))
	}
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("←/→ language | Enter submit | Esc quit"))
	return b.String()
}

func (m Model) viewWaiting() string {
	var b strings.Builder

	b.WriteString(statusStyle.Render(fmt.Sprintf("Generating podcast for %s (%s)",
		m.request.Reference.String(), m.request.Language.Display())))
	b.WriteString("\n\n")

	if m.saving {
		b.WriteString(statusStyle.Render("Downloading episode..."))
		b.WriteString("\n")
	} else {
		switch m.progress.Phase {
		case generation.PhaseSubmitting:
			b.WriteString(infoStyle.Render("Submitting request..."))
			b.WriteString("\n")
		default:
			line := "Waiting for the backend"
			if m.progress.Status != "" {
				line = fmt.Sprintf("Backend: %s", m.progress.Status)
			}
			b.WriteString(infoStyle.Render(line))
			b.WriteString("\n")
		}
	}

	if m.progress.WorkflowID != "" {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Workflow: %s", m.progress.WorkflowID)))
		b.WriteString("\n")
	}
	elapsed := m.progress.Elapsed
	if !m.startedAt.IsZero() && !m.now.IsZero() && m.now.After(m.startedAt) {
		elapsed = m.now.Sub(m.startedAt)
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf("Elapsed: %s | Polls: %d",
		player.FormatTime(elapsed.Seconds()), m.progress.Polls)))
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Esc cancel | q quit"))
	return b.String()
}

func (m Model) viewPlayback() string {
	var b strings.Builder

	state := m.deps.Session.State()
	b.WriteString(boxStyle.Render(renderEpisodeCard(m.episode, state)))
	b.WriteString("\n\n")
	if m.copyNote != "" {
		b.WriteString(infoStyle.Render(m.copyNote))
		b.WriteString("\n")
	}
	b.WriteString(infoStyle.Render("Space play/pause | ←/→ seek 10s | r restart | d save copy | n new | q quit"))
	return b.String()
}

func renderEpisodeCard(episode library.Episode, state player.State) string {
	var b strings.Builder

	b.WriteString(highlightStyle.Render(episode.Repo()))
	b.WriteString("\n\n")

	indicator := "▶"
	if !state.Playing {
		indicator = "⏸"
	}
	b.WriteString(fmt.Sprintf("%s  %s / %s\n",
		indicator,
		player.FormatTime(state.Position.Seconds()),
		player.FormatTime(state.Duration.Seconds()),
	))

	b.WriteString(infoStyle.Render(fmt.Sprintf("Language: %s", episode.Language)))
	b.WriteString("\n")
	if episode.ArtifactURL != "" {
		b.WriteString(infoStyle.Render(fmt.Sprintf("Artifact: %s", episode.ArtifactURL)))
		b.WriteString("\n")
	}
	b.WriteString(infoStyle.Render(fmt.Sprintf("Saved to: %s", episode.AudioPath)))
	return b.String()
}
