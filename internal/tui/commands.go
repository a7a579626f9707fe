package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"repocast/internal/artifact"
	"repocast/internal/generation"
	"repocast/internal/library"
	"repocast/internal/logging"
)

// tickCmd schedules the next clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{Time: t}
	})
}

// waitForUpdate blocks until the runner publishes the next workflow update.
func waitForUpdate(seq int, updates chan generation.Update) tea.Cmd {
	return func() tea.Msg {
		return generationMsg{Seq: seq, Update: <-updates}
	}
}

// stopRunner cancels the active run and waits for its goroutine to exit.
func stopRunner(runner *generation.Runner) tea.Cmd {
	return func() tea.Msg {
		runner.Stop()
		return cancelledMsg{}
	}
}

// storeEpisode downloads the finished artifact, probes its duration, records
// it in the library, and fires the ready notification.
func storeEpisode(deps Deps, seq int, req generation.Request, result generation.Result) tea.Cmd {
	return func() tea.Msg {
		episode, err := SaveEpisode(context.Background(), deps, req, result)
		return episodeStoredMsg{Seq: seq, Episode: episode, Err: err}
	}
}

// copyToWorkingDir duplicates the stored audio file into the current working
// directory and returns the new file name.
func copyToWorkingDir(audioPath string) (string, error) {
	src, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := filepath.Base(audioPath)
	dst, err := os.Create(name)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(name)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// SaveEpisode is the post-generation pipeline: download the artifact, probe
// its duration, record it in the library, and fire the ready notification.
// The plain CLI path reuses it outside the tea program.
func SaveEpisode(ctx context.Context, deps Deps, req generation.Request, result generation.Result) (library.Episode, error) {
	logger := logging.WithComponent(deps.Logger, "episodes")
	stem := fmt.Sprintf("%s-%s-%s-%s",
		req.Reference.Owner,
		req.Reference.Name,
		req.Language.Wire(),
		time.Now().Format("2006-01-02-150405"),
	)

	download, err := deps.Downloader.Download(ctx, result.Artifact, deps.Config.Paths.LibraryDir, artifact.SanitizeStem(stem))
	if err != nil {
		return library.Episode{}, fmt.Errorf("download artifact: %w", err)
	}

	var durationSeconds float64
	if deps.Probe != nil {
		duration, probeErr := deps.Probe(ctx, download.Path)
		if probeErr != nil {
			// The episode is still playable without a known duration.
			logger.Warn("duration probe failed", logging.Error(probeErr))
		} else {
			durationSeconds = duration.Seconds()
		}
	}

	episode := library.Episode{
		RepoOwner:       req.Reference.Owner,
		RepoName:        req.Reference.Name,
		Language:        req.Language.Wire(),
		WorkflowID:      result.WorkflowID,
		ArtifactURL:     result.Artifact,
		AudioPath:       download.Path,
		DurationSeconds: durationSeconds,
		SizeBytes:       download.SizeBytes,
	}
	if err := deps.Store.Add(ctx, &episode); err != nil {
		return library.Episode{}, fmt.Errorf("record episode: %w", err)
	}

	if deps.Notifier != nil {
		if err := deps.Notifier.NotifyGenerationReady(ctx, req.Reference.String(), req.Language.Wire(), durationSeconds); err != nil {
			logger.Warn("ready notification failed", logging.Error(err))
		}
	}

	logger.Info("episode stored",
		logging.String(logging.FieldEpisodeID, episode.ID),
		logging.String(logging.FieldRepo, episode.Repo()),
		logging.String("path", episode.AudioPath),
	)
	return episode, nil
}
