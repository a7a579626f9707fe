package main

import (
	"time"

	"github.com/dustin/go-humanize"

	"repocast/internal/library"
)

// shortID is the prefix length shown in tables; Resolve accepts prefixes.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

type episodeJSON struct {
	ID              string  `json:"id"`
	Repo            string  `json:"repo"`
	Language        string  `json:"language"`
	WorkflowID      string  `json:"workflow_id"`
	ArtifactURL     string  `json:"artifact_url"`
	AudioPath       string  `json:"audio_path"`
	DurationSeconds float64 `json:"duration_seconds"`
	SizeBytes       int64   `json:"size_bytes"`
	CreatedAt       string  `json:"created_at"`
}

func episodeView(episode library.Episode) episodeJSON {
	return episodeJSON{
		ID:              episode.ID,
		Repo:            episode.Repo(),
		Language:        episode.Language,
		WorkflowID:      episode.WorkflowID,
		ArtifactURL:     episode.ArtifactURL,
		AudioPath:       episode.AudioPath,
		DurationSeconds: episode.DurationSeconds,
		SizeBytes:       episode.SizeBytes,
		CreatedAt:       episode.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func episodeRow(episode library.Episode) []string {
	runtime := "unknown"
	if episode.DurationSeconds > 0 {
		runtime = library.FormatRuntime(episode.DurationSeconds)
	}
	return []string{
		shortID(episode.ID),
		episode.Repo(),
		episode.Language,
		runtime,
		humanize.Bytes(uint64(episode.SizeBytes)),
		humanize.Time(episode.CreatedAt),
	}
}
