package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Episode is one completed generation recorded in the library.
type Episode struct {
	ID              string
	RepoOwner       string
	RepoName        string
	Language        string
	WorkflowID      string
	ArtifactURL     string
	AudioPath       string
	DurationSeconds float64
	SizeBytes       int64
	CreatedAt       time.Time
}

// Repo renders the owner/name reference.
func (e Episode) Repo() string {
	return e.RepoOwner + "/" + e.RepoName
}

const episodeColumns = "id, repo_owner, repo_name, language, workflow_id, artifact_url, audio_path, duration_seconds, size_bytes, created_at"

// Add inserts an episode. A missing ID or CreatedAt is filled in.
func (s *Store) Add(ctx context.Context, episode *Episode) error {
	if episode == nil {
		return errors.New("episode required")
	}
	if strings.TrimSpace(episode.ID) == "" {
		episode.ID = uuid.NewString()
	}
	if episode.CreatedAt.IsZero() {
		episode.CreatedAt = time.Now().UTC()
	}

	_, err := s.execWithRetry(ctx,
		`INSERT INTO episodes (`+episodeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		episode.ID,
		episode.RepoOwner,
		episode.RepoName,
		episode.Language,
		episode.WorkflowID,
		episode.ArtifactURL,
		episode.AudioPath,
		episode.DurationSeconds,
		episode.SizeBytes,
		episode.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", err)
	}
	return nil
}

// List returns all episodes, newest first.
func (s *Store) List(ctx context.Context) ([]Episode, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer rows.Close()

	var episodes []Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		episodes = append(episodes, episode)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return episodes, nil
}

// Get fetches an episode by exact identifier.
func (s *Store) Get(ctx context.Context, id string) (Episode, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE id = ?`, id)
	episode, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Episode{}, ErrNotFound
	}
	return episode, err
}

// GetByWorkflow fetches the episode recorded for a gateway workflow id.
func (s *Store) GetByWorkflow(ctx context.Context, workflowID string) (Episode, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE workflow_id = ? ORDER BY created_at DESC LIMIT 1`, workflowID)
	episode, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Episode{}, ErrNotFound
	}
	return episode, err
}

// Resolve finds an episode by the CLI token forms: "latest", a full id, or a
// unique id prefix. Ambiguous prefixes are an error.
func (s *Store) Resolve(ctx context.Context, token string) (Episode, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Episode{}, errors.New("episode identifier required")
	}

	if strings.EqualFold(token, "latest") {
		episodes, err := s.List(ctx)
		if err != nil {
			return Episode{}, err
		}
		if len(episodes) == 0 {
			return Episode{}, ErrNotFound
		}
		return episodes[0], nil
	}

	if episode, err := s.Get(ctx, token); err == nil {
		return episode, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Episode{}, err
	}

	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE id LIKE ? LIMIT 2`, token+"%")
	if err != nil {
		return Episode{}, fmt.Errorf("resolve episode: %w", err)
	}
	defer rows.Close()

	var matches []Episode
	for rows.Next() {
		episode, err := scanEpisode(rows)
		if err != nil {
			return Episode{}, err
		}
		matches = append(matches, episode)
	}
	if err := rows.Err(); err != nil {
		return Episode{}, fmt.Errorf("resolve episode: %w", err)
	}

	switch len(matches) {
	case 0:
		return Episode{}, ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return Episode{}, fmt.Errorf("episode id prefix %q is ambiguous", token)
	}
}

// Delete removes an episode row and its audio file. A missing audio file is
// not an error.
func (s *Store) Delete(ctx context.Context, id string) error {
	episode, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	res, err := s.execWithRetry(ctx, `DELETE FROM episodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete episode: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}

	if episode.AudioPath != "" {
		if err := os.Remove(episode.AudioPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove audio file: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEpisode(row rowScanner) (Episode, error) {
	var episode Episode
	var createdAt string
	err := row.Scan(
		&episode.ID,
		&episode.RepoOwner,
		&episode.RepoName,
		&episode.Language,
		&episode.WorkflowID,
		&episode.ArtifactURL,
		&episode.AudioPath,
		&episode.DurationSeconds,
		&episode.SizeBytes,
		&createdAt,
	)
	if err != nil {
		return Episode{}, err
	}
	parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt)
	if parseErr != nil {
		return Episode{}, fmt.Errorf("parse created_at %q: %w", createdAt, parseErr)
	}
	episode.CreatedAt = parsed
	return episode, nil
}
