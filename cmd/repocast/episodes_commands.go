package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"repocast/internal/library"
	"repocast/internal/player"
)

func newEpisodesCommand(cctx *commandContext) *cobra.Command {
	episodesCmd := &cobra.Command{
		Use:   "episodes",
		Short: "Manage the local episode library",
	}

	episodesCmd.AddCommand(newEpisodesListCommand(cctx))
	episodesCmd.AddCommand(newEpisodesShowCommand(cctx))
	episodesCmd.AddCommand(newEpisodesPlayCommand(cctx))
	episodesCmd.AddCommand(newEpisodesRemoveCommand(cctx))

	return episodesCmd
}

func newEpisodesListCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored episodes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := cctx.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			episodes, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				views := make([]episodeJSON, 0, len(episodes))
				for _, episode := range episodes {
					views = append(views, episodeView(episode))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(episodes) == 0 {
				fmt.Fprintln(out, "No episodes yet. Generate one with `repocast generate`.")
				return nil
			}

			rows := make([][]string, 0, len(episodes))
			for _, episode := range episodes {
				rows = append(rows, episodeRow(episode))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Repository", "Language", "Runtime", "Size", "Created"},
				rows,
				4, 5,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit episodes as JSON")
	return cmd
}

func newEpisodesShowCommand(cctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <episode-id|latest>",
		Short: "Show one episode in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := cctx.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			episode, err := store.Resolve(cmd.Context(), args[0])
			if err != nil {
				return describeResolveError(args[0], err)
			}

			if jsonOut {
				return writeJSON(cmd, episodeView(episode))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", episode.ID)
			fmt.Fprintf(out, "Repository:  %s\n", episode.Repo())
			fmt.Fprintf(out, "Language:    %s\n", episode.Language)
			fmt.Fprintf(out, "Workflow:    %s\n", episode.WorkflowID)
			fmt.Fprintf(out, "Artifact:    %s\n", episode.ArtifactURL)
			fmt.Fprintf(out, "Audio file:  %s\n", episode.AudioPath)
			if episode.DurationSeconds > 0 {
				fmt.Fprintf(out, "Runtime:     %s\n", library.FormatRuntime(episode.DurationSeconds))
			}
			fmt.Fprintf(out, "Created:     %s\n", episode.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the episode as JSON")
	return cmd
}

func newEpisodesPlayCommand(cctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "play <episode-id|latest>",
		Short: "Play a stored episode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := cctx.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			episode, err := store.Resolve(cmd.Context(), args[0])
			if err != nil {
				return describeResolveError(args[0], err)
			}
			return playEpisode(cmd, cctx, episode)
		},
	}
}

func newEpisodesRemoveCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <episode-id|latest>",
		Aliases: []string{"rm"},
		Short:   "Delete an episode and its audio file",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cleanup, err := cctx.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			episode, err := store.Resolve(cmd.Context(), args[0])
			if err != nil {
				return describeResolveError(args[0], err)
			}
			if err := store.Delete(cmd.Context(), episode.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%s)\n", shortID(episode.ID), episode.Repo())
			return nil
		},
	}
	return cmd
}

func newPlayCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [episode-id|latest]",
		Short: "Play a stored episode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := "latest"
			if len(args) == 1 {
				token = args[0]
			}

			store, cleanup, err := cctx.openStore()
			if err != nil {
				return err
			}
			defer cleanup()

			episode, err := store.Resolve(cmd.Context(), token)
			if err != nil {
				return describeResolveError(token, err)
			}
			return playEpisode(cmd, cctx, episode)
		},
	}
	return cmd
}

func describeResolveError(token string, err error) error {
	if errors.Is(err, library.ErrNotFound) {
		return fmt.Errorf("no episode matches %q (see `repocast episodes list`)", token)
	}
	return err
}

// waitForExit blocks until the player process finishes or the command context
// is cancelled. Used by the non-interactive play path.
func waitForExit(cmd *cobra.Command, transport player.Transport, path string) error {
	exit := make(chan error, 1)
	stop, err := transport.Play(path, 0, func(playErr error) {
		exit <- playErr
	})
	if err != nil {
		return err
	}

	select {
	case err := <-exit:
		return err
	case <-cmd.Context().Done():
		stop()
		return cmd.Context().Err()
	}
}
