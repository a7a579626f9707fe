package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"repocast/internal/library"
	"repocast/internal/player"
	"repocast/internal/tui"
)

// playEpisode opens the playback screen on a terminal, or runs the player in
// the foreground when output is redirected.
func playEpisode(cmd *cobra.Command, cctx *commandContext, episode library.Episode) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(episode.AudioPath); err != nil {
		return fmt.Errorf("audio file missing for episode %s: %w", shortID(episode.ID), err)
	}

	transport := player.NewProcessTransport(
		player.WithBinary(cfg.Player.Binary),
		player.WithExtraArgs(cfg.Player.ExtraArgs),
	)

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return waitForExit(cmd, transport, episode.AudioPath)
	}

	logger, err := cctx.fileLogger()
	if err != nil {
		return err
	}
	return tui.Run(cmd.Context(), tui.Deps{
		Config:         cfg,
		Session:        player.NewSession(transport, logger),
		Logger:         logger,
		InitialEpisode: &episode,
	})
}
