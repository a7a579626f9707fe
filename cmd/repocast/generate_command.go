package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"repocast/internal/artifact"
	"repocast/internal/config"
	"repocast/internal/generation"
	"repocast/internal/language"
	"repocast/internal/notifications"
	"repocast/internal/player"
	"repocast/internal/repourl"
	"repocast/internal/tui"
)

func newGenerateCommand(cctx *commandContext) *cobra.Command {
	var languageFlag string
	var plain bool
	var jsonOut bool
	var noPlay bool

	cmd := &cobra.Command{
		Use:   "generate [repository-url]",
		Short: "Generate a podcast episode from a GitHub repository",
		Long: "Submits a repository to the generation gateway, waits for the " +
			"episode to be produced, downloads it, and records it in the local " +
			"library. Without --plain on a terminal this opens the interactive UI.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}

			lang := language.Default()
			if trimmed := strings.TrimSpace(languageFlag); trimmed != "" {
				parsed, ok := language.Parse(trimmed)
				if !ok {
					return fmt.Errorf("unsupported language %q (see `repocast languages`)", trimmed)
				}
				lang = parsed
			}

			var repoArg string
			if len(args) == 1 {
				repoArg = strings.TrimSpace(args[0])
			}

			if noPlay {
				tweaked := *cfg
				tweaked.Player.Autoplay = false
				cfg = &tweaked
			}

			interactive := !plain && !jsonOut && isatty.IsTerminal(os.Stdout.Fd())
			if interactive {
				return runGenerateTUI(cmd.Context(), cctx, cfg, repoArg, lang)
			}
			return runGeneratePlain(cmd, cctx, cfg, repoArg, lang, jsonOut)
		},
	}

	cmd.Flags().StringVarP(&languageFlag, "language", "l", "", "Episode language (english, mandarin, spanish, hindi)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Log progress line by line instead of the interactive UI")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the stored episode as JSON (implies --plain)")
	cmd.Flags().BoolVar(&noPlay, "no-play", false, "Do not start playback when the episode is ready")
	return cmd
}

// buildDeps wires the workflow collaborators shared by the interactive and
// plain paths. The returned cleanup closes the library store.
func buildDeps(cctx *commandContext, cfg *config.Config, logger *slog.Logger, progress bool) (tui.Deps, func(), error) {
	gw, err := cctx.gatewayClient()
	if err != nil {
		return tui.Deps{}, nil, err
	}
	store, cleanup, err := cctx.openStore()
	if err != nil {
		return tui.Deps{}, nil, err
	}

	deps := tui.Deps{
		Config:     cfg,
		Runner:     generation.NewRunner(gw, generation.SettingsFromConfig(cfg), logger),
		Store:      store,
		Downloader: artifact.NewDownloader(artifact.WithProgress(progress), artifact.WithLogger(logger)),
		Notifier:   notifications.NewService(cfg),
		Probe: func(ctx context.Context, path string) (time.Duration, error) {
			return player.ProbeDuration(ctx, cfg.Player.FFprobeBinary, path)
		},
		Logger: logger,
	}
	return deps, cleanup, nil
}

func runGenerateTUI(ctx context.Context, cctx *commandContext, cfg *config.Config, repoArg string, lang language.Language) error {
	logger, err := cctx.fileLogger()
	if err != nil {
		return err
	}

	deps, cleanup, err := buildDeps(cctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer cleanup()

	deps.Session = player.NewSession(
		player.NewProcessTransport(
			player.WithBinary(cfg.Player.Binary),
			player.WithExtraArgs(cfg.Player.ExtraArgs),
		),
		logger,
	)
	deps.InitialURL = repoArg
	deps.InitialLanguage = lang

	return tui.Run(ctx, deps)
}

func runGeneratePlain(cmd *cobra.Command, cctx *commandContext, cfg *config.Config, repoArg string, lang language.Language, jsonOut bool) error {
	if repoArg == "" {
		return fmt.Errorf("repository URL required in non-interactive mode")
	}
	reference, ok := repourl.Parse(repoArg)
	if !ok {
		return fmt.Errorf("invalid repository URL %q (expected https://github.com/owner/name)", repoArg)
	}

	logger, err := cctx.ensureLogger()
	if err != nil {
		return err
	}

	progress := !jsonOut && isatty.IsTerminal(os.Stdout.Fd())
	deps, cleanup, err := buildDeps(cctx, cfg, logger, progress)
	if err != nil {
		return err
	}
	defer cleanup()

	out := cmd.OutOrStdout()
	req := generation.Request{Reference: reference, Language: lang}

	var lastStatus string
	notify := func(update generation.Update) {
		if jsonOut {
			return
		}
		switch update.Phase {
		case generation.PhaseSubmitting:
			fmt.Fprintf(out, "Submitting %s (%s)...\n", reference.String(), lang.Display())
		case generation.PhasePolling:
			if update.Polls == 0 {
				fmt.Fprintf(out, "Workflow accepted: %s\n", update.WorkflowID)
				return
			}
			if update.Status != "" && update.Status != lastStatus {
				lastStatus = update.Status
				fmt.Fprintf(out, "Backend: %s (elapsed %s)\n", update.Status, player.FormatTime(update.Elapsed.Seconds()))
			}
		}
	}

	result, err := deps.Runner.Run(cmd.Context(), req, notify)
	if err != nil {
		if notifyErr := deps.Notifier.NotifyGenerationFailed(cmd.Context(), reference.String(), err); notifyErr != nil {
			logger.Warn("failure notification failed", "error", notifyErr)
		}
		return err
	}

	episode, err := tui.SaveEpisode(cmd.Context(), deps, req, result)
	if err != nil {
		return err
	}

	if jsonOut {
		return writeJSON(cmd, episodeView(episode))
	}
	fmt.Fprintf(out, "Episode ready: %s\n", episode.AudioPath)
	fmt.Fprintf(out, "Episode id: %s\n", episode.ID)
	fmt.Fprintf(out, "Play it with: repocast play %s\n", shortID(episode.ID))
	return nil
}
