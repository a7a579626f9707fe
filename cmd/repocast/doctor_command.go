package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"repocast/internal/notifications"
	"repocast/internal/preflight"
)

func newDoctorCommand(cctx *commandContext) *cobra.Command {
	var notifyTest bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment: gateway, directories, player, disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			gw, err := cctx.gatewayClient()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, gw)

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "FAIL"
				if result.Passed {
					status = "OK"
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))

			if notifyTest {
				notifier := notifications.NewService(cfg)
				if err := notifier.TestNotification(cmd.Context()); err != nil {
					return fmt.Errorf("test notification: %w", err)
				}
				if cfg.Notifications.NtfyTopic == "" {
					fmt.Fprintln(out, "Notifications are not configured; nothing was sent.")
				} else {
					fmt.Fprintln(out, "Test notification sent.")
				}
			}

			if !preflight.AllPassed(results) {
				return fmt.Errorf("environment checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notifyTest, "notify", false, "Also send a test notification")
	return cmd
}
