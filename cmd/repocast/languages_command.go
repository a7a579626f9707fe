package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"repocast/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "languages",
		Short:       "List supported episode languages",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			languages := language.All()

			if jsonOut {
				type view struct {
					Name    string `json:"name"`
					Value   string `json:"value"`
					Default bool   `json:"default"`
				}
				views := make([]view, 0, len(languages))
				for _, lang := range languages {
					views = append(views, view{
						Name:    lang.Display(),
						Value:   lang.Wire(),
						Default: lang == language.Default(),
					})
				}
				return writeJSON(cmd, views)
			}

			rows := make([][]string, 0, len(languages))
			for _, lang := range languages {
				marker := ""
				if lang == language.Default() {
					marker = "default"
				}
				rows = append(rows, []string{lang.Display(), lang.Wire(), marker})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Language", "Value", ""}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit languages as JSON")
	return cmd
}
