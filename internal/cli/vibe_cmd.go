package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studymate/internal/cli/formatter"
	"github.com/alexanderramin/studymate/internal/domain"
)

func newVibeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vibe",
		Short: "Choose the ambient background",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the built-in vibes",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), formatVibes(app.Settings.Settings().StudyVibe))
				return nil
			},
		},
		&cobra.Command{
			Use:       "set ID",
			Short:     "Select a vibe and its background audio",
			Args:      cobra.ExactArgs(1),
			ValidArgs: vibeIDs(),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := app.Settings.SelectVibe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				v, _ := domain.LookupVibe(s.StudyVibe)
				fmt.Fprintf(cmd.OutOrStdout(), "Vibe set to %s\n", formatter.Bold(v.Name))
				return nil
			},
		},
	)

	return cmd
}

func vibeIDs() []string {
	vibes := domain.Vibes()
	ids := make([]string, len(vibes))
	for i, v := range vibes {
		ids[i] = v.ID
	}
	return ids
}

func formatVibes(current string) string {
	rows := make([][]string, 0, 4)
	for _, v := range domain.Vibes() {
		marker := " "
		if v.ID == current {
			marker = formatter.StyleGreen.Render("●")
		}
		rows = append(rows, []string{marker, v.ID, formatter.Bold(v.Name), formatter.Dim(v.Description)})
	}
	return formatter.RenderBox("Vibes", formatter.RenderTable([]string{"", "ID", "NAME", "DESCRIPTION"}, rows))
}
