package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studymate/internal/cli/formatter"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
)

func newChatCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat TEXT...",
		Short: "Send one message to the study coach",
		Example: `  studymate chat start
  studymate chat give me a flashcard
  studymate chat how much time is left`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := app.Chat.Send(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatMessage(reply, true))
			if reply.Kind == domain.KindTimer {
				printSession(cmd, app.Session.Snapshot())
			}
			return nil
		},
	}
}

func printSession(cmd *cobra.Command, st engine.State) {
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSessionLine(st))
}
