package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/studymate/internal/config"
	"github.com/alexanderramin/studymate/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Session    service.SessionService
	Chat       service.ChatService
	Settings   service.SettingsService
	Flashcards service.FlashcardService
	History    service.HistoryService
	Events     service.Subscriber

	Config config.Config
	Logger zerolog.Logger

	// IsInteractive reports whether stdin is a terminal. When nil the root
	// command never starts the TUI.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// companion bundles the services for the HTTP server.
type companion struct {
	service.SessionService
	service.ChatService
	service.SettingsService
	service.FlashcardService
	service.HistoryService
}

func (a *App) companion() companion {
	return companion{a.Session, a.Chat, a.Settings, a.Flashcards, a.History}
}

// NewRootCmd creates the top-level "studymate" command and registers all
// subcommands against the provided App. Run without a subcommand it opens
// the TUI on a terminal and prints the timer status otherwise.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "studymate",
		Short:         "Pomodoro study companion with flashcards and a chat coach",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app)
			}
			printSession(cmd, app.Session.Snapshot())
			return nil
		},
	}

	root.AddCommand(
		newTimerCmd(app),
		newChatCmd(app),
		newSettingsCmd(app),
		newFlashcardsCmd(app),
		newVibeCmd(app),
		newVoiceCmd(app),
		newHistoryCmd(app),
		newOnboardCmd(app),
		newServeCmd(app),
		newResetCmd(app),
	)

	return root
}
