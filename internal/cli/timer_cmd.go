package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/studymate/internal/cli/formatter"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/events"
)

func newTimerCmd(app *App) *cobra.Command {
	var phases int

	cmd := &cobra.Command{
		Use:   "timer",
		Short: "Run the countdown in the foreground",
		Long: `Starts the timer and follows it until the given number of phases
have completed. Ctrl+C pauses the session and exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if phases < 1 {
				return fmt.Errorf("--phases must be at least 1, got %d", phases)
			}
			if app.Events == nil {
				return errors.New("event bus is not configured")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stream, err := app.Events.Subscribe(ctx, 256)
			if err != nil {
				return fmt.Errorf("subscribing to session events: %w", err)
			}
			return followTimer(ctx, cmd.OutOrStdout(), app, stream, phases)
		},
	}

	cmd.Flags().IntVar(&phases, "phases", 1, "Stop after this many completed phases")

	return cmd
}

// followTimer starts the session and prints its progress. Each transition
// pauses the engine, so the next phase is started here until enough phases
// have completed. The transition's coaching message follows PhaseCompleted
// on the stream and is printed before returning.
func followTimer(ctx context.Context, w io.Writer, app *App, stream <-chan events.Event, phases int) error {
	st := app.Session.Start(ctx)
	fmt.Fprint(w, formatter.FormatSessionLine(st))

	completed := 0
	for {
		select {
		case <-ctx.Done():
			st := app.Session.Pause(context.Background())
			fmt.Fprintf(w, "\n%s\n", formatter.FormatSessionLine(st))
			return nil

		case ev, open := <-stream:
			if !open {
				fmt.Fprintln(w)
				return nil
			}
			switch ev.Type {
			case events.SessionTick:
				if ev.Session != nil {
					st = *ev.Session
				}
				fmt.Fprintf(w, "\r%s", formatter.FormatSessionLine(st))
			case events.ChatMessage:
				if ev.Message == nil {
					continue
				}
				fmt.Fprintf(w, "\n%s\n", formatter.FormatMessage(*ev.Message, true))
				if completed >= phases && ev.Message.Kind == domain.KindTimer {
					return nil
				}
			case events.PhaseCompleted:
				completed++
			case events.PhaseChanged:
				if completed < phases {
					st = app.Session.Start(ctx)
					fmt.Fprint(w, formatter.FormatSessionLine(st))
				}
			}
		}
	}
}
