package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/studymate/internal/events"
	"github.com/alexanderramin/studymate/internal/web"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and websocket event stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.Config.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.ErrOrStderr(), "studymate listening on http://%s\n", addr)
			return serve(ctx, app, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")

	return cmd
}

// serve runs the HTTP server and an event logger until ctx is cancelled or
// either fails.
func serve(ctx context.Context, app *App, addr string) error {
	log := app.Logger.With().Str("component", "serve").Logger()
	server := web.NewServer(app.companion(), app.Events, app.Logger)

	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return server.Run(ctx, addr)
	})

	if app.Events != nil {
		stream, err := app.Events.Subscribe(ctx, 256)
		if err != nil {
			return fmt.Errorf("subscribing to events: %w", err)
		}
		eg.Go(func() error {
			for ev := range stream {
				if ev.Type == events.GenerationFailed {
					log.Warn().Str("error", ev.Error).Msg("flashcard generation failed")
					continue
				}
				entry := log.Debug().Str("type", string(ev.Type))
				if ev.Session != nil {
					entry = entry.Str("phase", string(ev.Session.Phase)).Int("remaining", ev.Session.RemainingSeconds)
				}
				entry.Msg("event")
			}
			return nil
		})
	}

	return eg.Wait()
}
