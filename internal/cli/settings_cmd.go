package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/studymate/internal/cli/formatter"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/settings"
)

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show and change study settings",
	}

	cmd.AddCommand(
		newSettingsShowCmd(app),
		newSettingsSetCmd(app),
		newSettingsExportCmd(app),
		newSettingsImportCmd(app),
	)

	return cmd
}

func newSettingsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatSettings(app.Settings.Settings()))
			return nil
		},
	}
}

func formatSettings(s domain.StudySettings) string {
	audio := formatter.Dim("none")
	if s.AudioURL != nil {
		audio = *s.AudioURL
	}
	vibe := s.StudyVibe
	if v, err := domain.LookupVibe(s.StudyVibe); err == nil {
		vibe = v.Name
	}

	rows := [][]string{
		{"Focus", formatter.FormatMinutes(s.WorkDuration)},
		{"Short break", formatter.FormatMinutes(s.ShortBreakDuration)},
		{"Long break", formatter.FormatMinutes(s.LongBreakDuration)},
		{"Vibe", vibe},
		{"Background audio", audio},
		{"Voice", formatter.OnOff(s.VoiceEnabled)},
		{"Voice ID", s.VoiceSettings.VoiceID},
		{"Speed", strconv.FormatFloat(s.VoiceSettings.Speed, 'f', 2, 64)},
		{"Flashcards", strconv.Itoa(len(s.Flashcards))},
	}
	return formatter.RenderBox("Settings", formatter.RenderTable([]string{"SETTING", "VALUE"}, rows)) + "\n"
}

func newSettingsSetCmd(app *App) *cobra.Command {
	var work, short, long int
	var audioURL string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change phase durations or the background audio",
		Example: `  studymate settings set --work 50 --short 10
  studymate settings set --audio-url https://example.com/lofi.mp3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			if !anyChanged(flags, "work", "short", "long", "audio-url") {
				return fmt.Errorf("nothing to change: pass --work, --short, --long or --audio-url")
			}

			current := app.Settings.Settings()
			if anyChanged(flags, "work", "short", "long") {
				d := current.Durations()
				if flags.Changed("work") {
					d.WorkMin = work
				}
				if flags.Changed("short") {
					d.ShortBreakMin = short
				}
				if flags.Changed("long") {
					d.LongBreakMin = long
				}
				var err error
				if current, err = app.Settings.UpdateDurations(ctx, d); err != nil {
					return err
				}
			}
			if flags.Changed("audio-url") {
				var err error
				if current, err = app.Settings.SetBackgroundAudio(ctx, audioURL); err != nil {
					return err
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), formatSettings(current))
			return nil
		},
	}

	cmd.Flags().IntVar(&work, "work", 0, "Focus phase length in minutes (1-120)")
	cmd.Flags().IntVar(&short, "short", 0, "Short break length in minutes (1-60)")
	cmd.Flags().IntVar(&long, "long", 0, "Long break length in minutes (1-60)")
	cmd.Flags().StringVar(&audioURL, "audio-url", "", "Background audio URL; empty clears it")

	return cmd
}

func anyChanged(flags *pflag.FlagSet, names ...string) bool {
	for _, name := range names {
		if flags.Changed(name) {
			return true
		}
	}
	return false
}

func newSettingsExportCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if file != "" {
				f, err := os.Create(file)
				if err != nil {
					return fmt.Errorf("creating %s: %w", file, err)
				}
				defer f.Close()
				w = f
			}
			if err := settings.ExportYAML(w, app.Settings.Settings()); err != nil {
				return err
			}
			if file != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported settings to %s\n", file)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Output file (default stdout)")

	return cmd
}

func newSettingsImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace the settings with a YAML document (- for stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			imported, err := settings.ImportYAML(r)
			if err != nil {
				return err
			}
			saved, err := app.Settings.ReplaceSettings(cmd.Context(), imported)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSettings(saved))
			return nil
		},
	}
}
