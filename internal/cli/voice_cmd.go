package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/studymate/internal/cli/formatter"
	"github.com/alexanderramin/studymate/internal/domain"
)

func newVoiceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Control spoken coaching messages",
	}

	cmd.AddCommand(
		newVoiceToggleCmd(app, "on", true),
		newVoiceToggleCmd(app, "off", false),
		newVoiceSetCmd(app),
	)

	return cmd
}

func newVoiceToggleCmd(app *App, use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Turn voice messages %s", use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Settings.SetVoiceEnabled(cmd.Context(), enabled)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Voice %s\n", formatter.OnOff(s.VoiceEnabled))
			return nil
		},
	}
}

func newVoiceSetCmd(app *App) *cobra.Command {
	var v domain.VoiceSettings

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change voice parameters",
		Long: `Changes the parameters sent to the phase audio backend. Without
flags on a terminal, opens a form prefilled with the current values.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := app.Settings.Settings().VoiceSettings
			flags := cmd.Flags()

			next := current
			switch {
			case flags.NFlag() > 0:
				if flags.Changed("voice-id") {
					next.VoiceID = v.VoiceID
				}
				if flags.Changed("speed") {
					next.Speed = v.Speed
				}
				if flags.Changed("stability") {
					next.Stability = v.Stability
				}
				if flags.Changed("similarity") {
					next.Similarity = v.Similarity
				}
				if flags.Changed("style") {
					next.StyleExaggeration = v.StyleExaggeration
				}
				if flags.Changed("speaker-boost") {
					next.SpeakerBoost = v.SpeakerBoost
				}
			case app.interactive():
				draft := newVoiceDraft(current)
				if err := draft.form().Run(); err != nil {
					return err
				}
				draft.apply(&next)
			default:
				return fmt.Errorf("nothing to change: pass at least one flag")
			}

			s, err := app.Settings.UpdateVoiceSettings(cmd.Context(), next)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Voice %s at %.2fx\n", formatter.Bold(s.VoiceSettings.VoiceID), s.VoiceSettings.Speed)
			return nil
		},
	}

	cmd.Flags().StringVar(&v.VoiceID, "voice-id", "", "Voice identifier")
	cmd.Flags().Float64Var(&v.Speed, "speed", 0, "Speaking rate (0.5-2.0)")
	cmd.Flags().Float64Var(&v.Stability, "stability", 0, "Stability (0-1)")
	cmd.Flags().Float64Var(&v.Similarity, "similarity", 0, "Similarity boost (0-1)")
	cmd.Flags().Float64Var(&v.StyleExaggeration, "style", 0, "Style exaggeration (0-1)")
	cmd.Flags().BoolVar(&v.SpeakerBoost, "speaker-boost", false, "Enable speaker boost")

	return cmd
}

// voiceDraft holds form values as strings until the form completes.
type voiceDraft struct {
	voiceID   string
	speed     string
	stability string
	boost     bool
}

func newVoiceDraft(v domain.VoiceSettings) *voiceDraft {
	return &voiceDraft{
		voiceID:   v.VoiceID,
		speed:     strconv.FormatFloat(v.Speed, 'f', -1, 64),
		stability: strconv.FormatFloat(v.Stability, 'f', -1, 64),
		boost:     v.SpeakerBoost,
	}
}

func (d *voiceDraft) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Voice ID").
				Value(&d.voiceID).
				Validate(validateRequired),
			unitInput("Speed (0.5-2.0)", &d.speed, domain.MinVoiceSpeed, domain.MaxVoiceSpeed),
			unitInput("Stability (0-1)", &d.stability, 0, 1),
			huh.NewConfirm().
				Title("Speaker boost").
				Value(&d.boost),
		),
	).WithTheme(studymateHuhTheme()).WithShowHelp(false)
}

// apply copies the draft onto v. The inputs were validated by the form.
func (d *voiceDraft) apply(v *domain.VoiceSettings) {
	v.VoiceID = strings.TrimSpace(d.voiceID)
	v.Speed, _ = strconv.ParseFloat(d.speed, 64)
	v.Stability, _ = strconv.ParseFloat(d.stability, 64)
	v.SpeakerBoost = d.boost
}
