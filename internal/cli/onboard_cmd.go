package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/studymate/internal/domain"
)

func newOnboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "onboard",
		Short: "Pick a vibe, phase lengths and voice in a guided form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("onboard needs a terminal; use 'settings set', 'vibe set' and 'voice on|off' instead")
			}

			current := app.Settings.Settings()
			draft := newOnboardDraft(current)
			if err := draft.form().Run(); err != nil {
				return err
			}

			next, err := draft.apply(current)
			if err != nil {
				return err
			}
			saved, err := app.Settings.ReplaceSettings(cmd.Context(), next)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSettings(saved))
			return nil
		},
	}
}

// onboardDraft collects the onboarding answers.
type onboardDraft struct {
	vibe  string
	work  string
	short string
	long  string
	voice bool
}

func newOnboardDraft(s domain.StudySettings) *onboardDraft {
	vibe := s.StudyVibe
	if vibe == "" {
		vibe = domain.DefaultVibeID
	}
	return &onboardDraft{
		vibe:  vibe,
		work:  strconv.Itoa(s.WorkDuration),
		short: strconv.Itoa(s.ShortBreakDuration),
		long:  strconv.Itoa(s.LongBreakDuration),
		voice: s.VoiceEnabled,
	}
}

func (d *onboardDraft) form() *huh.Form {
	var options []huh.Option[string]
	for _, v := range domain.Vibes() {
		options = append(options, huh.NewOption(v.Name+" · "+v.Description, v.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose your study vibe").
				Options(options...).
				Value(&d.vibe),
		),
		huh.NewGroup(
			minutesInput("Focus minutes", &d.work, domain.MinDurationMin, domain.MaxWorkDurationMin),
			minutesInput("Short break minutes", &d.short, domain.MinDurationMin, domain.MaxBreakDurationMin),
			minutesInput("Long break minutes", &d.long, domain.MinDurationMin, domain.MaxBreakDurationMin),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Read coaching messages aloud?").
				Value(&d.voice),
		),
	).WithTheme(studymateHuhTheme()).WithShowHelp(false)
}

// apply returns s with the draft's answers. The vibe's audio replaces the
// background audio.
func (d *onboardDraft) apply(s domain.StudySettings) (domain.StudySettings, error) {
	out := s.Clone()

	vibe, err := domain.LookupVibe(d.vibe)
	if err != nil {
		return domain.StudySettings{}, err
	}
	out.StudyVibe = vibe.ID
	audio := vibe.AudioURL
	out.AudioURL = &audio

	for _, f := range []struct {
		raw string
		dst *int
	}{
		{d.work, &out.WorkDuration},
		{d.short, &out.ShortBreakDuration},
		{d.long, &out.LongBreakDuration},
	} {
		n, err := strconv.Atoi(strings.TrimSpace(f.raw))
		if err != nil {
			return domain.StudySettings{}, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidDuration, f.raw)
		}
		*f.dst = n
	}
	out.VoiceEnabled = d.voice

	if err := out.Validate(); err != nil {
		return domain.StudySettings{}, err
	}
	return out, nil
}
