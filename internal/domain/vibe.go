package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownVibe indicates a vibe ID that is not one of the built-in presets.
var ErrUnknownVibe = errors.New("unknown vibe")

// DefaultVibeID is the vibe preselected during onboarding.
const DefaultVibeID = "rain"

// Vibe is an ambient background preset pairing a looped audio track with a
// background video.
type Vibe struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	AudioURL        string `json:"audioUrl"`
	BackgroundVideo string `json:"backgroundVideo"`
}

var vibes = []Vibe{
	{
		ID:              "rain",
		Name:            "Rainy Day",
		Description:     "Cozy cafe with rain sounds",
		AudioURL:        "rainnoise.mp3",
		BackgroundVideo: "rainwallpaper.mp4",
	},
	{
		ID:              "waves",
		Name:            "Ocean Waves",
		Description:     "Study by the seaside",
		AudioURL:        "oceannoise.mp3",
		BackgroundVideo: "oceanwallpaper.mp4",
	},
	{
		ID:              "cafe",
		Name:            "Cafe Ambience",
		Description:     "Busy coffee shop atmosphere",
		AudioURL:        "coffeenoise.mp3",
		BackgroundVideo: "coffeewallpaper.mp4",
	},
	{
		ID:              "whitenoise",
		Name:            "White Noise",
		Description:     "Calm white noise background",
		AudioURL:        "whitenoise.mp3",
		BackgroundVideo: "whitenoisewallpaper.mp4",
	},
}

// Vibes returns the built-in presets in display order.
func Vibes() []Vibe {
	out := make([]Vibe, len(vibes))
	copy(out, vibes)
	return out
}

// LookupVibe returns the preset with the given ID.
func LookupVibe(id string) (Vibe, error) {
	for _, v := range vibes {
		if v.ID == id {
			return v, nil
		}
	}
	return Vibe{}, fmt.Errorf("%w: %q", ErrUnknownVibe, id)
}
