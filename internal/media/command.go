package media

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/alexanderramin/studymate/internal/domain"
)

// speechRate scales each program's default words-per-minute.
const speechRate = 0.9

// CommandSpeaker speaks through an external text-to-speech program.
type CommandSpeaker struct {
	name string
	args func(text string, voice domain.VoiceSettings) []string
}

// CommandPlayer plays audio through an external program.
type CommandPlayer struct {
	name string
	args func(url string) []string
}

type speakerCandidate struct {
	name string
	args func(text string, voice domain.VoiceSettings) []string
}

var speakerCandidates = []speakerCandidate{
	{"say", func(text string, v domain.VoiceSettings) []string {
		return []string{"-r", wpm(175, v.Speed), "--", text}
	}},
	{"espeak-ng", func(text string, v domain.VoiceSettings) []string {
		return []string{"-s", wpm(160, v.Speed), "--", text}
	}},
	{"espeak", func(text string, v domain.VoiceSettings) []string {
		return []string{"-s", wpm(160, v.Speed), "--", text}
	}},
	{"spd-say", func(text string, v domain.VoiceSettings) []string {
		return []string{"--wait", "--", text}
	}},
}

type playerCandidate struct {
	name string
	args func(url string) []string
}

var playerCandidates = []playerCandidate{
	{"mpv", func(url string) []string { return []string{"--no-video", "--really-quiet", "--", url} }},
	{"ffplay", func(url string) []string { return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-i", url} }},
	{"afplay", func(url string) []string { return []string{url} }},
}

func wpm(base int, speed float64) string {
	if speed <= 0 {
		speed = 1
	}
	return strconv.Itoa(int(float64(base) * speed * speechRate))
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// DetectSpeaker returns the first text-to-speech program found on PATH, or a
// NoopSpeaker. A non-empty preferred name restricts the search to it; a
// name that is not a known program is run with the text as its only
// argument.
func DetectSpeaker(preferred string) Speaker {
	known := false
	for _, c := range speakerCandidates {
		if preferred != "" && c.name != preferred {
			continue
		}
		known = true
		if _, err := lookPath(c.name); err == nil {
			return &CommandSpeaker{name: c.name, args: c.args}
		}
	}
	if preferred != "" && !known {
		if _, err := lookPath(preferred); err == nil {
			return &CommandSpeaker{name: preferred, args: func(text string, _ domain.VoiceSettings) []string {
				return []string{text}
			}}
		}
	}
	return NoopSpeaker{}
}

// DetectPlayer returns the first audio player found on PATH, or a NoopPlayer.
// Unknown preferred names get the URL as their only argument.
func DetectPlayer(preferred string) AudioPlayer {
	known := false
	for _, c := range playerCandidates {
		if preferred != "" && c.name != preferred {
			continue
		}
		known = true
		if _, err := lookPath(c.name); err == nil {
			return &CommandPlayer{name: c.name, args: c.args}
		}
	}
	if preferred != "" && !known {
		if _, err := lookPath(preferred); err == nil {
			return &CommandPlayer{name: preferred, args: func(url string) []string { return []string{url} }}
		}
	}
	return NoopPlayer{}
}

func (s *CommandSpeaker) Name() string    { return s.name }
func (s *CommandSpeaker) Supported() bool { return true }

func (s *CommandSpeaker) Speak(ctx context.Context, text string, voice domain.VoiceSettings) error {
	return run(ctx, s.name, s.args(text, voice))
}

func (p *CommandPlayer) Name() string    { return p.name }
func (p *CommandPlayer) Supported() bool { return true }

func (p *CommandPlayer) Play(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	return run(ctx, p.name, p.args(url))
}

// run treats cancellation as a normal stop rather than a failure.
func run(ctx context.Context, name string, args []string) error {
	err := exec.CommandContext(ctx, name, args...).Run()
	if err == nil || ctx.Err() != nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s exited with %d", name, exitErr.ExitCode())
	}
	return fmt.Errorf("running %s: %w", name, err)
}
