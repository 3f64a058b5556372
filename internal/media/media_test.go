package media

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studymate/internal/domain"
)

// blockingSpeaker records utterances and blocks until cancelled or released.
type blockingSpeaker struct {
	mu        sync.Mutex
	started   chan string
	cancelled []string
	release   chan struct{}
}

func newBlockingSpeaker() *blockingSpeaker {
	return &blockingSpeaker{started: make(chan string, 8), release: make(chan struct{})}
}

func (s *blockingSpeaker) Supported() bool { return true }

func (s *blockingSpeaker) Speak(ctx context.Context, text string, _ domain.VoiceSettings) error {
	s.started <- text
	select {
	case <-ctx.Done():
		s.mu.Lock()
		s.cancelled = append(s.cancelled, text)
		s.mu.Unlock()
		return ctx.Err()
	case <-s.release:
		return nil
	}
}

func (s *blockingSpeaker) cancelledTexts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cancelled...)
}

func waitStarted(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("utterance never started")
		return ""
	}
}

func TestVoice_NewUtteranceCancelsPrevious(t *testing.T) {
	sp := newBlockingSpeaker()
	v := NewVoice(sp, nil)
	voice := domain.DefaultVoiceSettings()

	v.Say("first", voice)
	assert.Equal(t, "first", waitStarted(t, sp.started))

	v.Say("second", voice)
	assert.Equal(t, "second", waitStarted(t, sp.started))
	assert.Equal(t, "second", v.Current())

	assert.Eventually(t, func() bool {
		return len(sp.cancelledTexts()) == 1
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, []string{"first"}, sp.cancelledTexts())

	close(sp.release)
	v.Wait()
	assert.Empty(t, v.Current())
}

func TestVoice_Cancel(t *testing.T) {
	sp := newBlockingSpeaker()
	v := NewVoice(sp, nil)

	v.Say("hello", domain.DefaultVoiceSettings())
	waitStarted(t, sp.started)
	v.Cancel()
	v.Wait()

	assert.Equal(t, []string{"hello"}, sp.cancelledTexts())
	assert.Empty(t, v.Current())
}

type failingSpeaker struct{}

func (failingSpeaker) Supported() bool { return true }
func (failingSpeaker) Speak(context.Context, string, domain.VoiceSettings) error {
	return errors.New("no audio device")
}

func TestVoice_ReportsErrors(t *testing.T) {
	var mu sync.Mutex
	var got []error
	v := NewVoice(failingSpeaker{}, func(err error) {
		mu.Lock()
		got = append(got, err)
		mu.Unlock()
	})

	v.Say("hi", domain.DefaultVoiceSettings())
	v.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.EqualError(t, got[0], "no audio device")
}

func TestVoice_UnsupportedIsSilent(t *testing.T) {
	v := NewVoice(NoopSpeaker{}, func(error) { t.Fatal("unexpected error") })

	v.Say("hi", domain.DefaultVoiceSettings())
	v.Wait()

	assert.False(t, v.Supported())
	assert.Empty(t, v.Current())
}

// loopPlayer blocks each Play until cancelled, counting plays per URL.
type loopPlayer struct {
	mu    sync.Mutex
	plays map[string]int
}

func (p *loopPlayer) Supported() bool { return true }

func (p *loopPlayer) Play(ctx context.Context, url string) error {
	p.mu.Lock()
	if p.plays == nil {
		p.plays = map[string]int{}
	}
	p.plays[url]++
	p.mu.Unlock()
	<-ctx.Done()
	return nil
}

func (p *loopPlayer) count(url string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays[url]
}

func TestLoopAmbient_ResumePauseSwitch(t *testing.T) {
	p := &loopPlayer{}
	a := NewLoopAmbient(p)
	defer a.Close()

	a.Resume()
	assert.False(t, a.Playing(), "nothing loaded")

	a.Load("rainnoise.mp3")
	a.Resume()
	assert.True(t, a.Playing())
	assert.Eventually(t, func() bool { return p.count("rainnoise.mp3") == 1 }, 2*time.Second, time.Millisecond)

	a.Load("oceannoise.mp3")
	assert.True(t, a.Playing())
	assert.Eventually(t, func() bool { return p.count("oceannoise.mp3") == 1 }, 2*time.Second, time.Millisecond)

	a.Pause()
	assert.False(t, a.Playing())

	a.Load("")
	a.Resume()
	assert.False(t, a.Playing())
}

func TestLoopAmbient_ResolvesTracksAgainstAssetsDir(t *testing.T) {
	p := &loopPlayer{}
	a := NewLoopAmbient(p, WithAssetsDir("/opt/sounds"))
	defer a.Close()

	a.Load("rainnoise.mp3")
	a.Resume()
	want := filepath.Join("/opt/sounds", "rainnoise.mp3")
	assert.Eventually(t, func() bool { return p.count(want) == 1 }, 2*time.Second, time.Millisecond)

	a.Load("https://cdn.test/ocean.mp3")
	assert.Eventually(t, func() bool { return p.count("https://cdn.test/ocean.mp3") == 1 }, 2*time.Second, time.Millisecond)
	assert.Equal(t, "/srv/white.mp3", a.resolve("/srv/white.mp3"))
}

func TestLoopAmbient_GivesUpOnFailingPlayer(t *testing.T) {
	a := NewLoopAmbient(errPlayer{})
	a.Load("whitenoise.mp3")
	a.Resume()

	assert.Eventually(t, func() bool { return !a.Playing() }, 2*time.Second, time.Millisecond)
	a.Close()
}

type errPlayer struct{}

func (errPlayer) Supported() bool                    { return true }
func (errPlayer) Play(context.Context, string) error { return errors.New("decode failed") }

func TestDetect_FallsBackToNoop(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }

	assert.IsType(t, NoopSpeaker{}, DetectSpeaker(""))
	assert.IsType(t, NoopPlayer{}, DetectPlayer(""))
}

func TestDetect_PrefersNamedProgram(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) { return "/usr/bin/" + name, nil }

	sp, ok := DetectSpeaker("espeak").(*CommandSpeaker)
	require.True(t, ok)
	assert.Equal(t, "espeak", sp.Name())
	assert.Equal(t, []string{"-s", "144", "--", "hi"}, sp.args("hi", domain.DefaultVoiceSettings()))

	pl, ok := DetectPlayer("").(*CommandPlayer)
	require.True(t, ok)
	assert.Equal(t, "mpv", pl.Name())
}

func TestDetect_UnknownNamedProgram(t *testing.T) {
	orig := lookPath
	t.Cleanup(func() { lookPath = orig })
	lookPath = func(name string) (string, error) { return "/usr/local/bin/" + name, nil }

	sp, ok := DetectSpeaker("piper").(*CommandSpeaker)
	require.True(t, ok)
	assert.Equal(t, "piper", sp.Name())
	assert.Equal(t, []string{"hello"}, sp.args("hello", domain.DefaultVoiceSettings()))

	pl, ok := DetectPlayer("cvlc").(*CommandPlayer)
	require.True(t, ok)
	assert.Equal(t, "cvlc", pl.Name())
	assert.Equal(t, []string{"rain.mp3"}, pl.args("rain.mp3"))

	lookPath = func(string) (string, error) { return "", exec.ErrNotFound }
	assert.IsType(t, NoopSpeaker{}, DetectSpeaker("piper"))
	assert.IsType(t, NoopPlayer{}, DetectPlayer("cvlc"))
}

func TestCommandArgs_EndOptionsBeforeOperand(t *testing.T) {
	v := domain.DefaultVoiceSettings()
	for _, c := range speakerCandidates {
		args := c.args("-rf", v)
		require.GreaterOrEqual(t, len(args), 2, c.name)
		assert.Equal(t, []string{"--", "-rf"}, args[len(args)-2:], c.name)
	}
	for _, c := range playerCandidates {
		args := c.args("-x.mp3")
		assert.Equal(t, "-x.mp3", args[len(args)-1], c.name)
		if c.name == "afplay" {
			continue
		}
		assert.Contains(t, []string{"--", "-i"}, args[len(args)-2], c.name)
	}
}

func TestWriterSpeaker(t *testing.T) {
	var buf strings.Builder
	v := NewVoice(NewWriterSpeaker(&buf), nil)

	v.Say("Time for a break!", domain.DefaultVoiceSettings())
	v.Wait()

	assert.True(t, v.Supported())
	assert.Equal(t, "🔊 Time for a break!\n", buf.String())
}
