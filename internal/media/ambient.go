package media

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// minLoopLength stops the loop when a track ends almost immediately, which
// means the player could not actually play it.
const minLoopLength = time.Second

// LoopAmbient loops one track through an AudioPlayer while resumed.
type LoopAmbient struct {
	player    AudioPlayer
	assetsDir string

	mu      sync.Mutex
	url     string
	playing bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

type AmbientOption func(*LoopAmbient)

// WithAssetsDir resolves relative track names against dir.
func WithAssetsDir(dir string) AmbientOption {
	return func(a *LoopAmbient) { a.assetsDir = dir }
}

func NewLoopAmbient(player AudioPlayer, opts ...AmbientOption) *LoopAmbient {
	if player == nil {
		player = NoopPlayer{}
	}
	a := &LoopAmbient{player: player}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load switches the track. A playing loop restarts on the new track; an empty
// url stops playback.
func (a *LoopAmbient) Load(url string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if url == a.url {
		return
	}
	a.url = url
	if a.playing {
		a.stopLocked()
		a.startLocked()
	}
}

func (a *LoopAmbient) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.playing || a.url == "" || !a.player.Supported() {
		return
	}
	a.startLocked()
}

func (a *LoopAmbient) Pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

func (a *LoopAmbient) Playing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Close stops playback and waits for the loop to exit.
func (a *LoopAmbient) Close() {
	a.Pause()
	a.wg.Wait()
}

func (a *LoopAmbient) startLocked() {
	if a.url == "" {
		a.playing = false
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.playing = true
	a.wg.Add(1)
	go a.loop(ctx, a.resolve(a.url))
}

// resolve maps a bare track name into the assets dir. URLs and absolute
// paths pass through.
func (a *LoopAmbient) resolve(url string) string {
	if a.assetsDir == "" || filepath.IsAbs(url) || strings.Contains(url, "://") {
		return url
	}
	return filepath.Join(a.assetsDir, url)
}

func (a *LoopAmbient) stopLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.playing = false
}

func (a *LoopAmbient) loop(ctx context.Context, url string) {
	defer a.wg.Done()
	for ctx.Err() == nil {
		started := time.Now()
		if err := a.player.Play(ctx, url); err != nil || time.Since(started) < minLoopLength {
			break
		}
	}
	if ctx.Err() != nil {
		return
	}

	// The loop gave up on its own; reflect that unless a newer loop replaced it.
	a.mu.Lock()
	defer a.mu.Unlock()
	select {
	case <-ctx.Done():
	default:
		a.stopLocked()
	}
}
