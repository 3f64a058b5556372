// Package service wires the session engine, coach, settings store, backend
// and media capabilities into the companion the surfaces drive.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/studymate/internal/backend"
	"github.com/alexanderramin/studymate/internal/coach"
	"github.com/alexanderramin/studymate/internal/db"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/media"
	"github.com/alexanderramin/studymate/internal/repository"
	"github.com/alexanderramin/studymate/internal/settings"
)

// ErrEmptyMessage is returned by Send for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// maxTranscript bounds the in-memory chat history.
const maxTranscript = 500

// Options holds the companion's collaborators. Store is required; a nil
// Backend disables flashcard generation and phase audio, nil media fall
// back to no-op capabilities.
type Options struct {
	Store     *settings.Store
	PhaseLogs repository.PhaseLogRepo
	UoW       db.UnitOfWork
	Backend   backend.Client
	Speaker   media.Speaker
	Player    media.AudioPlayer
	Ambient   media.AmbientPlayer
	Bus       Publisher
	Coach     *coach.Coach
	Runner    engine.RunnerConfig
	Logger    zerolog.Logger
	Observer  UseCaseObserver
}

// Companion is the study companion: one session, one transcript, one
// settings blob.
type Companion struct {
	store     *settings.Store
	phaseLogs repository.PhaseLogRepo
	uow       db.UnitOfWork
	backend   backend.Client
	player    media.AudioPlayer
	ambient   media.AmbientPlayer
	bus       Publisher
	coach     *coach.Coach
	voice     *media.Voice
	runner    *engine.Runner
	log       zerolog.Logger
	observer  UseCaseObserver

	// writeMu serializes settings writers. It may be held while calling the
	// runner; mu may not.
	writeMu sync.Mutex

	mu       sync.Mutex
	settings domain.StudySettings
	messages []domain.ChatMessage

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New loads settings and builds the companion. A malformed or unreadable
// settings blob is logged and replaced by defaults.
func New(ctx context.Context, opts Options) (*Companion, error) {
	if opts.Store == nil {
		return nil, errors.New("service: settings store is required")
	}

	c := &Companion{
		store:     opts.Store,
		phaseLogs: opts.PhaseLogs,
		uow:       opts.UoW,
		backend:   opts.Backend,
		player:    opts.Player,
		ambient:   opts.Ambient,
		bus:       opts.Bus,
		coach:     opts.Coach,
		log:       opts.Logger.With().Str("component", "companion").Logger(),
		observer:  useCaseObserverOrNoop(opts.Observer),
	}
	if c.player == nil {
		c.player = media.NoopPlayer{}
	}
	if c.ambient == nil {
		c.ambient = media.NewLoopAmbient(c.player)
	}
	if c.coach == nil {
		c.coach = coach.New(nil)
	}
	c.voice = media.NewVoice(opts.Speaker, func(err error) {
		c.log.Warn().Err(err).Msg("speech failed")
	})

	loaded, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("using default settings")
	}
	c.settings = loaded

	eng, err := engine.New(loaded.Durations())
	if err != nil {
		return nil, fmt.Errorf("creating session engine: %w", err)
	}
	c.runner = engine.NewRunner(eng, c, opts.Runner)
	c.ctx, c.cancel = context.WithCancel(context.Background())

	if loaded.AudioURL != nil {
		c.ambient.Load(*loaded.AudioURL)
	}
	if loaded.VoiceEnabled && !c.voice.Supported() {
		c.appendMessage(newMessage(domain.RoleAssistant, domain.KindNotice, coach.VoiceUnsupported, nil))
	}
	return c, nil
}

// Close stops the timer, speech and audio and waits for background work.
func (c *Companion) Close() {
	c.runner.Close()
	c.cancel()
	c.voice.Cancel()
	c.ambient.Close()
	c.wg.Wait()
	c.voice.Wait()
}

func (c *Companion) Snapshot() engine.State {
	return c.runner.State()
}

func (c *Companion) Start(ctx context.Context) engine.State {
	return c.command(ctx, "start-session", (*engine.Engine).Start)
}

func (c *Companion) Pause(ctx context.Context) engine.State {
	return c.command(ctx, "pause-session", (*engine.Engine).Pause)
}

func (c *Companion) Toggle(ctx context.Context) engine.State {
	return c.command(ctx, "toggle-session", (*engine.Engine).Toggle)
}

func (c *Companion) Restart(ctx context.Context) engine.State {
	return c.command(ctx, "restart-session", (*engine.Engine).Restart)
}

func (c *Companion) command(ctx context.Context, name string, cmd func(*engine.Engine) []engine.Effect) engine.State {
	fields := map[string]any{}
	done := c.observe(ctx, name, fields)
	effects := c.runner.Do(cmd)
	st := c.runner.State()
	fields["effects"] = len(effects)
	fields["running"] = st.Running
	done(nil)
	return st
}

// Speaking returns the utterance in flight, or "".
func (c *Companion) Speaking() string {
	return c.voice.Current()
}

// VoiceSupported reports whether speech output is available.
func (c *Companion) VoiceSupported() bool {
	return c.voice.Supported()
}

// AmbientPlaying reports whether background audio is looping.
func (c *Companion) AmbientPlaying() bool {
	return c.ambient.Playing()
}

// syncAmbient plays background audio only while a work phase is running.
func (c *Companion) syncAmbient(st engine.State) {
	c.mu.Lock()
	url := ""
	if c.settings.AudioURL != nil {
		url = *c.settings.AudioURL
	}
	c.mu.Unlock()

	c.ambient.Load(url)
	if st.Running && st.Phase == domain.PhaseWork && url != "" {
		c.ambient.Resume()
		return
	}
	c.ambient.Pause()
}

func (c *Companion) recordPhase(e engine.Effect) {
	if c.phaseLogs == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.ctx, 5*time.Second)
	defer cancel()

	log := &domain.PhaseLog{
		ID:                uuid.NewString(),
		Phase:             e.Phase,
		PlannedMinutes:    e.PlannedMinutes,
		WorkSessionNumber: e.State.CompletedWorkSessions,
		CompletedAt:       time.Now().UTC(),
	}
	if err := c.phaseLogs.Create(ctx, log); err != nil {
		c.log.Warn().Err(err).Str("phase", string(e.Phase)).Msg("recording completed phase")
	}
}
