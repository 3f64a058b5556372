package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/studymate/internal/backend"
	"github.com/alexanderramin/studymate/internal/cli"
	"github.com/alexanderramin/studymate/internal/config"
	"github.com/alexanderramin/studymate/internal/db"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/events"
	"github.com/alexanderramin/studymate/internal/media"
	"github.com/alexanderramin/studymate/internal/repository"
	"github.com/alexanderramin/studymate/internal/service"
	"github.com/alexanderramin/studymate/internal/settings"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv(config.EnvPrefix + "_CONFIG"))
	if err != nil {
		return err
	}

	logger, logCloser, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logCloser.Close()

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := settings.NewStore(repository.NewSQLiteKVRepo(database))
	phaseLogs := repository.NewSQLitePhaseLogRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observer backend.Observer
	if cfg.Backend.LogCalls {
		observer = backend.NewLogObserver(logger)
	}
	client := backend.NewClient(cfg.BackendClientConfig(), observer)

	speaker, player := newMedia(cfg.Media, os.Stderr)
	logger.Debug().
		Bool("speech", speaker.Supported()).
		Bool("playback", player.Supported()).
		Msg("media resolved")

	bus := events.NewBus(logger)
	defer bus.Close()

	companion, err := service.New(context.Background(), service.Options{
		Store:     store,
		PhaseLogs: phaseLogs,
		UoW:       uow,
		Backend:   client,
		Speaker:   speaker,
		Player:    player,
		Ambient:   media.NewLoopAmbient(player, media.WithAssetsDir(cfg.Media.AssetsDir)),
		Bus:       bus,
		Runner:    engine.RunnerConfig{TickInterval: cfg.TickInterval()},
		Logger:    logger,
		Observer:  service.NewLogUseCaseObserver(logger),
	})
	if err != nil {
		return fmt.Errorf("starting companion: %w", err)
	}
	defer companion.Close()

	app := &cli.App{
		Session:    companion,
		Chat:       companion,
		Settings:   companion,
		Flashcards: companion,
		History:    companion,
		Events:     bus,
		Config:     cfg,
		Logger:     logger,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		},
	}

	return cli.NewRootCmd(app).Execute()
}

// newMedia resolves the configured speech and playback programs.
func newMedia(cfg config.MediaConfig, stderr io.Writer) (media.Speaker, media.AudioPlayer) {
	var speaker media.Speaker
	switch cfg.Speaker {
	case "none":
		speaker = media.NoopSpeaker{}
	case "print":
		speaker = media.NewWriterSpeaker(stderr)
	case "auto", "":
		speaker = media.DetectSpeaker("")
	default:
		speaker = media.DetectSpeaker(cfg.Speaker)
	}

	var player media.AudioPlayer
	switch cfg.Player {
	case "none":
		player = media.NoopPlayer{}
	case "auto", "":
		player = media.DetectPlayer("")
	default:
		player = media.DetectPlayer(cfg.Player)
	}
	return speaker, player
}
