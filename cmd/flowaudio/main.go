package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/faiface/beep"
	"github.com/jscyril/flowaudio/api"
	"github.com/jscyril/flowaudio/internal/audio"
	"github.com/jscyril/flowaudio/internal/config"
	"github.com/jscyril/flowaudio/internal/library"
	"github.com/jscyril/flowaudio/internal/logging"
	"github.com/jscyril/flowaudio/internal/prefs"
	"github.com/jscyril/flowaudio/internal/settings"
	"github.com/jscyril/flowaudio/internal/ui"
	playerrors "github.com/jscyril/flowaudio/pkg/errors"
	"github.com/jscyril/flowaudio/pkg/events"
	"github.com/rs/zerolog"
)

const speakerBuffer = 100 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	// Load configuration
	configPath := config.GetConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.ResolvePaths(filepath.Dir(configPath))

	logger, logCloser, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: cfg.LogFile == "",
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	// Setup context with graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := events.NewBus()
	defer bus.Close()

	backend, store, closePrefs, err := openStore(ctx, cfg, bus, logger)
	if err != nil {
		return err
	}
	defer closePrefs()

	tracks, sfx, err := loadAssets(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info().Int("tracks", len(tracks)).Int("sfx", len(sfx)).Msg("assets resolved")
	if len(tracks) == 0 {
		logger.Warn().Err(playerrors.ErrNoTracks).Str("manifest", cfg.ManifestPath).Msg("music disabled")
	}

	music, effects, closeAudio := openChannels(ctx, cfg, tracks, sfx, logger)
	defer closeAudio()

	player := audio.NewPlayer(music, effects, tracks, sfx, audio.PlayerOptions{
		FadeDuration: cfg.FadeDuration.Std(),
		Bus:          bus,
		Logger:       logger,
	})

	loop := audio.NewLoop(player, cfg.TickInterval.Std(), logger)
	loop.Start(ctx)
	if err := loop.Do(func() { player.Bind(store, bus) }); err != nil {
		return err
	}

	if cfg.WatchPrefs {
		stop := watchPrefs(ctx, backend, loop, store, logger)
		defer stop()
	}

	// Run UI
	if err := ui.Run(ctx, ui.NewSession(loop, store, logger), cfg.KeyBindings); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	cancel()
	<-loop.Done()
	return nil
}

// openStore opens the configured preferences backend and loads settings from it
func openStore(ctx context.Context, cfg *config.Config, bus *events.Bus, logger zerolog.Logger) (prefs.Prefs, *settings.Store, func(), error) {
	p, closePrefs, err := prefs.Open(ctx, prefs.Options{
		Backend:     cfg.PrefsBackend,
		Path:        cfg.PrefsPath,
		DatabaseURL: cfg.DatabaseURL,
		Timeout:     5 * time.Second,
	})
	if err != nil {
		return nil, nil, closePrefs, fmt.Errorf("open prefs: %w", err)
	}
	return p, settings.NewStore(p, bus, logger), closePrefs, nil
}

// loadAssets resolves the manifest into the track list and SFX table
func loadAssets(ctx context.Context, cfg *config.Config) ([]*api.Clip, []api.SFXEntry, error) {
	manifest, err := library.LoadManifest(cfg.ManifestPath)
	if err != nil {
		return nil, nil, err
	}

	scanner := library.NewScanner(cfg.ScanWorkers)
	tracks, err := manifest.Tracks(ctx, scanner)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve tracks: %w", err)
	}
	sfx, err := manifest.SFXEntries(scanner)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve sfx: %w", err)
	}
	return tracks, sfx, nil
}

// openChannels creates speaker-backed channels, falling back to silent
// channels when no audio device is available. The returned func silences
// the speaker.
func openChannels(ctx context.Context, cfg *config.Config, tracks []*api.Clip, sfx []api.SFXEntry, logger zerolog.Logger) (audio.Channel, audio.Channel, func()) {
	sampleRate := beep.SampleRate(cfg.SampleRate)

	out, err := audio.NewSpeakerOutput(sampleRate, speakerBuffer)
	if err != nil {
		logger.Warn().Err(err).Msg("audio device unavailable, playing silently")
		return audio.NewSilentChannel(), audio.NewSilentChannel(), func() {}
	}

	bank := audio.NewClipBank(sampleRate)
	clips := append([]*api.Clip{}, tracks...)
	for _, entry := range sfx {
		clips = append(clips, entry.Clip)
	}
	if err := bank.Preload(ctx, cfg.ScanWorkers, clips...); err != nil {
		logger.Warn().Err(err).Msg("preload incomplete")
	}

	music := audio.NewBeepChannel("music", out, bank, cfg.LoopMusic)
	effects := audio.NewBeepChannel("sfx", out, bank, false)
	logger.Info().
		Strs("channels", []string{music.Name(), effects.Name()}).
		Int("sample_rate", cfg.SampleRate).
		Int("clips", bank.Len()).
		Msg("speaker ready")

	return music, effects, out.Clear
}

// watchPrefs reloads settings when the preferences file changes on disk.
// Other backends are not watched.
func watchPrefs(ctx context.Context, backend prefs.Prefs, loop *audio.Loop, store *settings.Store, logger zerolog.Logger) func() {
	noop := func() {}

	file, ok := backend.(*prefs.File)
	if !ok {
		return noop
	}

	w, err := prefs.NewWatcher(file.Path())
	if err != nil {
		logger.Warn().Err(err).Msg("prefs watcher disabled")
		return noop
	}

	log := logger.With().Str("component", "prefs-watch").Logger()
	go func() {
		for {
			select {
			case _, ok := <-w.Events:
				if !ok {
					return
				}
				err := loop.Do(func() {
					if err := file.Reload(); err != nil {
						log.Warn().Err(err).Msg("reload prefs")
						return
					}
					store.Reload()
				})
				if err != nil {
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("watch prefs")
			case <-ctx.Done():
				return
			}
		}
	}()

	return func() { _ = w.Close() }
}
