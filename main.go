package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/yhkl-dev/navideck/config"
	"github.com/yhkl-dev/navideck/domain"
	"github.com/yhkl-dev/navideck/library"
	"github.com/yhkl-dev/navideck/playback"
	"github.com/yhkl-dev/navideck/player"
	"github.com/yhkl-dev/navideck/ui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "navideck:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := config.Flags()
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return err
	}

	logger, closer, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	lib, err := library.New(cfg.Catalog.Kind, cfg.Catalog.Path, logger)
	if err != nil {
		return err
	}
	catalog, err := library.LoadCatalog(lib)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Engine goroutines outlive the signal context so Detach can still reach them
	engineCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	media, err := newResource(engineCtx, cfg.Player, logger)
	if err != nil {
		return err
	}

	opts := playback.Options{
		AutoAdvanceOnError: cfg.Player.AutoAdvanceOnError,
		StartLooping:       cfg.Player.StartLooping,
		StartMuted:         cfg.Player.StartMuted,
	}

	logger.WithFields(logrus.Fields{
		"backend": cfg.Player.Backend,
		"catalog": cfg.Catalog.Path,
		"tracks":  catalog.Len(),
	}).Info("starting navideck")

	if cfg.Player.Headless {
		return runHeadless(ctx, catalog, media, opts, logger)
	}
	return runUI(ctx, cfg.UI, catalog, media, opts, logger)
}

func newResource(ctx context.Context, cfg config.PlayerConfig, logger logrus.FieldLogger) (player.Resource, error) {
	tick := cfg.GetTimeUpdateInterval()
	switch cfg.Backend {
	case config.BackendMPV:
		r, err := player.NewMPVResource(ctx, tick, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to start mpv: %w", err)
		}
		return r, nil
	case config.BackendBeep:
		return player.NewBeepResource(ctx, tick, logger), nil
	default:
		return nil, fmt.Errorf("unknown player backend: %s", cfg.Backend)
	}
}

func runUI(ctx context.Context, cfg config.UIConfig, catalog *domain.Catalog, media player.Resource, opts playback.Options, logger logrus.FieldLogger) error {
	app := ui.NewApp(cfg, logger)
	controller, err := playback.NewController(catalog, media, app.Dispatcher(), opts, logger)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		app.Stop()
	}()
	return app.Run(controller)
}

// runHeadless plays the catalog without a terminal UI until ctx is done
func runHeadless(ctx context.Context, catalog *domain.Catalog, media player.Resource, opts playback.Options, logger logrus.FieldLogger) error {
	loop := playback.NewLoop(64)
	controller, err := playback.NewController(catalog, media, loop, opts, logger)
	if err != nil {
		return err
	}

	go func() {
		err := loop.Do(ctx, func() {
			last := -1
			controller.Session().Observe(func(s domain.Snapshot) {
				if s.SelectedIndex == last {
					return
				}
				last = s.SelectedIndex
				track, _ := catalog.Track(s.SelectedIndex)
				logger.WithFields(logrus.Fields{
					"index":  s.SelectedIndex,
					"title":  track.Title,
					"artist": track.Artist,
				}).Info("now playing")
			})
			if err := controller.Attach(); err != nil {
				logger.WithError(err).Error("Failed to attach player")
				return
			}
			if err := controller.TogglePlay(); err != nil {
				logger.WithError(err).Error("Failed to start playback")
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.WithError(err).Warn("headless start interrupted")
		}
	}()

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	// The loop has stopped; this goroutine owns the controller from here
	if err := controller.Detach(); err != nil && !errors.Is(err, playback.ErrDetached) {
		return err
	}
	logger.Info("navideck stopped")
	return nil
}
