package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/app"
	"github.com/llehouerou/aura/internal/applog"
	"github.com/llehouerou/aura/internal/catalog"
	"github.com/llehouerou/aura/internal/config"
	"github.com/llehouerou/aura/internal/errmsg"
	"github.com/llehouerou/aura/internal/icons"
	"github.com/llehouerou/aura/internal/keepalive"
	"github.com/llehouerou/aura/internal/lastfm"
	"github.com/llehouerou/aura/internal/mpris"
	"github.com/llehouerou/aura/internal/notify"
	"github.com/llehouerou/aura/internal/playback"
	"github.com/llehouerou/aura/internal/player"
	"github.com/llehouerou/aura/internal/retry"
	"github.com/llehouerou/aura/internal/sched"
	"github.com/llehouerou/aura/internal/state"
	"github.com/llehouerou/aura/internal/stats"
)

const (
	appName      = "aura"
	authAddr     = "127.0.0.1:5555"
	linkTimeout  = 5 * time.Minute
	catalogLimit = 30 * time.Second
)

func main() {
	linkLastfm := flag.Bool("link-lastfm", false, "link a Last.fm account and exit")
	unlinkLastfm := flag.Bool("unlink-lastfm", false, "forget the linked Last.fm account and exit")
	flag.Parse()

	if err := run(*linkLastfm, *unlinkLastfm); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

//nolint:funlen // linear wiring of every component
func run(linkLastfm, unlinkLastfm bool) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpConfigLoad, err))
	}
	icons.Init(cfg.GetIconStyle())

	logger, logFile, err := applog.Setup(cfg.GetLogFile(), cfg.Log.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log := logger.WithField("component", "main")

	clk := sched.New()
	stateMgr, err := state.Open(state.Options{Scheduler: clk})
	if err != nil {
		return errors.New(errmsg.Format(errmsg.OpStateOpen, err))
	}
	defer stateMgr.Close()

	var lfm *lastfm.Client
	if cfg.HasLastfmConfig() {
		lfm = lastfm.New(cfg.Lastfm.APIKey, cfg.Lastfm.APISecret)
		if _, err := lfm.Restore(stateMgr); err != nil {
			log.WithError(err).Warn("restore Last.fm session")
		}
	}

	switch {
	case linkLastfm || unlinkLastfm:
		if lfm == nil {
			return errors.New("lastfm api_key and api_secret must be set in config.toml")
		}
		if unlinkLastfm {
			if err := lfm.Unlink(stateMgr); err != nil {
				return errors.New(errmsg.Format(errmsg.OpLastfmUnlink, err))
			}
			fmt.Println("Last.fm account unlinked")
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), linkTimeout)
		defer cancel()
		fmt.Println("Waiting for Last.fm authorization in your browser...")
		s, err := lastfm.Link(ctx, lfm, stateMgr, authAddr, lastfm.OpenBrowser)
		if err != nil {
			return errors.New(errmsg.Format(errmsg.OpLastfmAuth, err))
		}
		fmt.Printf("Linked Last.fm account %s\n", s.Username)
		return nil
	}

	capture, err := applog.CaptureStderr(logger)
	if err != nil {
		log.WithError(err).Warn("capture stderr")
	} else {
		defer capture.Stop()
	}

	pcfg := cfg.GetPlaybackConfig()
	audio := player.New(player.Config{
		Client:             player.NewHTTPClient(),
		Logger:             logger,
		UserAgent:          pcfg.UserAgent,
		MaxBytes:           pcfg.MaxBytes,
		TimeUpdateInterval: pcfg.TimeUpdate,
	})

	scfg := cfg.GetStatsConfig()
	reporter := newReporter(lfm, stateMgr, scfg, logger)
	defer reporter.Wait()

	keep := newKeepAlive(cfg.GetKeepAliveConfig(), clk, audio, logger)

	sessions, closers := newSessions(lfm, logger)
	defer closeAll(closers, log)

	rcfg := cfg.GetRetryConfig()
	engine := playback.New(playback.Config{
		Player:    audio,
		Scheduler: clk,
		Stats:     reporter,
		KeepAlive: keep,
		Session:   sessions.all,
		Store:     stateMgr,
		Retry: retry.Policy{
			MaxAttempts: rcfg.MaxAttempts,
			Delay:       rcfg.Delay,
			Fallback:    rcfg.Fallback,
		},
		Logger:           logger,
		FadeIn:           pcfg.FadeIn,
		FadeOut:          pcfg.FadeOut,
		FadeTick:         pcfg.FadeTick,
		FadeOutWindow:    pcfg.FadeOutWindow,
		ResumeFadeWindow: pcfg.ResumeFadeWindow,
		RestartThreshold: pcfg.RestartThreshold,
		Eligibility:      scfg.Eligibility,
	})
	defer func() {
		if err := engine.Close(); err != nil {
			log.WithError(err).Warn("close playback engine")
		}
	}()

	if adapter, err := mpris.New(appName, engine, sessions.mpris); err != nil {
		log.WithError(err).Warn(errmsg.Format(errmsg.OpMediaSession, err))
	} else {
		defer adapter.Close()
	}

	restore(engine, stateMgr, pcfg.Volume, log)

	ctx, cancel := context.WithTimeout(context.Background(), catalogLimit)
	cat, err := catalog.Loader{Logger: logger}.Load(ctx, cfg.Catalog.Paths)
	cancel()
	if err != nil {
		log.WithError(err).Warn(errmsg.Format(errmsg.OpCatalogLoad, err))
	}

	var statsView app.Stats
	if lfm != nil {
		statsView = reporter
	}
	model := app.New(app.Options{
		Engine:            engine,
		Catalog:           cat,
		Stats:             statsView,
		Volumes:           stateMgr,
		Logger:            logger,
		TickInterval:      pcfg.TimeUpdate * 2,
		ReconcileInterval: scfg.Reconcile,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.New(errmsg.Format(errmsg.OpInitialize, err))
	}
	return nil
}

func newReporter(lfm *lastfm.Client, store stats.Store, cfg config.Stats, logger logrus.FieldLogger) *stats.Reporter {
	var (
		recorder stats.Recorder
		identity stats.Identity
	)
	if lfm != nil {
		recorder = lfm
		identity = lfm
	}
	return stats.NewReporter(recorder, identity, stats.NewBuffer(store), stats.Config{
		MinReportable: cfg.MinReportable,
		Timeout:       cfg.Timeout,
		Logger:        logger,
	})
}

func newKeepAlive(cfg config.KeepAlive, clk sched.Scheduler, out keepalive.Output, logger *logrus.Logger) *keepalive.Coordinator {
	kc := keepalive.Config{
		Scheduler: clk,
		Interval:  cfg.Interval,
		Output:    out,
		Logger:    logger,
	}
	if cfg.WakeLock {
		lock, err := keepalive.NewDBus(appName, "Playing music")
		if err != nil {
			logger.WithError(err).Warn(errmsg.Format(errmsg.OpKeepAlive, err))
		} else {
			kc.WakeLock = lock
			kc.Pingers = []keepalive.Pinger{lock}
		}
	}
	return keepalive.New(kc)
}

type mediaSessions struct {
	all   playback.Sessions
	mpris *mpris.Session
}

// newSessions builds the media session fan-out: MPRIS, desktop
// notifications and the Last.fm now-playing announcer.
func newSessions(lfm *lastfm.Client, logger *logrus.Logger) (mediaSessions, []io.Closer) {
	s := mediaSessions{mpris: mpris.NewSession()}
	s.all = append(s.all, s.mpris)

	var closers []io.Closer
	if n, err := notify.New("Aura"); err != nil {
		logger.WithError(err).Debug("desktop notifications unavailable")
	} else {
		tn := notify.NewTrackNotifier(n, logger)
		s.all = append(s.all, tn)
		closers = append(closers, tn)
	}
	if lfm != nil {
		a := lastfm.NewAnnouncer(lfm, logger)
		s.all = append(s.all, a)
		closers = append(closers, a)
	}
	return s, closers
}

func closeAll(closers []io.Closer, log logrus.FieldLogger) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.WithError(err).Debug("close")
		}
	}
}

// restore brings back the saved volume and the last session's track.
func restore(engine *playback.Engine, store *state.Manager, fallbackVolume float64, log logrus.FieldLogger) {
	volume := fallbackVolume
	if _, saved, _ := store.Get(state.VolumeKey); saved {
		v, err := store.GetVolume()
		if err != nil {
			log.WithError(err).Warn(errmsg.Format(errmsg.OpVolumeLoad, err))
		} else {
			volume = v
		}
	}
	engine.SetVolume(volume)

	snap, err := store.LoadPlayback()
	if err != nil {
		log.WithError(err).Warn(errmsg.Format(errmsg.OpPlaybackRestore, err))
		return
	}
	if snap != nil {
		engine.Restore(*snap)
	}
}
