package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/user-mgrei/bambam-extended/internal/background"
	"github.com/user-mgrei/bambam-extended/internal/config"
	"github.com/user-mgrei/bambam-extended/internal/extension"
	"github.com/user-mgrei/bambam-extended/internal/gamestate"
	"github.com/user-mgrei/bambam-extended/internal/profile"
	"github.com/user-mgrei/bambam-extended/internal/remote"
	"github.com/user-mgrei/bambam-extended/internal/rng"
	"github.com/user-mgrei/bambam-extended/internal/rotation"
	"github.com/user-mgrei/bambam-extended/internal/session"
	"github.com/user-mgrei/bambam-extended/internal/storage"
	"github.com/user-mgrei/bambam-extended/internal/theme"
)

var (
	flagProfile   string
	flagExtension string
	flagTheme     string
	flagMute      bool
)

// tickInterval is how often the play loop drains remote control commands.
const tickInterval = 50 * time.Millisecond

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a play session",
	Long: `Start a play session. Every keypress feeds the engagement tracker
and counts toward the rotation triggers. Ctrl+C or the remote's stop
button ends the session and saves the profile.

Examples:
  bambam play
  bambam play --profile ana
  bambam play --theme farm --mute
  bambam play --extension animalnumbers --seed 42`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagProfile, "profile", "", "Child profile to play under (default: config's profile)")
	playCmd.Flags().StringVar(&flagExtension, "extension", "", "Extension to start with (default: engagement suggestion)")
	playCmd.Flags().StringVar(&flagTheme, "theme", "", "Theme to start with (default: engagement suggestion)")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Start with sound muted")
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger := newLogger("bambam")

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	src := rng.New(flagSeed)

	exts, themes, gallery, err := buildCatalogs(cfg, src, logger)
	if err != nil {
		return err
	}

	store, err := openProfileStore(cfg)
	if err != nil {
		return err
	}
	profileName := flagProfile
	if profileName == "" {
		profileName = cfg.Profile
	}
	if profileName == "" {
		profileName = "default"
	}
	tracker := store.SetActive(profileName)

	var sessions session.Saver
	if flagDBPath != "" {
		sessionLog, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Warn("session log unavailable", "error", err)
		} else {
			defer sessionLog.Close()
			sessions = sessionLog
		}
	}

	startExt := flagExtension
	if startExt == "" {
		startExt = cfg.Extensions.Active
	}
	startTheme := flagTheme
	if startTheme == "" {
		startTheme = cfg.Themes.Active
	}

	shared := gamestate.New()
	runner, err := session.New(session.Options{
		Logger:      logger,
		Tracker:     tracker,
		Extensions:  exts,
		Themes:      themes,
		Backgrounds: gallery,
		Shared:      shared,
		Sessions:    sessions,
		Extension:   startExt,
		Theme:       startTheme,
		StartMuted:  flagMute || cfg.Audio.StartMuted,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var remoteSrv *remote.Server
	if cfg.Remote.Enabled {
		remoteCfg := remote.DefaultConfig()
		if cfg.Remote.Address != "" {
			remoteCfg.Address = cfg.Remote.Address
		}
		remoteCfg, err = remote.FromEnv(remoteCfg)
		if err != nil {
			return err
		}
		remoteSrv = remote.NewServer(remoteCfg, shared, remote.Lists{
			Extensions: exts.Active,
			Themes:     themes.Names,
		}, newLogger("bambam-remote"))
		go func() {
			if err := remoteSrv.ListenAndServe(); err != nil {
				logger.Error("remote server stopped", "error", err)
			}
		}()
	}

	if err := runner.Start(); err != nil {
		return err
	}

	keys := readKeys(ctx)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-ctx.Done():
			logger.Info("interrupt received")
			break loop
		case key, ok := <-keys:
			if !ok {
				break loop
			}
			runner.HandleKey(key, key, key)
		case <-ticker.C:
			if runner.Tick().StopRequested {
				logger.Info("stop requested remotely")
				break loop
			}
		}
	}

	stopErr := runner.Stop()
	if remoteSrv != nil {
		if err := remoteSrv.Shutdown(context.Background()); err != nil {
			logger.Error("remote shutdown failed", "error", err)
		}
	}
	return stopErr
}

// readKeys turns stdin into a stream of single-key events. The channel
// closes on EOF.
func readKeys(ctx context.Context) <-chan string {
	keys := make(chan string)
	go func() {
		defer close(keys)
		reader := bufio.NewReader(os.Stdin)
		for {
			r, _, err := reader.ReadRune()
			if err != nil {
				return
			}
			if r == '\n' || r == '\r' {
				continue
			}
			select {
			case keys <- string(r):
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys
}

// buildCatalogs discovers extensions, themes, and backgrounds and applies
// the configured rotation triggers.
func buildCatalogs(cfg config.Config, src rng.Source, logger *log.Logger) (*extension.Set, *theme.Catalog, *background.Gallery, error) {
	exts := extension.NewSet(src, cfg.Extensions.Roots...)
	if err := exts.Discover(); err != nil {
		logger.Warn("extension discovery failed", "error", err)
	}
	if cfg.Extensions.AllModes || len(cfg.Extensions.Enabled) == 0 {
		exts.ActivateAll()
	} else {
		exts.Activate(cfg.Extensions.Enabled)
	}
	if err := applyTrigger(exts.Rotation().Scheduler(), cfg.Rotation.Extension); err != nil {
		return nil, nil, nil, err
	}

	themes := theme.NewCatalog(src)
	if cfg.Themes.Directory != "" {
		if err := themes.LoadDir(cfg.Themes.Directory); err != nil {
			logger.Warn("custom theme directory unavailable", "error", err)
		}
	}
	if err := applyTrigger(themes.Rotation().Scheduler(), cfg.Rotation.Theme); err != nil {
		return nil, nil, nil, err
	}

	gallery := background.NewGallery(src, cfg.Backgrounds.Directory)
	if err := gallery.Discover(); err != nil {
		logger.Warn("background discovery failed", "error", err)
	}
	if err := applyTrigger(gallery.Rotation().Scheduler(), cfg.Rotation.Background); err != nil {
		return nil, nil, nil, err
	}

	return exts, themes, gallery, nil
}

func applyTrigger(s *rotation.Scheduler, t config.RotationTrigger) error {
	if !t.Enabled {
		s.Disable()
		return nil
	}
	return s.Configure(t.MinKeypresses, t.MaxKeypresses)
}

func openProfileStore(cfg config.Config) (*profile.Store, error) {
	dir := cfg.ProfilesDir
	if dir == "" {
		var err error
		dir, err = profile.DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	store, err := profile.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot open profile store: %w", err)
	}
	return store, nil
}
