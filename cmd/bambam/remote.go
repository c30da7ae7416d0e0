package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/user-mgrei/bambam-extended/internal/config"
	"github.com/user-mgrei/bambam-extended/internal/gamestate"
	"github.com/user-mgrei/bambam-extended/internal/remote"
	"github.com/user-mgrei/bambam-extended/internal/rng"
)

var flagRemoteAddr string

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Run the parent remote server standalone",
	Long: `Run the remote control web server without a game attached. Useful
for checking the control page and API from a phone before play starts;
commands submitted here are discarded when no session picks them up.

Examples:
  bambam remote
  bambam remote --addr :9090`,
	Args: cobra.NoArgs,
	RunE: runRemote,
}

func init() {
	remoteCmd.Flags().StringVar(&flagRemoteAddr, "addr", "", "Listen address (default: config's remote.address)")
}

func runRemote(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	remoteCfg := remote.DefaultConfig()
	if cfg.Remote.Address != "" {
		remoteCfg.Address = cfg.Remote.Address
	}
	if flagRemoteAddr != "" {
		remoteCfg.Address = flagRemoteAddr
	}
	remoteCfg, err = remote.FromEnv(remoteCfg)
	if err != nil {
		return err
	}

	logger := newLogger("bambam-remote")
	exts, themes, _, err := buildCatalogs(cfg, rng.New(flagSeed), logger)
	if err != nil {
		return err
	}

	srv := remote.NewServer(remoteCfg, gamestate.New(), remote.Lists{
		Extensions: exts.Active,
		Themes:     themes.Names,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		return srv.Shutdown(context.Background())
	}
}
