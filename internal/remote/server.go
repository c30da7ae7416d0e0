// Package remote serves the parent control surface: a small web page plus
// JSON endpoints for reading game status and submitting control commands.
// Everything it does flows through the shared game state cell; it never
// touches the game loop directly.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"

	"github.com/user-mgrei/bambam-extended/internal/gamestate"
)

// Config holds the remote server settings. Environment variables override
// the values loaded from the config file.
type Config struct {
	Address string `env:"BAMBAM_REMOTE_ADDR"`

	// ReadTimeout and ShutdownTimeout guard against stuck clients.
	ReadTimeout     time.Duration `env:"BAMBAM_REMOTE_READ_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"BAMBAM_REMOTE_SHUTDOWN_TIMEOUT"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		ReadTimeout:     10 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// FromEnv overlays environment variables onto the given config.
func FromEnv(cfg Config) (Config, error) {
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("remote: cannot parse environment: %w", err)
	}
	return cfg, nil
}

// Lists supplies the candidate sets shown to the parent. Both funcs may be
// nil, in which case the endpoints return empty lists.
type Lists struct {
	Extensions func() []string
	Themes     func() []string
}

// Server is the remote control HTTP server.
type Server struct {
	config Config
	shared *gamestate.Shared
	lists  Lists
	logger *log.Logger
	srv    *http.Server
}

// NewServer creates a remote control server over the shared state cell.
func NewServer(cfg Config, shared *gamestate.Shared, lists Lists, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "bambam-remote",
		})
	}
	s := &Server{
		config: cfg,
		shared: shared,
		lists:  lists,
		logger: logger,
	}
	s.srv = &http.Server{
		Addr:        cfg.Address,
		Handler:     s.Handler(),
		ReadTimeout: cfg.ReadTimeout,
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can drive it
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("POST /api/control", s.handleControl)
	mux.HandleFunc("GET /api/extensions", s.handleExtensions)
	mux.HandleFunc("GET /api/themes", s.handleThemes)
	return mux
}

// ListenAndServe runs the server until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info("remote control listening", "address", s.config.Address)
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(controlPageHTML)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.shared.ReadStatus())
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	var patch gamestate.ControlPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, `{"error":"invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	s.shared.SubmitControl(patch)
	s.logger.Debug("control submitted",
		"mute", patch.Mute, "unmute", patch.Unmute,
		"pause", patch.Pause, "resume", patch.Resume, "stop", patch.Stop,
		"extension", patch.ChangeExtension, "theme", patch.ChangeTheme)
	writeJSON(w, map[string]string{"status": "ok"})
}

func (s *Server) handleExtensions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string][]string{"extensions": s.listOf(s.lists.Extensions)})
}

func (s *Server) handleThemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string][]string{"themes": s.listOf(s.lists.Themes)})
}

func (s *Server) listOf(f func() []string) []string {
	if f == nil {
		return []string{}
	}
	out := f()
	if out == nil {
		return []string{}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
