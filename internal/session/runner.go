// Package session runs one play session: it feeds keypresses to the
// engagement tracker and the three rotation managers, publishes status to
// the shared state cell, and applies remote control commands once per
// tick.
package session

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/user-mgrei/bambam-extended/internal/background"
	"github.com/user-mgrei/bambam-extended/internal/extension"
	"github.com/user-mgrei/bambam-extended/internal/gamestate"
	"github.com/user-mgrei/bambam-extended/internal/profile"
	"github.com/user-mgrei/bambam-extended/internal/storage"
	"github.com/user-mgrei/bambam-extended/internal/theme"
)

// Saver records completed sessions in the session log. The storage package
// implements it; the runner works without one.
type Saver interface {
	SaveSession(rec storage.SessionRecord) (int64, error)
}

// Options wires a Runner's collaborators.
type Options struct {
	Logger      *log.Logger
	Tracker     *profile.Tracker
	Extensions  *extension.Set
	Themes      *theme.Catalog
	Backgrounds *background.Gallery
	Shared      *gamestate.Shared

	// Sessions is the optional session log.
	Sessions Saver

	// Extension and Theme pick the starting mode; empty values fall back
	// to the tracker's suggestion.
	Extension string
	Theme     string

	StartMuted bool
}

// KeyResult reports what a keypress changed, for the renderer to act on.
type KeyResult struct {
	NewExtension  string
	NewTheme      string
	NewBackground string
}

// TickResult reports what the per-tick control drain requested.
type TickResult struct {
	StopRequested bool
}

// Runner owns one session's state. It is driven synchronously from the
// game loop; only the shared state cell it publishes into is safe for
// concurrent access.
type Runner struct {
	logger      *log.Logger
	tracker     *profile.Tracker
	extensions  *extension.Set
	themes      *theme.Catalog
	backgrounds *background.Gallery
	shared      *gamestate.Shared
	sessions    Saver
	now         func() time.Time

	sessionID  uuid.UUID
	running    bool
	paused     bool
	muted      bool
	keypresses int
}

// New creates a Runner. Start must be called before keypresses are
// handled.
func New(opts Options) (*Runner, error) {
	if opts.Tracker == nil {
		return nil, fmt.Errorf("session: tracker is required")
	}
	if opts.Shared == nil {
		return nil, fmt.Errorf("session: shared state is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	r := &Runner{
		logger:      logger,
		tracker:     opts.Tracker,
		extensions:  opts.Extensions,
		themes:      opts.Themes,
		backgrounds: opts.Backgrounds,
		shared:      opts.Shared,
		sessions:    opts.Sessions,
		now:         time.Now,
		muted:       opts.StartMuted,
	}
	r.pickStartingModes(opts.Extension, opts.Theme)
	return r, nil
}

// SetClock overrides the time source for tests.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
	r.tracker.SetClock(now)
}

// pickStartingModes selects the configured extension and theme, falling
// back to the engagement tracker's suggestion.
func (r *Runner) pickStartingModes(ext, thm string) {
	if r.extensions != nil {
		if ext == "" || !r.extensions.Select(ext) {
			if suggested, ok := r.tracker.SuggestExtension(r.extensions.Active()); ok {
				r.extensions.Select(suggested)
			}
		}
	}
	if r.themes != nil {
		if thm == "" || !r.themes.Select(thm) {
			if suggested, ok := r.tracker.SuggestTheme(r.themes.Names()); ok {
				r.themes.Select(suggested)
			}
		}
	}
}

// Running reports whether a session is active.
func (r *Runner) Running() bool {
	return r.running
}

// Muted reports the current mute state.
func (r *Runner) Muted() bool {
	return r.muted
}

// Paused reports whether input handling is suspended.
func (r *Runner) Paused() bool {
	return r.paused
}

// Start begins the session and publishes the initial status.
func (r *Runner) Start() error {
	if r.running {
		return fmt.Errorf("session: already running")
	}
	r.sessionID = uuid.New()
	r.running = true
	r.paused = false
	r.keypresses = 0

	r.tracker.StartSession(r.currentExtension(), r.currentTheme())
	start := r.tracker.SessionStart()

	r.logger.Info("session started",
		"session", r.sessionID.String(),
		"profile", r.tracker.Profile().Name,
		"extension", r.currentExtension(),
		"theme", r.currentTheme())

	running := true
	muted := r.muted
	ext := r.currentExtension()
	thm := r.currentTheme()
	count := 0
	name := r.tracker.Profile().Name
	startPtr := &start
	r.shared.PublishStatus(gamestate.StatusPatch{
		Running:          &running,
		Muted:            &muted,
		CurrentExtension: &ext,
		CurrentTheme:     &thm,
		SessionStart:     &startPtr,
		KeypressCount:    &count,
		ProfileName:      &name,
	})
	return nil
}

// HandleKey processes one keypress: engagement recording first, then the
// three rotation managers. Paused sessions swallow input.
func (r *Runner) HandleKey(key, soundID, imageID string) KeyResult {
	var result KeyResult
	if !r.running || r.paused {
		return result
	}

	r.tracker.RecordKeypress(key, soundID, imageID)
	r.keypresses++

	if r.extensions != nil {
		if next := r.extensions.OnKeypress(); next != "" {
			r.tracker.SetCurrentExtension(next)
			result.NewExtension = next
			r.logger.Debug("extension rotated", "extension", next)
		}
	}
	if r.themes != nil {
		if next, ok := r.themes.OnKeypress(); ok {
			r.tracker.SetCurrentTheme(next.Name)
			result.NewTheme = next.Name
			r.logger.Debug("theme rotated", "theme", next.Name)
		}
	}
	if r.backgrounds != nil {
		if next := r.backgrounds.OnKeypress(); next != "" {
			result.NewBackground = next
			r.logger.Debug("background rotated", "background", next)
		}
	}

	now := r.now()
	nowPtr := &now
	count := r.keypresses
	patch := gamestate.StatusPatch{
		KeypressCount: &count,
		LastKeypress:  &nowPtr,
	}
	if result.NewExtension != "" {
		patch.CurrentExtension = &result.NewExtension
	}
	if result.NewTheme != "" {
		patch.CurrentTheme = &result.NewTheme
	}
	r.shared.PublishStatus(patch)

	return result
}

// Tick drains pending control commands and applies them. The game loop
// calls it exactly once per frame.
func (r *Runner) Tick() TickResult {
	var result TickResult
	pending := r.shared.DrainControl()
	if pending.Empty() {
		return result
	}

	if pending.Mute {
		r.setMuted(true)
	}
	if pending.Unmute {
		r.setMuted(false)
	}
	if pending.Pause && !r.paused {
		r.paused = true
		r.logger.Info("session paused")
	}
	if pending.Resume && r.paused {
		r.paused = false
		r.logger.Info("session resumed")
	}
	if pending.ChangeExtension != "" && r.extensions != nil {
		if r.extensions.Select(pending.ChangeExtension) {
			r.tracker.SetCurrentExtension(pending.ChangeExtension)
			ext := pending.ChangeExtension
			r.shared.PublishStatus(gamestate.StatusPatch{CurrentExtension: &ext})
			r.logger.Info("extension changed remotely", "extension", ext)
		} else {
			r.logger.Warn("remote requested unknown extension", "extension", pending.ChangeExtension)
		}
	}
	if pending.ChangeTheme != "" && r.themes != nil {
		if r.themes.Select(pending.ChangeTheme) {
			r.tracker.SetCurrentTheme(pending.ChangeTheme)
			thm := pending.ChangeTheme
			r.shared.PublishStatus(gamestate.StatusPatch{CurrentTheme: &thm})
			r.logger.Info("theme changed remotely", "theme", thm)
		} else {
			r.logger.Warn("remote requested unknown theme", "theme", pending.ChangeTheme)
		}
	}
	if pending.Stop {
		result.StopRequested = true
	}
	return result
}

func (r *Runner) setMuted(muted bool) {
	if r.muted == muted {
		return
	}
	r.muted = muted
	m := muted
	r.shared.PublishStatus(gamestate.StatusPatch{Muted: &m})
	r.logger.Info("mute changed", "muted", muted)
}

// Stop ends the session: the session-level engagement observation folds
// into the extension and theme scores, the profile persists, the session
// log gets a record, and the published status clears.
//
// Profile or log persistence failures are returned but never corrupt the
// in-memory state; Stop is safe to call on a stopped runner.
func (r *Runner) Stop() error {
	if !r.running {
		return nil
	}
	r.running = false
	r.paused = false

	start := r.tracker.SessionStart()
	events := r.tracker.EventCount()
	duration := r.now().Sub(start)
	ext := r.currentExtension()
	thm := r.currentTheme()

	if score, ok := engagementScore(events, duration); ok {
		if ext != "" {
			r.tracker.RecordExtensionEngagement(ext, score)
		}
		if thm != "" {
			r.tracker.RecordThemeEngagement(thm, score)
		}
	}

	var firstErr error
	if err := r.tracker.EndSession(); err != nil {
		r.logger.Error("profile save failed", "error", err)
		firstErr = err
	}

	if r.sessions != nil {
		rec := storage.SessionRecord{
			SessionID:    r.sessionID.String(),
			Profile:      profile.FileKey(r.tracker.Profile().Name),
			Extension:    ext,
			Theme:        thm,
			EventCount:   events,
			DurationSecs: int(duration.Seconds()),
			StartedAt:    start,
		}
		if _, err := r.sessions.SaveSession(rec); err != nil {
			r.logger.Error("session log save failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	running := false
	var cleared *time.Time
	r.shared.PublishStatus(gamestate.StatusPatch{
		Running:      &running,
		SessionStart: &cleared,
	})

	r.logger.Info("session ended",
		"session", r.sessionID.String(),
		"duration", duration.Round(time.Second),
		"keypresses", events)
	return firstErr
}

func (r *Runner) currentExtension() string {
	if r.extensions == nil {
		return ""
	}
	return r.extensions.Current()
}

func (r *Runner) currentTheme() string {
	if r.themes == nil {
		return ""
	}
	if t, ok := r.themes.Current(); ok {
		return t.Name
	}
	return ""
}

// engagementScore turns a session's keypress rate into a [0, 1]
// observation: one press per second or faster counts as full engagement.
// Sessions too short to measure produce no observation.
func engagementScore(events int, duration time.Duration) (float64, bool) {
	secs := duration.Seconds()
	if secs < 1 || events == 0 {
		return 0, false
	}
	score := float64(events) / secs
	if score > 1 {
		score = 1
	}
	return score, true
}
