package session

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/user-mgrei/bambam-extended/internal/gamestate"
	"github.com/user-mgrei/bambam-extended/internal/profile"
	"github.com/user-mgrei/bambam-extended/internal/rng"
	"github.com/user-mgrei/bambam-extended/internal/storage"
	"github.com/user-mgrei/bambam-extended/internal/theme"
)

type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// memorySaver collects session records in memory.
type memorySaver struct {
	records []storage.SessionRecord
	err     error
}

func (m *memorySaver) SaveSession(rec storage.SessionRecord) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.records = append(m.records, rec)
	return int64(len(m.records)), nil
}

func newTestRunner(t *testing.T, opts Options) (*Runner, *fakeClock) {
	t.Helper()
	if opts.Tracker == nil {
		opts.Tracker = profile.NewTracker(profile.NewProfile("Ana"), nil)
	}
	if opts.Shared == nil {
		opts.Shared = gamestate.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Themes == nil {
		opts.Themes = theme.NewCatalog(rng.New(1))
	}
	r, err := New(opts)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	clock := newFakeClock()
	r.SetClock(clock.now)
	return r, clock
}

func TestStartPublishesStatus(t *testing.T) {
	shared := gamestate.New()
	r, _ := newTestRunner(t, Options{Shared: shared, Theme: "farm"})

	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	got := shared.ReadStatus()
	if !got.Running {
		t.Error("status not running after Start")
	}
	if got.CurrentTheme != "farm" {
		t.Errorf("CurrentTheme = %q, want farm", got.CurrentTheme)
	}
	if got.ProfileName != "Ana" {
		t.Errorf("ProfileName = %q, want Ana", got.ProfileName)
	}
	if got.SessionStart == nil {
		t.Error("SessionStart not published")
	}

	if err := r.Start(); err == nil {
		t.Error("second Start() accepted while running")
	}
}

func TestStartFallsBackToSuggestedTheme(t *testing.T) {
	tracker := profile.NewTracker(profile.NewProfile("Ana"), nil)
	tracker.RecordThemeEngagement("space", 1.0)

	shared := gamestate.New()
	r, _ := newTestRunner(t, Options{Shared: shared, Tracker: tracker})
	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	if got := shared.ReadStatus().CurrentTheme; got != "space" {
		t.Errorf("suggested theme = %q, want space", got)
	}
}

func TestHandleKeyUpdatesStatus(t *testing.T) {
	shared := gamestate.New()
	r, clock := newTestRunner(t, Options{Shared: shared, Theme: "default"})
	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	r.HandleKey("a", "a.ogg", "")
	clock.advance(time.Second)
	r.HandleKey("b", "b.ogg", "")

	got := shared.ReadStatus()
	if got.KeypressCount != 2 {
		t.Errorf("KeypressCount = %d, want 2", got.KeypressCount)
	}
	if got.LastKeypress == nil {
		t.Error("LastKeypress not published")
	}
}

func TestHandleKeyIgnoredWhilePaused(t *testing.T) {
	shared := gamestate.New()
	r, _ := newTestRunner(t, Options{Shared: shared, Theme: "default"})
	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	shared.SubmitControl(gamestate.ControlPatch{Pause: true})
	r.Tick()
	if !r.Paused() {
		t.Fatal("pause command not applied")
	}

	r.HandleKey("a", "", "")
	if got := shared.ReadStatus().KeypressCount; got != 0 {
		t.Errorf("paused keypress counted: %d", got)
	}

	shared.SubmitControl(gamestate.ControlPatch{Resume: true})
	r.Tick()
	r.HandleKey("a", "", "")
	if got := shared.ReadStatus().KeypressCount; got != 1 {
		t.Errorf("resumed keypress not counted: %d", got)
	}
}

func TestTickAppliesMuteAndTheme(t *testing.T) {
	shared := gamestate.New()
	r, _ := newTestRunner(t, Options{Shared: shared, Theme: "default"})
	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	shared.SubmitControl(gamestate.ControlPatch{Mute: true, ChangeTheme: "dark"})
	result := r.Tick()
	if result.StopRequested {
		t.Error("unexpected stop request")
	}
	if !r.Muted() {
		t.Error("mute command not applied")
	}

	got := shared.ReadStatus()
	if !got.Muted {
		t.Error("mute not published")
	}
	if got.CurrentTheme != "dark" {
		t.Errorf("CurrentTheme = %q, want dark", got.CurrentTheme)
	}

	// Unknown theme request is ignored, not fatal.
	shared.SubmitControl(gamestate.ControlPatch{ChangeTheme: "lava"})
	r.Tick()
	if got := shared.ReadStatus().CurrentTheme; got != "dark" {
		t.Errorf("unknown theme applied: %q", got)
	}
}

func TestTickStopRequest(t *testing.T) {
	shared := gamestate.New()
	r, _ := newTestRunner(t, Options{Shared: shared, Theme: "default"})
	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	shared.SubmitControl(gamestate.ControlPatch{Stop: true})
	if result := r.Tick(); !result.StopRequested {
		t.Error("stop request not reported")
	}
}

func TestStopRecordsSessionAndClearsStatus(t *testing.T) {
	shared := gamestate.New()
	saver := &memorySaver{}
	r, clock := newTestRunner(t, Options{Shared: shared, Theme: "farm", Sessions: saver})
	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	// 120 presses over 2 minutes: one per second, full engagement.
	for i := 0; i < 120; i++ {
		r.HandleKey("a", "a.ogg", "")
		clock.advance(time.Second)
	}

	if err := r.Stop(); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	got := shared.ReadStatus()
	if got.Running {
		t.Error("status still running after Stop")
	}
	if got.SessionStart != nil {
		t.Error("SessionStart not cleared")
	}

	if len(saver.records) != 1 {
		t.Fatalf("session log has %d records, want 1", len(saver.records))
	}
	rec := saver.records[0]
	if rec.Profile != "ana" {
		t.Errorf("record profile = %q, want ana", rec.Profile)
	}
	if rec.EventCount != 120 {
		t.Errorf("record event count = %d, want 120", rec.EventCount)
	}
	if rec.Theme != "farm" {
		t.Errorf("record theme = %q, want farm", rec.Theme)
	}
	if rec.SessionID == "" {
		t.Error("record has no session id")
	}

	// Full engagement moved the theme score above the prior.
	p := r.tracker.Profile()
	if got := p.ThemeEngagement["farm"]; got <= profile.DefaultScore {
		t.Errorf("theme engagement = %v, want > 0.5", got)
	}
	if p.TotalSessions != 1 {
		t.Errorf("total_sessions = %d, want 1", p.TotalSessions)
	}

	// Stop is idempotent.
	if err := r.Stop(); err != nil {
		t.Errorf("second Stop() failed: %v", err)
	}
	if p.TotalSessions != 1 {
		t.Errorf("second Stop double counted: %d", p.TotalSessions)
	}
}

func TestStopReportsLogFailureButKeepsProfile(t *testing.T) {
	saver := &memorySaver{err: errors.New("db locked")}
	r, clock := newTestRunner(t, Options{Theme: "default", Sessions: saver})
	if err := r.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	clock.advance(30 * time.Second)

	if err := r.Stop(); err == nil {
		t.Fatal("Stop() swallowed session log failure")
	}
	if got := r.tracker.Profile().TotalSessions; got != 1 {
		t.Errorf("profile aggregates lost on log failure: %d", got)
	}
}

func TestHandleKeyBeforeStartIsNoop(t *testing.T) {
	shared := gamestate.New()
	r, _ := newTestRunner(t, Options{Shared: shared, Theme: "default"})

	if got := r.HandleKey("a", "", ""); got != (KeyResult{}) {
		t.Errorf("keypress before Start returned %+v", got)
	}
	if got := shared.ReadStatus().KeypressCount; got != 0 {
		t.Errorf("keypress before Start counted: %d", got)
	}
}
