// Package gamestate is the bridge between the game loop and the remote
// control surface. One Shared cell per process holds a live status
// snapshot published by the game loop and a pending-command queue filled
// by control handlers and drained once per game tick.
package gamestate

import (
	"sync"
	"time"
)

// Status is the game loop's published view of the running session.
// The game loop is its only writer.
type Status struct {
	Running          bool       `json:"running"`
	Muted            bool       `json:"muted"`
	CurrentExtension string     `json:"current_extension"`
	CurrentTheme     string     `json:"current_theme"`
	SessionStart     *time.Time `json:"session_start"`
	KeypressCount    int        `json:"keypress_count"`
	LastKeypress     *time.Time `json:"last_keypress"`
	ProfileName      string     `json:"profile_name"`
}

// Control is the pending-command cell. Flags and payloads accumulate
// across submissions and reset on drain.
type Control struct {
	Mute            bool   `json:"mute"`
	Unmute          bool   `json:"unmute"`
	Pause           bool   `json:"pause"`
	Resume          bool   `json:"resume"`
	Stop            bool   `json:"stop"`
	ChangeExtension string `json:"change_extension"`
	ChangeTheme     string `json:"change_theme"`
}

// Empty reports whether no command is pending.
func (c Control) Empty() bool {
	return c == Control{}
}

// StatusPatch carries the fields a PublishStatus call wants to change.
// Nil fields leave the current value untouched.
type StatusPatch struct {
	Running          *bool
	Muted            *bool
	CurrentExtension *string
	CurrentTheme     *string
	SessionStart     **time.Time
	KeypressCount    *int
	LastKeypress     **time.Time
	ProfileName      *string
}

// ControlPatch carries the slots a SubmitControl call wants to set.
// False flags and empty payloads leave the pending cell untouched, so
// concurrent submitters merge instead of overwriting each other.
type ControlPatch struct {
	Mute            bool   `json:"mute"`
	Unmute          bool   `json:"unmute"`
	Pause           bool   `json:"pause"`
	Resume          bool   `json:"resume"`
	Stop            bool   `json:"stop"`
	ChangeExtension string `json:"change_extension"`
	ChangeTheme     string `json:"change_theme"`
}

// Shared is the process-wide state cell. All four operations take the same
// mutex, which makes drains linearizable with submissions: a command
// submitted before a drain is visible in that drain or a later one, never
// lost.
type Shared struct {
	mu      sync.Mutex
	status  Status
	control Control
}

// New creates an empty state cell.
func New() *Shared {
	return &Shared{}
}

// PublishStatus merges the patch into the current status. Called only by
// the game loop.
func (s *Shared) PublishStatus(patch StatusPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Running != nil {
		s.status.Running = *patch.Running
	}
	if patch.Muted != nil {
		s.status.Muted = *patch.Muted
	}
	if patch.CurrentExtension != nil {
		s.status.CurrentExtension = *patch.CurrentExtension
	}
	if patch.CurrentTheme != nil {
		s.status.CurrentTheme = *patch.CurrentTheme
	}
	if patch.SessionStart != nil {
		s.status.SessionStart = copyTime(*patch.SessionStart)
	}
	if patch.KeypressCount != nil {
		s.status.KeypressCount = *patch.KeypressCount
	}
	if patch.LastKeypress != nil {
		s.status.LastKeypress = copyTime(*patch.LastKeypress)
	}
	if patch.ProfileName != nil {
		s.status.ProfileName = *patch.ProfileName
	}
}

// ReadStatus returns a consistent snapshot. Safe to call from any
// goroutine at any rate.
func (s *Shared) ReadStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.status
	snap.SessionStart = copyTime(s.status.SessionStart)
	snap.LastKeypress = copyTime(s.status.LastKeypress)
	return snap
}

// SubmitControl merges requested commands into the pending cell. Any
// goroutine may call it; concurrent submissions never lose each other's
// slots.
func (s *Shared) SubmitControl(patch ControlPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Mute {
		s.control.Mute = true
	}
	if patch.Unmute {
		s.control.Unmute = true
	}
	if patch.Pause {
		s.control.Pause = true
	}
	if patch.Resume {
		s.control.Resume = true
	}
	if patch.Stop {
		s.control.Stop = true
	}
	if patch.ChangeExtension != "" {
		s.control.ChangeExtension = patch.ChangeExtension
	}
	if patch.ChangeTheme != "" {
		s.control.ChangeTheme = patch.ChangeTheme
	}
}

// DrainControl atomically returns the pending commands and resets the
// cell. The game loop calls it once per tick.
func (s *Shared) DrainControl() Control {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.control
	s.control = Control{}
	return pending
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
