package profile

import (
	"sort"
	"time"
)

// Saver persists a profile at session end. The Store implements it; tests
// substitute their own.
type Saver interface {
	SaveProfile(p *Profile) error
}

// sessionEvent is one keypress observation, kept in memory only for the
// duration of a session.
type sessionEvent struct {
	offset time.Duration
	key    string
	sound  string
	image  string
}

// Tracker applies engagement updates to a single profile. It is driven
// synchronously from the game loop and is not safe for concurrent use.
type Tracker struct {
	profile *Profile
	saver   Saver
	now     func() time.Time

	active           bool
	sessionStart     time.Time
	events           []sessionEvent
	currentExtension string
	currentTheme     string
}

// NewTracker creates a tracker over the given profile.
// saver may be nil, in which case EndSession skips persistence.
func NewTracker(p *Profile, saver Saver) *Tracker {
	return &Tracker{
		profile: p,
		saver:   saver,
		now:     time.Now,
	}
}

// SetClock overrides the time source. Tests use it to script inter-press
// gaps without sleeping.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// Profile returns the tracked profile.
func (t *Tracker) Profile() *Profile {
	return t.profile
}

// SessionActive reports whether a session is in progress.
func (t *Tracker) SessionActive() bool {
	return t.active
}

// SessionStart returns the wall-clock start of the active session, or the
// zero time when no session is active.
func (t *Tracker) SessionStart() time.Time {
	if !t.active {
		return time.Time{}
	}
	return t.sessionStart
}

// EventCount returns how many keypresses the active session has seen.
func (t *Tracker) EventCount() int {
	return len(t.events)
}

// StartSession begins a new play session under the given extension and
// theme. An already-active session is restarted.
func (t *Tracker) StartSession(extension, theme string) {
	t.active = true
	t.sessionStart = t.now()
	t.events = t.events[:0]
	t.currentExtension = extension
	t.currentTheme = theme
}

// SetCurrentExtension records a mid-session extension change so the
// session summary reflects what was last active.
func (t *Tracker) SetCurrentExtension(extension string) {
	t.currentExtension = extension
}

// SetCurrentTheme records a mid-session theme change.
func (t *Tracker) SetCurrentTheme(theme string) {
	t.currentTheme = theme
}

// RecordKeypress notes a key press and, when presses arrive in rapid
// succession, rewards the sound and image that accompanied it.
//
// The press count always increments. A sub-2s gap since the previous press
// produces a boost of max(0.1, 1.0 - gapSeconds), folded into the sound and
// image scores with the slow per-keypress EMA. Slower presses leave scores
// untouched: disengagement is never penalized, only fast engagement is
// rewarded.
func (t *Tracker) RecordKeypress(key, soundID, imageID string) {
	t.profile.KeyCounts[key]++

	var offset time.Duration
	if t.active {
		offset = t.now().Sub(t.sessionStart)
	}
	evt := sessionEvent{offset: offset, key: key, sound: soundID, image: imageID}
	t.events = append(t.events, evt)

	if len(t.events) < 2 {
		return
	}
	gap := evt.offset - t.events[len(t.events)-2].offset
	if gap >= RapidWindow {
		return
	}

	boost := 1.0 - gap.Seconds()
	if boost < MinBoost {
		boost = MinBoost
	}
	if soundID != "" {
		t.bumpScore(t.profile.SoundEngagement, soundID, boost, KeypressDecay, KeypressWeight)
	}
	if imageID != "" {
		t.bumpScore(t.profile.ImageEngagement, imageID, boost, KeypressDecay, KeypressWeight)
	}
}

// RecordExtensionEngagement folds a session-level observation in [0, 1]
// into the extension's score.
func (t *Tracker) RecordExtensionEngagement(extension string, score float64) {
	t.bumpScore(t.profile.ExtensionEngagement, extension, clampScore(score), SessionDecay, SessionWeight)
}

// RecordThemeEngagement folds a session-level observation in [0, 1] into
// the theme's score.
func (t *Tracker) RecordThemeEngagement(theme string, score float64) {
	t.bumpScore(t.profile.ThemeEngagement, theme, clampScore(score), SessionDecay, SessionWeight)
}

func (t *Tracker) bumpScore(scores map[string]float64, id string, observed, decay, weight float64) {
	current, ok := scores[id]
	if !ok {
		current = DefaultScore
	}
	scores[id] = clampScore(current*decay + observed*weight)
}

// SuggestExtension picks the best extension from the available set.
// No history means the first entry, giving first-run users a deterministic
// default. Otherwise entries rank by score (missing entries score 0.5)
// with ties broken by input order.
func (t *Tracker) SuggestExtension(available []string) (string, bool) {
	return suggest(available, t.profile.ExtensionEngagement)
}

// SuggestTheme picks the best theme from the available set, with the same
// rules as SuggestExtension.
func (t *Tracker) SuggestTheme(available []string) (string, bool) {
	return suggest(available, t.profile.ThemeEngagement)
}

func suggest(available []string, scores map[string]float64) (string, bool) {
	if len(available) == 0 {
		return "", false
	}
	if len(scores) == 0 {
		return available[0], true
	}

	ranked := make([]string, len(available))
	copy(ranked, available)
	scoreOf := func(id string) float64 {
		if s, ok := scores[id]; ok {
			return s
		}
		return DefaultScore
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreOf(ranked[i]) > scoreOf(ranked[j])
	})
	return ranked[0], true
}

// EndSession closes the active session: totals and favorites update, a
// summary joins the history ring, and the profile persists. Calling it
// with no active session is a no-op.
//
// A persistence failure is returned to the caller; the in-memory profile
// keeps every update either way.
func (t *Tracker) EndSession() error {
	if !t.active {
		return nil
	}

	now := t.now()
	duration := now.Sub(t.sessionStart)

	t.profile.TotalSessions++
	t.profile.TotalPlaytimeSeconds += duration.Seconds()
	t.profile.LastSession = &now

	t.profile.SessionHistory = append(t.profile.SessionHistory, SessionSummary{
		Date:            now,
		DurationSeconds: int(duration.Seconds()),
		EventCount:      len(t.events),
		Extension:       t.currentExtension,
		Theme:           t.currentTheme,
	})
	if n := len(t.profile.SessionHistory); n > HistoryLimit {
		t.profile.SessionHistory = t.profile.SessionHistory[n-HistoryLimit:]
	}

	t.profile.updateFavorites()

	t.active = false
	t.events = nil

	if t.saver == nil {
		return nil
	}
	return t.saver.SaveProfile(t.profile)
}
