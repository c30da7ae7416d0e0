package rotation

import "github.com/user-mgrei/bambam-extended/internal/rng"

// Manager owns a candidate identifier set, the current selection, and one
// Scheduler. Theme, extension, and background rotation are all instances of
// this type; callers specialize it only by the candidates they feed it.
//
// Manager is not safe for concurrent use. It is driven synchronously from
// the game loop.
type Manager struct {
	src        rng.Source
	scheduler  *Scheduler
	candidates []string
	current    string
}

// NewManager creates a manager with no candidates and no selection.
func NewManager(src rng.Source) *Manager {
	return &Manager{
		src:       src,
		scheduler: NewScheduler(src),
	}
}

// Scheduler exposes the interval trigger for configuration.
func (m *Manager) Scheduler() *Scheduler {
	return m.scheduler
}

// SetCandidates replaces the candidate set, dropping duplicates while
// preserving first-seen order. The current selection is kept if it is still
// a member, otherwise cleared.
func (m *Manager) SetCandidates(ids []string) {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	m.candidates = out
	if m.current != "" && !seen[m.current] {
		m.current = ""
	}
}

// Candidates returns a copy of the candidate set.
func (m *Manager) Candidates() []string {
	out := make([]string, len(m.candidates))
	copy(out, m.candidates)
	return out
}

// Select sets the current selection if id is a member of the candidate set
// and reports whether it succeeded.
func (m *Manager) Select(id string) bool {
	for _, c := range m.candidates {
		if c == id {
			m.current = id
			return true
		}
	}
	return false
}

// Current returns the current selection, or "" if none is set.
func (m *Manager) Current() string {
	return m.current
}

// PickRandom returns a uniformly chosen candidate, or "" if the set is
// empty. With excludeCurrent, the current selection is left out as long as
// at least one alternative exists; a single-candidate set falls back to the
// full set so the worst case is a no-op reselect, never a failure.
func (m *Manager) PickRandom(excludeCurrent bool) string {
	if len(m.candidates) == 0 {
		return ""
	}
	eligible := m.candidates
	if excludeCurrent && m.current != "" {
		others := make([]string, 0, len(m.candidates))
		for _, c := range m.candidates {
			if c != m.current {
				others = append(others, c)
			}
		}
		if len(others) > 0 {
			eligible = others
		}
	}
	return eligible[m.src.Pick(len(eligible))]
}

// OnKeypress is the single per-keypress entry point. It consults the
// scheduler and, on a trigger, rotates to a random different candidate and
// returns the new selection. It returns "" when no rotation occurred.
func (m *Manager) OnKeypress() string {
	if !m.scheduler.OnKeypress() {
		return ""
	}
	next := m.PickRandom(true)
	if next == "" {
		return ""
	}
	m.current = next
	return next
}
