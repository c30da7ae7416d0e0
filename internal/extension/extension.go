// Package extension discovers content extensions (sound/image packs) and
// manages which of them are active, including random swapping between
// them during play.
package extension

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/user-mgrei/bambam-extended/internal/rng"
	"github.com/user-mgrei/bambam-extended/internal/rotation"
)

// manifestName marks a directory as an extension.
const manifestName = "event_map.yaml"

// Set tracks the discovered extensions and the active subset eligible for
// rotation.
type Set struct {
	roots     []string
	available []string
	rotation  *rotation.Manager
}

// NewSet creates an extension set scanning the given root directories.
func NewSet(src rng.Source, roots ...string) *Set {
	return &Set{
		roots:    roots,
		rotation: rotation.NewManager(src),
	}
}

// Discover rescans the roots for directories containing an event map
// manifest. Missing roots are skipped. The active set is not changed;
// callers decide which discovered extensions to activate.
func (s *Set) Discover() error {
	var found []string
	for _, root := range s.roots {
		entries, err := os.ReadDir(root)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("extension: cannot read directory %s: %w", root, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			manifest := filepath.Join(root, entry.Name(), manifestName)
			if _, err := os.Stat(manifest); err == nil {
				found = append(found, entry.Name())
			}
		}
	}
	sort.Strings(found)
	s.available = found
	return nil
}

// Available returns the discovered extension ids.
func (s *Set) Available() []string {
	out := make([]string, len(s.available))
	copy(out, s.available)
	return out
}

// ActivateAll makes every discovered extension eligible for rotation.
func (s *Set) ActivateAll() {
	s.rotation.SetCandidates(s.available)
}

// Activate restricts the rotation pool to the given ids; unknown ids are
// dropped.
func (s *Set) Activate(ids []string) {
	known := make(map[string]bool, len(s.available))
	for _, id := range s.available {
		known[id] = true
	}
	var active []string
	for _, id := range ids {
		if known[id] {
			active = append(active, id)
		}
	}
	s.rotation.SetCandidates(active)
}

// Active returns the extensions currently eligible for rotation.
func (s *Set) Active() []string {
	return s.rotation.Candidates()
}

// Select makes the given extension current, if it is active.
func (s *Set) Select(id string) bool {
	return s.rotation.Select(id)
}

// Current returns the active extension id, or "" when none is selected.
func (s *Set) Current() string {
	return s.rotation.Current()
}

// Rotation exposes the rotation manager for trigger configuration.
func (s *Set) Rotation() *rotation.Manager {
	return s.rotation
}

// OnKeypress advances the swap trigger; it returns the new extension id
// when a swap fired, otherwise "".
func (s *Set) OnKeypress() string {
	return s.rotation.OnKeypress()
}
