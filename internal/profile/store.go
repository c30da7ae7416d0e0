package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store owns the lifecycle of named profiles: one JSON file per profile
// under a single directory. Scoring is delegated to the Tracker each
// profile gets on load.
type Store struct {
	dir      string
	trackers map[string]*Tracker
	active   *Tracker
}

// DefaultDir returns the standard profile directory, honoring
// XDG_CONFIG_HOME.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "bambam", "profiles"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("profile: cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "bambam", "profiles"), nil
}

// NewStore opens a profile store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("profile: cannot create directory %s: %w", dir, err)
	}
	return &Store{
		dir:      dir,
		trackers: make(map[string]*Tracker),
	}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Get returns the tracker for the named profile, loading it from disk or
// creating a fresh profile on first reference. A file that cannot be
// parsed yields a fresh profile rather than an error; it will be rewritten
// whole on the next save.
func (s *Store) Get(name string) *Tracker {
	key := FileKey(name)
	if t, ok := s.trackers[key]; ok {
		return t
	}

	var p *Profile
	data, err := os.ReadFile(s.path(key))
	if err == nil {
		p = decodeProfile(data, name)
	} else {
		p = NewProfile(name)
	}

	t := NewTracker(p, s)
	s.trackers[key] = t
	return t
}

// SetActive marks the named profile as the active one, loading it if
// necessary.
func (s *Store) SetActive(name string) *Tracker {
	s.active = s.Get(name)
	return s.active
}

// Active returns the active profile's tracker, or nil if none was set.
func (s *Store) Active() *Tracker {
	return s.active
}

// List returns the display names of all persisted profiles. Files that do
// not parse contribute their file stem so they remain visible and
// deletable.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("profile: cannot read directory %s: %w", s.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ".json")
		name := stem
		if data, err := os.ReadFile(filepath.Join(s.dir, entry.Name())); err == nil {
			var head struct {
				Name string `json:"name"`
			}
			if json.Unmarshal(data, &head) == nil && head.Name != "" {
				name = head.Name
			}
		}
		names = append(names, name)
	}
	return names, nil
}

// Delete removes a profile's file and forgets its tracker. It reports
// whether a file existed.
func (s *Store) Delete(name string) (bool, error) {
	key := FileKey(name)
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		delete(s.trackers, key)
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("profile: cannot delete %s: %w", name, err)
	}

	if t, ok := s.trackers[key]; ok && t == s.active {
		s.active = nil
	}
	delete(s.trackers, key)
	return true, nil
}

// SaveProfile writes a profile to its JSON file. It implements Saver, so
// trackers persist through the store at session end.
func (s *Store) SaveProfile(p *Profile) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("profile: cannot encode %s: %w", p.Name, err)
	}
	path := s.path(FileKey(p.Name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("profile: cannot write %s: %w", path, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
