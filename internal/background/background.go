// Package background discovers background images and rotates between them
// on randomized keypress intervals.
package background

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/user-mgrei/bambam-extended/internal/rng"
	"github.com/user-mgrei/bambam-extended/internal/rotation"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
}

// Gallery tracks the background images found in one directory.
type Gallery struct {
	dir      string
	rotation *rotation.Manager
}

// NewGallery creates a gallery over the given directory. Discover must be
// called before the gallery has any candidates.
func NewGallery(src rng.Source, dir string) *Gallery {
	return &Gallery{
		dir:      dir,
		rotation: rotation.NewManager(src),
	}
}

// Discover rescans the directory for image files. A missing or unset
// directory leaves the gallery empty without error.
func (g *Gallery) Discover() error {
	if g.dir == "" {
		g.rotation.SetCandidates(nil)
		return nil
	}
	entries, err := os.ReadDir(g.dir)
	if os.IsNotExist(err) {
		g.rotation.SetCandidates(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("background: cannot read directory %s: %w", g.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	g.rotation.SetCandidates(names)
	return nil
}

// Names returns the discovered background file names.
func (g *Gallery) Names() []string {
	return g.rotation.Candidates()
}

// Path resolves a background name to its full path.
func (g *Gallery) Path(name string) string {
	return filepath.Join(g.dir, name)
}

// Select makes the named background current.
func (g *Gallery) Select(name string) bool {
	return g.rotation.Select(name)
}

// Current returns the current background file name, or "".
func (g *Gallery) Current() string {
	return g.rotation.Current()
}

// Rotation exposes the rotation manager for trigger configuration.
func (g *Gallery) Rotation() *rotation.Manager {
	return g.rotation
}

// OnKeypress advances the swap trigger; it returns the new background name
// when a swap fired, otherwise "".
func (g *Gallery) OnKeypress() string {
	return g.rotation.OnKeypress()
}
