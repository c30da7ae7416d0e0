package extension

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user-mgrei/bambam-extended/internal/rng"
)

func makeExtension(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), []byte("events: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverFindsManifestDirs(t *testing.T) {
	root := t.TempDir()
	makeExtension(t, root, "animals")
	makeExtension(t, root, "space")

	// A directory without a manifest is not an extension.
	if err := os.MkdirAll(filepath.Join(root, "not-an-extension"), 0o755); err != nil {
		t.Fatal(err)
	}
	// Neither is a stray file.
	if err := os.WriteFile(filepath.Join(root, "README"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewSet(rng.New(1), root)
	if err := s.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	got := s.Available()
	want := []string{"animals", "space"}
	if len(got) != len(want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Available() = %v, want %v", got, want)
		}
	}
}

func TestDiscoverMergesMultipleRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	makeExtension(t, rootA, "animals")
	makeExtension(t, rootB, "music")

	s := NewSet(rng.New(1), rootA, rootB, filepath.Join(rootA, "missing"))
	if err := s.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	if got := len(s.Available()); got != 2 {
		t.Errorf("Available() has %d entries, want 2", got)
	}
}

func TestActivateFiltersUnknown(t *testing.T) {
	root := t.TempDir()
	makeExtension(t, root, "animals")
	makeExtension(t, root, "music")

	s := NewSet(rng.New(1), root)
	if err := s.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	s.Activate([]string{"animals", "ghosts"})
	got := s.Active()
	if len(got) != 1 || got[0] != "animals" {
		t.Errorf("Active() = %v, want [animals]", got)
	}

	s.ActivateAll()
	if got := len(s.Active()); got != 2 {
		t.Errorf("ActivateAll left %d active, want 2", got)
	}
}

func TestRotationSwapsExtension(t *testing.T) {
	root := t.TempDir()
	makeExtension(t, root, "animals")
	makeExtension(t, root, "music")

	s := NewSet(rng.New(3), root)
	if err := s.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}
	s.ActivateAll()
	s.Select("animals")
	if err := s.Rotation().Scheduler().Configure(2, 2); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	if got := s.OnKeypress(); got != "" {
		t.Fatalf("swap before threshold: %q", got)
	}
	// Two candidates: the swap must land on the other one.
	if got := s.OnKeypress(); got != "music" {
		t.Fatalf("swap = %q, want music", got)
	}
	if s.Current() != "music" {
		t.Errorf("Current() = %q, want music", s.Current())
	}
}
