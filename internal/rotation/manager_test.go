package rotation

import (
	"testing"

	"github.com/user-mgrei/bambam-extended/internal/rng"
)

func TestManagerSelect(t *testing.T) {
	m := NewManager(fixedSource{})
	m.SetCandidates([]string{"farm", "ocean", "space"})

	if !m.Select("ocean") {
		t.Fatal("Select(ocean) failed for a known candidate")
	}
	if got := m.Current(); got != "ocean" {
		t.Errorf("Current() = %q, want ocean", got)
	}
	if m.Select("volcano") {
		t.Error("Select accepted an unknown candidate")
	}
	if got := m.Current(); got != "ocean" {
		t.Errorf("failed Select changed current to %q", got)
	}
}

func TestManagerSetCandidatesDedupes(t *testing.T) {
	m := NewManager(fixedSource{})
	m.SetCandidates([]string{"a", "b", "a", "", "c", "b"})

	got := m.Candidates()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Candidates() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Candidates() = %v, want %v", got, want)
		}
	}
}

func TestManagerSetCandidatesClearsStaleSelection(t *testing.T) {
	m := NewManager(fixedSource{})
	m.SetCandidates([]string{"a", "b"})
	m.Select("b")

	m.SetCandidates([]string{"a", "c"})
	if got := m.Current(); got != "" {
		t.Errorf("stale selection survived refresh: %q", got)
	}

	m.SetCandidates([]string{"a", "c"})
	m.Select("c")
	m.SetCandidates([]string{"c", "d"})
	if got := m.Current(); got != "c" {
		t.Errorf("surviving selection dropped: %q", got)
	}
}

func TestManagerPickRandomEmptySet(t *testing.T) {
	m := NewManager(fixedSource{})
	if got := m.PickRandom(false); got != "" {
		t.Errorf("PickRandom on empty set = %q, want empty", got)
	}
	if got := m.PickRandom(true); got != "" {
		t.Errorf("PickRandom(exclude) on empty set = %q, want empty", got)
	}
}

func TestManagerPickRandomExcludesCurrent(t *testing.T) {
	// Over a two-element set the pick must always be the other element.
	m := NewManager(rng.New(99))
	m.SetCandidates([]string{"day", "night"})
	m.Select("day")

	for i := 0; i < 100; i++ {
		if got := m.PickRandom(true); got != "night" {
			t.Fatalf("pick %d: got %q, want night", i, got)
		}
	}
}

func TestManagerPickRandomSingleCandidateFallsBack(t *testing.T) {
	m := NewManager(fixedSource{})
	m.SetCandidates([]string{"only"})
	m.Select("only")

	if got := m.PickRandom(true); got != "only" {
		t.Errorf("single-candidate exclusion = %q, want only", got)
	}
}

func TestManagerOnKeypressRotates(t *testing.T) {
	src := &seqSource{ints: []int{2, 2, 2}, picks: []int{0, 0}}
	m := NewManager(src)
	m.SetCandidates([]string{"a", "b", "c"})
	m.Select("a")
	if err := m.Scheduler().Configure(1, 5); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	if got := m.OnKeypress(); got != "" {
		t.Fatalf("rotated before threshold: %q", got)
	}
	got := m.OnKeypress()
	if got == "" {
		t.Fatal("no rotation at threshold")
	}
	if got == "a" {
		t.Error("rotation reselected the current candidate")
	}
	if m.Current() != got {
		t.Errorf("Current() = %q, want %q", m.Current(), got)
	}
}

func TestManagerOnKeypressWithoutScheduleIsNoop(t *testing.T) {
	m := NewManager(rng.New(1))
	m.SetCandidates([]string{"a", "b"})
	m.Select("a")

	for i := 0; i < 100; i++ {
		if got := m.OnKeypress(); got != "" {
			t.Fatalf("unscheduled manager rotated to %q", got)
		}
	}
	if m.Current() != "a" {
		t.Errorf("selection drifted to %q", m.Current())
	}
}

func TestManagerOnKeypressEmptySetLeavesSelection(t *testing.T) {
	m := NewManager(fixedSource{})
	if err := m.Scheduler().Configure(1, 1); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	// Trigger fires but there is nothing to rotate to.
	if got := m.OnKeypress(); got != "" {
		t.Errorf("rotation over empty set returned %q", got)
	}
}
