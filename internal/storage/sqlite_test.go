package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	records := []SessionRecord{
		{SessionID: uuid.NewString(), Profile: "ana", Extension: "animals", Theme: "farm", EventCount: 120, DurationSecs: 300, StartedAt: base},
		{SessionID: uuid.NewString(), Profile: "ana", Extension: "space", Theme: "space", EventCount: 80, DurationSecs: 180, StartedAt: base.Add(time.Hour)},
		{SessionID: uuid.NewString(), Profile: "ben", Extension: "music", Theme: "music", EventCount: 40, DurationSecs: 90, StartedAt: base},
	}
	for _, rec := range records {
		if _, err := store.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	got, err := store.RecentSessions("ana", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions for ana, got %d", len(got))
	}
	// Newest first.
	if got[0].Extension != "space" {
		t.Errorf("expected newest session first, got %q", got[0].Extension)
	}
	if got[1].Theme != "farm" {
		t.Errorf("second session theme = %q, want farm", got[1].Theme)
	}

	all, err := store.RecentSessions("", 10)
	if err != nil {
		t.Fatalf("RecentSessions(all) failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 sessions total, got %d", len(all))
	}
}

func TestStoreDuplicateSessionIDRejected(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	rec := SessionRecord{SessionID: uuid.NewString(), Profile: "ana", StartedAt: time.Now()}
	if _, err := store.SaveSession(rec); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if _, err := store.SaveSession(rec); err == nil {
		t.Error("duplicate session_id accepted")
	}
}

func TestStoreProfileTotals(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for i, secs := range []int{60, 120, 30} {
		rec := SessionRecord{
			SessionID:    uuid.NewString(),
			Profile:      "ana",
			DurationSecs: secs,
			StartedAt:    time.Now().Add(time.Duration(i) * time.Hour),
		}
		if _, err := store.SaveSession(rec); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	sessions, playtime, err := store.ProfileTotals("ana")
	if err != nil {
		t.Fatalf("ProfileTotals() failed: %v", err)
	}
	if sessions != 3 {
		t.Errorf("sessions = %d, want 3", sessions)
	}
	if playtime != 210 {
		t.Errorf("playtime = %d, want 210", playtime)
	}

	sessions, playtime, err = store.ProfileTotals("nobody")
	if err != nil {
		t.Fatalf("ProfileTotals(nobody) failed: %v", err)
	}
	if sessions != 0 || playtime != 0 {
		t.Errorf("empty profile totals = %d, %d", sessions, playtime)
	}
}

func TestStoreClearSessions(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	rec := SessionRecord{SessionID: uuid.NewString(), Profile: "ana", StartedAt: time.Now()}
	if _, err := store.SaveSession(rec); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	if err := store.ClearSessions("ana"); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}
	got, err := store.RecentSessions("ana", 10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("sessions remain after clear: %d", len(got))
	}
}
