package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/teamdash/break-service/internal/models"
)

func openTestStore(t *testing.T) *SnapshotStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadWithoutSave(t *testing.T) {
	s := openTestStore(t)

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if snap != nil {
		t.Errorf("Load() on an empty store = %+v, want nil", snap)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	start := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(15 * time.Minute)
	want := models.Snapshot{
		BreakDuration: 20,
		Users: []models.User{
			{
				ID: "5", Name: "Abdo Sayed", Username: "abdosayed", Role: models.RoleEmployee,
				BreakStatus: models.StatusOnBreak, BreakEndTime: &end,
				Breaks: []models.BreakRecord{{StartTime: start, DurationMinutes: 15}},
				Tasks:  []models.Task{{ID: "t1", Text: "update the shift roster"}},
			},
		},
	}

	if err := s.Save(context.Background(), want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got == nil {
		t.Fatal("Load() returned nil after a save")
	}
	if got.BreakDuration != 20 || len(got.Users) != 1 {
		t.Fatalf("Load() = %+v", got)
	}
	u := got.Users[0]
	if u.ID != "5" || u.BreakStatus != models.StatusOnBreak {
		t.Errorf("loaded user = %+v", u)
	}
	if u.BreakEndTime == nil || !u.BreakEndTime.Equal(end) {
		t.Errorf("loaded break end time %v, want %v", u.BreakEndTime, end)
	}
	if len(u.Breaks) != 1 || !u.Breaks[0].StartTime.Equal(start) {
		t.Errorf("loaded history = %+v", u.Breaks)
	}
	if len(u.Tasks) != 1 || u.Tasks[0].Text != "update the shift roster" {
		t.Errorf("loaded tasks = %+v", u.Tasks)
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	s := openTestStore(t)

	if err := s.Save(context.Background(), models.Snapshot{BreakDuration: 15}); err != nil {
		t.Fatalf("first Save() error: %v", err)
	}
	if err := s.Save(context.Background(), models.Snapshot{BreakDuration: 30}); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	got, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.BreakDuration != 30 {
		t.Errorf("Load() duration = %d, want the latest save (30)", got.BreakDuration)
	}
}
