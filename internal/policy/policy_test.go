package policy

import (
	"testing"
	"time"

	"github.com/teamdash/break-service/internal/models"
)

var noon = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.Local)

func breaksAt(times ...time.Time) []models.BreakRecord {
	records := make([]models.BreakRecord, 0, len(times))
	for _, t := range times {
		records = append(records, models.BreakRecord{StartTime: t, DurationMinutes: 15})
	}
	return records
}

func TestCanRequest(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name string
		user models.User
		want bool
	}{
		{
			name: "available with no breaks today",
			user: models.User{BreakStatus: models.StatusAvailable},
			want: true,
		},
		{
			name: "available under the cap",
			user: models.User{
				BreakStatus: models.StatusAvailable,
				Breaks:      breaksAt(noon.Add(-3*time.Hour), noon.Add(-1*time.Hour)),
			},
			want: true,
		},
		{
			name: "available at the cap",
			user: models.User{
				BreakStatus: models.StatusAvailable,
				Breaks:      breaksAt(noon.Add(-4*time.Hour), noon.Add(-2*time.Hour), noon.Add(-1*time.Hour)),
			},
			want: false,
		},
		{
			name: "yesterday's breaks do not count",
			user: models.User{
				BreakStatus: models.StatusAvailable,
				Breaks:      breaksAt(noon.Add(-24*time.Hour), noon.Add(-25*time.Hour), noon.Add(-26*time.Hour)),
			},
			want: true,
		},
		{
			name: "already requested",
			user: models.User{BreakStatus: models.StatusRequested},
			want: false,
		},
		{
			name: "already on break",
			user: models.User{BreakStatus: models.StatusOnBreak},
			want: false,
		},
		{
			name: "offline",
			user: models.User{BreakStatus: models.StatusOffline},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.CanRequest(tt.user, noon); got != tt.want {
				t.Errorf("CanRequest() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRequestedOnlyTransitions(t *testing.T) {
	rules := DefaultRules()

	statuses := []models.BreakStatus{
		models.StatusOffline,
		models.StatusAvailable,
		models.StatusRequested,
		models.StatusOnBreak,
	}

	for _, status := range statuses {
		u := models.User{BreakStatus: status}
		want := status == models.StatusRequested

		if got := rules.CanCancel(u); got != want {
			t.Errorf("CanCancel(%s) = %v, want %v", status, got, want)
		}
		if got := rules.CanApprove(u); got != want {
			t.Errorf("CanApprove(%s) = %v, want %v", status, got, want)
		}
		if got := rules.CanDeny(u); got != want {
			t.Errorf("CanDeny(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestCanApproveIgnoresDailyCap(t *testing.T) {
	// A request that crossed midnight between request and approval still
	// proceeds; in-flight requests are never starved.
	rules := DefaultRules()
	u := models.User{
		BreakStatus: models.StatusRequested,
		Breaks:      breaksAt(noon.Add(-1*time.Hour), noon.Add(-2*time.Hour), noon.Add(-3*time.Hour)),
	}

	if !rules.CanApprove(u) {
		t.Error("CanApprove() = false for a pending request at the daily cap, want true")
	}
}

func TestBreaksTakenToday(t *testing.T) {
	midnight := time.Date(noon.Year(), noon.Month(), noon.Day(), 0, 0, 0, 0, time.Local)

	tests := []struct {
		name   string
		breaks []models.BreakRecord
		want   int
	}{
		{"no history", nil, 0},
		{"one today", breaksAt(noon.Add(-time.Hour)), 1},
		{"exactly at midnight counts", breaksAt(midnight), 1},
		{"just before midnight does not", breaksAt(midnight.Add(-time.Second)), 0},
		{"tomorrow does not", breaksAt(midnight.Add(24 * time.Hour)), 0},
		{"mixed days", breaksAt(noon.Add(-time.Hour), midnight.Add(-2*time.Hour), noon.Add(time.Hour)), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := models.User{Breaks: tt.breaks}
			if got := BreaksTakenToday(u, noon); got != tt.want {
				t.Errorf("BreaksTakenToday() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsOverdue(t *testing.T) {
	yesterday := noon.Add(-24 * time.Hour)
	tomorrow := noon.Add(24 * time.Hour)

	tests := []struct {
		name string
		task models.Task
		want bool
	}{
		{"no due date", models.Task{}, false},
		{"due yesterday, incomplete", models.Task{DueDate: &yesterday}, true},
		{"due yesterday, completed", models.Task{DueDate: &yesterday, Completed: true}, false},
		{"due tomorrow", models.Task{DueDate: &tomorrow}, false},
		{"due earlier today", models.Task{DueDate: func() *time.Time { t := noon.Add(-time.Hour); return &t }()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.task, noon); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
