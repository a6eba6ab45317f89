// Package policy holds the pure decision functions governing break
// lifecycle transitions. Nothing here performs I/O; every check is
// deterministic given a user record and the current time, so the authority
// re-evaluates them on every command regardless of what a client believed
// when it pressed the button.
package policy

import (
	"time"

	"github.com/teamdash/break-service/internal/models"
)

// DefaultMaxBreaksPerDay bounds how many breaks a user may start per
// calendar day.
const DefaultMaxBreaksPerDay = 3

// Rules carries the configurable knobs the decision functions depend on.
type Rules struct {
	MaxBreaksPerDay int
}

// DefaultRules returns the production defaults.
func DefaultRules() Rules {
	return Rules{MaxBreaksPerDay: DefaultMaxBreaksPerDay}
}

// CanRequest reports whether the user may move to Requested: they must be
// Available and under today's break cap.
func (r Rules) CanRequest(u models.User, now time.Time) bool {
	return u.BreakStatus == models.StatusAvailable && BreaksTakenToday(u, now) < r.MaxBreaksPerDay
}

// CanCancel reports whether the user may withdraw a pending request.
func (r Rules) CanCancel(u models.User) bool {
	return u.BreakStatus == models.StatusRequested
}

// CanApprove reports whether an admin may approve the user's request. The
// daily cap is deliberately not rechecked here: a request already counted as
// pending proceeds even if midnight passed between request and approval, so
// in-flight requests are never starved.
func (r Rules) CanApprove(u models.User) bool {
	return u.BreakStatus == models.StatusRequested
}

// CanDeny reports whether an admin may deny the user's request.
func (r Rules) CanDeny(u models.User) bool {
	return u.BreakStatus == models.StatusRequested
}

// BreaksTakenToday counts history entries whose start time falls on the
// current calendar day in local time.
func BreaksTakenToday(u models.User, now time.Time) int {
	dayStart := startOfDay(now)
	dayEnd := dayStart.Add(24 * time.Hour)

	n := 0
	for _, b := range u.Breaks {
		if !b.StartTime.Before(dayStart) && b.StartTime.Before(dayEnd) {
			n++
		}
	}
	return n
}

// IsOverdue reports whether an incomplete task's due date has passed,
// measured against the start of today.
func IsOverdue(t models.Task, now time.Time) bool {
	return t.DueDate != nil && !t.Completed && t.DueDate.Before(startOfDay(now))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
