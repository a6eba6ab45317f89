package service

import (
	"context"
	"time"

	"github.com/teamdash/break-service/internal/models"
	"github.com/teamdash/break-service/internal/notify"
)

// endingSoonWindow is how close to the end a break must be before the
// one-shot "ending soon" notice fires.
const endingSoonWindow = time.Minute

// RunSweeper drives the expiry sweep on the configured cadence until ctx is
// cancelled. This is the only time-based path that ends a break; viewer
// countdowns are rendering only and wait for the swept snapshot.
func (a *Authority) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(a.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Sweep()
		}
	}
}

// Sweep performs one pass: every user whose break end time has passed is
// forced back to Available and notified exactly once. Users inside the
// ending-soon window get a single best-effort warning per break.
func (a *Authority) Sweep() {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	var events []notify.Event
	changed := false

	for _, u := range a.roster.List() {
		if !u.OnBreak() || u.BreakEndTime == nil {
			continue
		}
		remaining := u.BreakEndTime.Sub(now)

		if remaining <= 0 {
			a.roster.Update(u.ID, func(u *models.User) {
				u.BreakStatus = models.StatusAvailable
				u.BreakEndTime = nil
			})
			delete(a.endingSoonNotified, u.ID)
			events = append(events, notify.Point(u.ID, "",
				"Break time is over!", "Time to get back to work.", now))
			changed = true
			continue
		}

		if remaining <= endingSoonWindow && !a.endingSoonNotified[u.ID] {
			a.endingSoonNotified[u.ID] = true
			events = append(events, notify.Point(u.ID, "",
				"Break Ending Soon", "Your break will end in about one minute.", now))
		}
	}

	if changed {
		a.publishLocked()
	}
	for _, ev := range events {
		a.deliver(ev)
	}
}
