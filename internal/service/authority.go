package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teamdash/break-service/internal/models"
	"github.com/teamdash/break-service/internal/notify"
	"github.com/teamdash/break-service/internal/policy"
	"github.com/teamdash/break-service/internal/roster"
)

// DefaultBreakDurationMinutes is the global break length applied until an
// admin changes it.
const DefaultBreakDurationMinutes = 15

// Broadcaster pushes a full snapshot to every connected viewer. Viewers
// replace their local state wholesale; no merge logic exists on the other
// side.
type Broadcaster interface {
	BroadcastSnapshot(models.Snapshot)
}

// Notifier delivers a notification event to the viewers it addresses.
// Delivery failures are the notifier's to swallow.
type Notifier interface {
	Deliver(notify.Event)
}

// SnapshotSaver persists the latest snapshot. Saves are best-effort.
type SnapshotSaver interface {
	Save(context.Context, models.Snapshot) error
}

// AuthorityConfig carries the authority's tunables. Now defaults to
// time.Now and exists so tests can drive the clock.
type AuthorityConfig struct {
	DefaultDurationMinutes int
	SweepInterval          time.Duration
	Now                    func() time.Time
}

// Authority is the single writer of the roster and the global break
// duration. Every mutation serializes through its mutex, reads current
// state, applies policy, writes the new state and fans the snapshot out as
// one unit, so no viewer ever observes a partial update.
type Authority struct {
	mu sync.Mutex

	roster   *roster.Store
	rules    policy.Rules
	duration int

	defaultDuration int
	now             func() time.Time

	broadcaster Broadcaster
	notifier    Notifier
	saver       SnapshotSaver

	// endingSoonNotified holds ids of users already warned that their
	// current break is about to end, so the warning fires once per break.
	endingSoonNotified map[string]bool

	// seq counts mutations; every published snapshot carries it.
	seq uint64

	// saveCh hands snapshots to the background saver so the mutation path
	// never waits on disk. Nil when no saver is configured.
	saveCh chan models.Snapshot

	sweepInterval time.Duration
}

// NewAuthority creates the authority over the given roster.
func NewAuthority(store *roster.Store, rules policy.Rules, cfg AuthorityConfig, b Broadcaster, n Notifier, saver SnapshotSaver) *Authority {
	if cfg.DefaultDurationMinutes <= 0 {
		cfg.DefaultDurationMinutes = DefaultBreakDurationMinutes
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Second
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	a := &Authority{
		roster:             store,
		rules:              rules,
		duration:           cfg.DefaultDurationMinutes,
		defaultDuration:    cfg.DefaultDurationMinutes,
		now:                cfg.Now,
		broadcaster:        b,
		notifier:           n,
		saver:              saver,
		endingSoonNotified: make(map[string]bool),
		sweepInterval:      cfg.SweepInterval,
	}
	if saver != nil {
		a.saveCh = make(chan models.Snapshot, 1)
		go a.runSaver()
	}
	return a
}

// Snapshot returns the current full state.
func (a *Authority) Snapshot() models.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snapshotLocked()
}

// RequestBreak moves an available user under today's cap to Requested and
// tells the admins. Anything else is a stale-client race and a silent no-op.
func (a *Authority) RequestBreak(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, ok := a.roster.Get(userID)
	if !ok {
		log.Printf("request break: unknown user %q", userID)
		return
	}
	now := a.now()
	if !a.rules.CanRequest(u, now) {
		return
	}

	a.roster.Update(userID, func(u *models.User) {
		u.BreakStatus = models.StatusRequested
	})
	a.publishLocked()
	a.deliver(notify.RoleBroadcast(models.RoleAdmin, userID,
		"New Break Request",
		fmt.Sprintf("%s has requested a break.", u.Name), now))
}

// CancelRequest withdraws a pending request. Issuing it twice changes state
// only once; the second call finds nothing to cancel.
func (a *Authority) CancelRequest(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, ok := a.roster.Get(userID)
	if !ok {
		log.Printf("cancel request: unknown user %q", userID)
		return
	}
	if !a.rules.CanCancel(u) {
		return
	}

	a.roster.Update(userID, func(u *models.User) {
		u.BreakStatus = models.StatusAvailable
	})
	a.publishLocked()
}

// ApproveBreak starts the user's break: the global duration is read now and
// baked into the history entry, so later duration changes never touch this
// break.
func (a *Authority) ApproveBreak(userID, approverID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, ok := a.roster.Get(userID)
	if !ok {
		log.Printf("approve break: unknown user %q", userID)
		return
	}
	if !a.rules.CanApprove(u) {
		return
	}

	now := a.now()
	end := now.Add(time.Duration(a.duration) * time.Minute)
	minutes := a.duration
	a.roster.Update(userID, func(u *models.User) {
		u.BreakStatus = models.StatusOnBreak
		u.BreakEndTime = &end
		u.Breaks = append(u.Breaks, models.BreakRecord{StartTime: now, DurationMinutes: minutes})
	})
	a.publishLocked()

	body := "Your break request has been approved."
	if approver, ok := a.roster.Get(approverID); ok {
		body = fmt.Sprintf("Your break request has been approved by %s.", approver.Name)
	}
	a.deliver(notify.Point(userID, approverID, "Break Approved!", body, now))
}

// DenyBreak refuses a pending request and tells the requester.
func (a *Authority) DenyBreak(userID, denierID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, ok := a.roster.Get(userID)
	if !ok {
		log.Printf("deny break: unknown user %q", userID)
		return
	}
	if !a.rules.CanDeny(u) {
		return
	}

	now := a.now()
	a.roster.Update(userID, func(u *models.User) {
		u.BreakStatus = models.StatusAvailable
	})
	a.publishLocked()

	body := "Your break request has been denied."
	if denier, ok := a.roster.Get(denierID); ok {
		body = fmt.Sprintf("Your break request has been denied by %s.", denier.Name)
	}
	a.deliver(notify.Point(userID, denierID, "Break Denied", body, now))
}

// ChangeBreakDuration sets the global break length for future approvals.
// In-progress and historical breaks keep the duration they were approved
// with.
func (a *Authority) ChangeBreakDuration(minutes int) {
	if minutes <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.duration = minutes
	a.publishLocked()
}

// Reset replaces the roster with the seed set and restores the default
// duration. Destructive and not undoable.
func (a *Authority) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.roster.Reset()
	a.duration = a.defaultDuration
	a.endingSoonNotified = make(map[string]bool)
	a.publishLocked()
}

// AddTask appends a task to the user's list.
func (a *Authority) AddTask(userID, text string, dueDate *time.Time) {
	if text == "" {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	task := models.Task{ID: uuid.NewString(), Text: text, DueDate: dueDate}
	if !a.roster.Update(userID, func(u *models.User) {
		u.Tasks = append(u.Tasks, task)
	}) {
		log.Printf("add task: unknown user %q", userID)
		return
	}
	a.publishLocked()
}

// ToggleTask flips a task's completion state, stamping or clearing its
// completion time.
func (a *Authority) ToggleTask(userID, taskID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if !a.roster.Update(userID, func(u *models.User) {
		for i := range u.Tasks {
			if u.Tasks[i].ID != taskID {
				continue
			}
			u.Tasks[i].Completed = !u.Tasks[i].Completed
			if u.Tasks[i].Completed {
				t := now
				u.Tasks[i].CompletionDate = &t
			} else {
				u.Tasks[i].CompletionDate = nil
			}
			return
		}
	}) {
		log.Printf("toggle task: unknown user %q", userID)
		return
	}
	a.publishLocked()
}

// MarkAvailable forces the user Available on login, clearing whatever state
// an earlier session left behind.
func (a *Authority) MarkAvailable(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.roster.Update(userID, func(u *models.User) {
		u.BreakStatus = models.StatusAvailable
		u.BreakEndTime = nil
	}) {
		return
	}
	delete(a.endingSoonNotified, userID)
	a.publishLocked()
}

// MarkOffline forces the user Offline on logout or disconnect.
func (a *Authority) MarkOffline(userID string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.roster.Update(userID, func(u *models.User) {
		u.BreakStatus = models.StatusOffline
		u.BreakEndTime = nil
	}) {
		return
	}
	delete(a.endingSoonNotified, userID)
	a.publishLocked()
}

// Restore loads a persisted snapshot taken by an earlier process. Statuses
// are normalized to Offline since no viewer is connected yet; history,
// tasks and the global duration carry over. Credentials never travel in a
// snapshot, so they are rejoined from the seed roster by user id.
func (a *Authority) Restore(snap models.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	seedByID := make(map[string]models.User)
	for _, s := range roster.Seed() {
		seedByID[s.ID] = s
	}

	users := make([]models.User, len(snap.Users))
	for i, u := range snap.Users {
		c := u.Clone()
		c.BreakStatus = models.StatusOffline
		c.BreakEndTime = nil
		if s, ok := seedByID[c.ID]; ok {
			c.Username = s.Username
			c.Password = s.Password
		}
		users[i] = c
	}
	a.roster.Replace(users)
	if snap.BreakDuration > 0 {
		a.duration = snap.BreakDuration
	}
}

func (a *Authority) snapshotLocked() models.Snapshot {
	return models.Snapshot{Users: a.roster.List(), BreakDuration: a.duration, Seq: a.seq}
}

// publishLocked fans the post-mutation snapshot out to all viewers and
// queues it for persistence. Callers must hold a.mu so broadcasts leave in
// mutation order.
func (a *Authority) publishLocked() {
	a.seq++
	snap := a.snapshotLocked()
	if a.broadcaster != nil {
		a.broadcaster.BroadcastSnapshot(snap)
	}
	a.queueSaveLocked(snap)
}

// queueSaveLocked hands the snapshot to the background saver. When saves
// fall behind, older queued snapshots are discarded; only the newest state
// matters and the mutation path never waits on disk.
func (a *Authority) queueSaveLocked(snap models.Snapshot) {
	if a.saveCh == nil {
		return
	}
	for {
		select {
		case a.saveCh <- snap:
			return
		default:
		}
		select {
		case <-a.saveCh:
		default:
		}
	}
}

func (a *Authority) runSaver() {
	for snap := range a.saveCh {
		if err := a.saver.Save(context.Background(), snap); err != nil {
			log.Printf("snapshot save failed: %v", err)
		}
	}
}

func (a *Authority) deliver(ev notify.Event) {
	if a.notifier != nil {
		a.notifier.Deliver(ev)
	}
}
