package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleEmployee UserRole = "employee"
)

// BreakStatus is the sole authoritative indicator of where a user sits in
// the break lifecycle. Exactly one status holds at a time.
type BreakStatus string

const (
	StatusOffline   BreakStatus = "Offline"
	StatusAvailable BreakStatus = "Available"
	StatusRequested BreakStatus = "Requested"
	StatusOnBreak   BreakStatus = "On Break"
)

// BreakRecord is one entry in a user's break history. The history is
// append-only; entries are never mutated or removed.
type BreakRecord struct {
	StartTime       time.Time `json:"startTime"`
	DurationMinutes int       `json:"durationMinutes"`
}

// Task is a secondary per-user item with no lifecycle coupling to breaks.
type Task struct {
	ID             string     `json:"id"`
	Text           string     `json:"text"`
	Completed      bool       `json:"completed"`
	DueDate        *time.Time `json:"dueDate"`
	CompletionDate *time.Time `json:"completionDate"`
}

type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Username string   `json:"username"`
	Password string   `json:"-"` // Plaintext by product decision; never expose in JSON
	Role     UserRole `json:"role"`

	// BreakEndTime is non-nil iff BreakStatus == StatusOnBreak.
	BreakStatus  BreakStatus   `json:"breakStatus"`
	BreakEndTime *time.Time    `json:"breakEndTime"`
	Breaks       []BreakRecord `json:"breaks"`
	Tasks        []Task        `json:"tasks"`
}

// Clone returns a deep copy so holders of a snapshot can never alias
// authority-owned state.
func (u User) Clone() User {
	c := u
	if u.BreakEndTime != nil {
		t := *u.BreakEndTime
		c.BreakEndTime = &t
	}
	c.Breaks = make([]BreakRecord, len(u.Breaks))
	copy(c.Breaks, u.Breaks)
	c.Tasks = make([]Task, len(u.Tasks))
	for i, task := range u.Tasks {
		c.Tasks[i] = task.Clone()
	}
	return c
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.CompletionDate != nil {
		d := *t.CompletionDate
		c.CompletionDate = &d
	}
	return c
}

// OnBreak reports whether the user currently holds an approved break.
func (u User) OnBreak() bool {
	return u.BreakStatus == StatusOnBreak
}

// Snapshot is the full state payload viewers receive on connect and after
// every mutation. Receivers always replace their local copy wholesale.
type Snapshot struct {
	Users         []User `json:"users"`
	BreakDuration int    `json:"breakDuration"`

	// Seq orders snapshots from the same authority so delivery code can
	// discard a frame that raced past a newer one.
	Seq uint64 `json:"seq"`
}
