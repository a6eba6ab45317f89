// Package notify defines the notification events the authority emits.
// Delivery is a best-effort UX enhancement layered on top of the snapshot
// stream; the state change an event describes has already happened by the
// time the event exists.
package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/teamdash/break-service/internal/models"
)

// Event is a single user-facing alert. Exactly one of TargetUserID or
// TargetRole is set: point events go to the viewer authenticated as that
// user, role broadcasts go to every viewer holding that role except
// connections of SourceUserID.
type Event struct {
	ID           string          `json:"id"`
	TargetUserID string          `json:"targetUserId,omitempty"`
	TargetRole   models.UserRole `json:"targetRole,omitempty"`
	SourceUserID string          `json:"sourceUserId,omitempty"`
	Title        string          `json:"title"`
	Body         string          `json:"body"`
	Timestamp    time.Time       `json:"timestamp"`
}

// Point builds an event addressed to a single user.
func Point(targetUserID, sourceUserID, title, body string, now time.Time) Event {
	return Event{
		ID:           uuid.NewString(),
		TargetUserID: targetUserID,
		SourceUserID: sourceUserID,
		Title:        title,
		Body:         body,
		Timestamp:    now,
	}
}

// RoleBroadcast builds an event addressed to every viewer holding a role.
// sourceUserID, when non-empty, excludes the acting user's own connections.
func RoleBroadcast(role models.UserRole, sourceUserID, title, body string, now time.Time) Event {
	return Event{
		ID:           uuid.NewString(),
		TargetRole:   role,
		SourceUserID: sourceUserID,
		Title:        title,
		Body:         body,
		Timestamp:    now,
	}
}
