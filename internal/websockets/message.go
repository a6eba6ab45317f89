package websockets

import (
	"encoding/json"
	"time"
)

type MessageType string

// Viewer -> authority command types and authority -> viewer stream types.
// Commands that fail their precondition are silent no-ops: a stale client
// acting on a window that already closed is a normal race, not an error.
const (
	TypeRequestBreak        MessageType = "REQUEST_BREAK"
	TypeCancelRequest       MessageType = "CANCEL_REQUEST"
	TypeApproveBreak        MessageType = "APPROVE_BREAK"
	TypeDenyBreak           MessageType = "DENY_BREAK"
	TypeChangeBreakDuration MessageType = "CHANGE_BREAK_DURATION"
	TypeResetData           MessageType = "RESET_DATA"
	TypeAddTask             MessageType = "ADD_TASK"
	TypeToggleTask          MessageType = "TOGGLE_TASK"

	TypeInit   MessageType = "INIT"
	TypeUpdate MessageType = "UPDATE"
	TypeNotify MessageType = "NOTIFY"
)

type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type UserPayload struct {
	UserID string `json:"userId"`
}

type DurationPayload struct {
	Duration int `json:"duration"`
}

type AddTaskPayload struct {
	UserID  string     `json:"userId"`
	Text    string     `json:"text"`
	DueDate *time.Time `json:"dueDate,omitempty"`
}

type ToggleTaskPayload struct {
	UserID string `json:"userId"`
	TaskID string `json:"taskId"`
}

func marshalMessage(t MessageType, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: t, Payload: raw})
}
