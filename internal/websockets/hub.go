package websockets

import (
	"log"
	"sync"
	"time"

	"github.com/teamdash/break-service/internal/models"
	"github.com/teamdash/break-service/internal/notify"
)

// Commander is the slice of the lifecycle authority the hub drives with
// decoded viewer commands.
type Commander interface {
	Snapshot() models.Snapshot
	RequestBreak(userID string)
	CancelRequest(userID string)
	ApproveBreak(userID, approverID string)
	DenyBreak(userID, denierID string)
	ChangeBreakDuration(minutes int)
	Reset()
	AddTask(userID, text string, dueDate *time.Time)
	ToggleTask(userID, taskID string)
	MarkOffline(userID string)
}

// Hub owns the set of connected viewers. Every mutation's snapshot fans out
// to all of them; notification events route to the connections their target
// addresses. A viewer that falls behind is dropped and resyncs with a fresh
// INIT on reconnect.
type Hub struct {
	clients map[*Client]bool

	register chan *Client

	unregister chan *Client

	commander Commander

	mu sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Bind attaches the authority the hub dispatches commands to. Must be
// called before Run.
func (h *Hub) Bind(c Commander) {
	h.commander = c
}

// BroadcastSnapshot pushes an UPDATE carrying the full state to every
// connected viewer.
func (h *Hub) BroadcastSnapshot(snap models.Snapshot) {
	message, err := marshalMessage(TypeUpdate, snap)
	if err != nil {
		log.Printf("Error marshaling snapshot: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.sendSnapshotLocked(client, message, snap.Seq)
	}
}

// Deliver routes a notification event: point events to connections
// authenticated as the target user, role broadcasts to every connection
// with the target role except those of the source user.
func (h *Hub) Deliver(ev notify.Event) {
	message, err := marshalMessage(TypeNotify, ev)
	if err != nil {
		log.Printf("Error marshaling notification: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if ev.TargetUserID != "" && client.userID != ev.TargetUserID {
			continue
		}
		if ev.TargetRole != "" {
			if client.role != ev.TargetRole {
				continue
			}
			if ev.SourceUserID != "" && client.userID == ev.SourceUserID {
				continue
			}
		}
		h.sendLocked(client, message)
	}
}

// sendSnapshotLocked queues a snapshot frame unless a newer one already
// reached the client. A connect-time INIT races the broadcast of any
// mutation landing at the same moment; comparing sequence numbers keeps the
// stale frame from rolling the viewer back. Callers must hold h.mu.
func (h *Hub) sendSnapshotLocked(client *Client, message []byte, seq uint64) {
	if seq < client.lastSeq {
		return
	}
	client.lastSeq = seq
	h.sendLocked(client, message)
}

// sendLocked queues a message, dropping the client if its buffer is full.
// Callers must hold h.mu.
func (h *Hub) sendLocked(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		close(client.send)
		delete(h.clients, client)
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.sendInit(client)

		case client := <-h.unregister:
			h.mu.Lock()
			open := false
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				open = true
			}
			lastForUser := open && !h.hasUserLocked(client.userID)
			h.mu.Unlock()

			// Outside the lock: MarkOffline broadcasts the resulting
			// snapshot back through this hub.
			if lastForUser {
				h.commander.MarkOffline(client.userID)
			}
		}
	}
}

// sendInit pushes the full current state to a freshly connected viewer. The
// snapshot is read outside h.mu, so an UPDATE from a concurrent mutation can
// get queued first; sendSnapshotLocked drops this frame in that case rather
// than roll the viewer back.
func (h *Hub) sendInit(client *Client) {
	snap := h.commander.Snapshot()
	message, err := marshalMessage(TypeInit, snap)
	if err != nil {
		log.Printf("Error marshaling init snapshot: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client] {
		h.sendSnapshotLocked(client, message, snap.Seq)
	}
}

func (h *Hub) hasUserLocked(userID string) bool {
	for client := range h.clients {
		if client.userID == userID {
			return true
		}
	}
	return false
}
