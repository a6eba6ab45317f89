package websockets

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teamdash/break-service/internal/models"
)

const (
	writeWait = 10 * time.Second

	pongWait = 60 * time.Second

	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 64 * 1024
)

// Client is one connected viewer. The connection is bound at upgrade time
// to the authenticated user's id and role; commands arriving on it are
// checked against that identity before they reach the authority.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	userID string

	role models.UserRole

	// lastSeq is the sequence number of the newest snapshot queued for this
	// client. Guarded by hub.mu.
	lastSeq uint64
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string, role models.UserRole) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		role:   role,
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		var wsMessage Message
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.handleCommand(wsMessage)
	}
}

// handleCommand decodes one viewer command and hands it to the authority.
// Malformed payloads and commands outside the sender's authority are logged
// and dropped; nothing a viewer sends can crash the process.
func (c *Client) handleCommand(msg Message) {
	switch msg.Type {
	case TypeRequestBreak:
		var p UserPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("Error unmarshaling %s payload: %v", msg.Type, err)
			return
		}
		if p.UserID != c.userID {
			log.Printf("client %s tried to request a break for %s", c.userID, p.UserID)
			return
		}
		c.hub.commander.RequestBreak(p.UserID)

	case TypeCancelRequest:
		var p UserPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("Error unmarshaling %s payload: %v", msg.Type, err)
			return
		}
		if p.UserID != c.userID {
			log.Printf("client %s tried to cancel a request for %s", c.userID, p.UserID)
			return
		}
		c.hub.commander.CancelRequest(p.UserID)

	case TypeApproveBreak:
		var p UserPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("Error unmarshaling %s payload: %v", msg.Type, err)
			return
		}
		if !c.isAdmin() {
			return
		}
		c.hub.commander.ApproveBreak(p.UserID, c.userID)

	case TypeDenyBreak:
		var p UserPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("Error unmarshaling %s payload: %v", msg.Type, err)
			return
		}
		if !c.isAdmin() {
			return
		}
		c.hub.commander.DenyBreak(p.UserID, c.userID)

	case TypeChangeBreakDuration:
		var p DurationPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("Error unmarshaling %s payload: %v", msg.Type, err)
			return
		}
		if !c.isAdmin() {
			return
		}
		c.hub.commander.ChangeBreakDuration(p.Duration)

	case TypeResetData:
		if !c.isAdmin() {
			return
		}
		c.hub.commander.Reset()

	case TypeAddTask:
		var p AddTaskPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("Error unmarshaling %s payload: %v", msg.Type, err)
			return
		}
		if p.UserID != c.userID && !c.isAdmin() {
			return
		}
		c.hub.commander.AddTask(p.UserID, p.Text, p.DueDate)

	case TypeToggleTask:
		var p ToggleTaskPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			log.Printf("Error unmarshaling %s payload: %v", msg.Type, err)
			return
		}
		if p.UserID != c.userID && !c.isAdmin() {
			return
		}
		c.hub.commander.ToggleTask(p.UserID, p.TaskID)

	default:
		log.Printf("Unknown message type %q from client %s", msg.Type, c.userID)
	}
}

func (c *Client) isAdmin() bool {
	return c.role == models.RoleAdmin
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs registers the connection with the hub and starts its pumps. The
// hub answers with an INIT snapshot before any UPDATE can reach the client.
func ServeWs(hub *Hub, conn *websocket.Conn, userID string, role models.UserRole) {
	client := NewClient(hub, conn, userID, role)

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
