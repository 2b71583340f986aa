package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lorrc/aegis-helpdesk/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	// Size of each client's outbound buffer.
	sendBufferSize = 256

	defaultPongWait = 60 * time.Second
)

// Client message types.
const (
	MessageSubscribe   = "SUBSCRIBE_TO_TICKET"
	MessageUnsubscribe = "UNSUBSCRIBE_FROM_TICKET"
	MessagePing        = "PING"
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound messages.
	Send chan domain.Event

	// User ID for this client.
	UserID uuid.UUID

	// subscriptions holds the ticket rooms this client joined.
	subscriptions map[uuid.UUID]bool
	mu            sync.RWMutex

	// sendMu guards Send against writes after close.
	sendMu sync.Mutex
	closed bool

	pongWait   time.Duration
	pingPeriod time.Duration
	logger     *slog.Logger
}

// NewClient creates a new WebSocket client. A non-positive pongWait uses
// the default; pings are sent at nine tenths of it.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, pongWait time.Duration, logger *slog.Logger) *Client {
	if pongWait <= 0 {
		pongWait = defaultPongWait
	}
	return &Client{
		Hub:           hub,
		Conn:          conn,
		Send:          make(chan domain.Event, sendBufferSize),
		UserID:        userID,
		subscriptions: make(map[uuid.UUID]bool),
		pongWait:      pongWait,
		pingPeriod:    (pongWait * 9) / 10,
		logger:        logger.With("user_id", userID.String()),
	}
}

// Start registers the client with the hub and runs its pumps. It reports
// false when the hub is no longer running.
func (c *Client) Start() bool {
	if !c.Hub.register(c) {
		return false
	}
	go c.WritePump()
	go c.ReadPump()
	return true
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// trySend queues an event without blocking. It reports false when the
// buffer is full or the client is closed.
func (c *Client) trySend(event domain.Event) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- event:
		return true
	default:
		return false
	}
}

// AddSubscription adds a subscription to a ticket
func (c *Client) AddSubscription(ticketID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscriptions[ticketID] = true
}

// RemoveSubscription removes a subscription from a ticket
func (c *Client) RemoveSubscription(ticketID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscriptions, ticketID)
}

// GetSubscriptions returns a copy of all subscriptions
func (c *Client) GetSubscriptions() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subs := make([]uuid.UUID, 0, len(c.subscriptions))
	for ticketID := range c.subscriptions {
		subs = append(subs, ticketID)
	}
	return subs
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister(c)
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel.
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.logger.Debug("failed to send close message", "error", err)
				}
				return
			}

			if err := c.Conn.WriteJSON(event); err != nil {
				c.logger.Error("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline for ping", "error", err)
				return
			}

			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// --- Incoming Message Handling ---

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SubscribePayload is the payload for subscribe/unsubscribe messages
type SubscribePayload struct {
	TicketID uuid.UUID `json:"ticketId"`
}

// handleIncomingMessage processes messages received from the client
func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case MessageSubscribe:
		if ticketID, ok := c.parseTicketID(msg.Payload); ok {
			c.Hub.subscribe(context.Background(), c, ticketID)
		}

	case MessageUnsubscribe:
		if ticketID, ok := c.parseTicketID(msg.Payload); ok {
			c.Hub.unsubscribe(c, ticketID)
		}

	case MessagePing:
		c.trySend(domain.Event{Type: domain.EventPong, CreatedAt: time.Now().UTC()})

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

func (c *Client) parseTicketID(payload json.RawMessage) (uuid.UUID, bool) {
	var p SubscribePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.logger.Warn("failed to unmarshal subscription payload", "error", err)
		return uuid.Nil, false
	}
	if p.TicketID == uuid.Nil {
		c.logger.Warn("missing ticket ID in subscription payload")
		return uuid.Nil, false
	}
	return p.TicketID, true
}
