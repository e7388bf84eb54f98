package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mossy-p/peercall-signaling/config"
	"github.com/mossy-p/peercall-signaling/internal/models"
	"github.com/mossy-p/peercall-signaling/internal/presence"
	"github.com/mossy-p/peercall-signaling/internal/registry"
	"github.com/mossy-p/peercall-signaling/internal/rooms"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 * 1024 // enough for any SDP payload
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin checking is handled by middleware
		return true
	},
}

// Client represents one live signaling connection. Its handle is assigned at
// upgrade time and never reused.
type Client struct {
	Handle string
	Conn   *websocket.Conn
	Send   chan []byte
}

// Signaling owns all relay state: the identity registry, the room store, the
// table of live connections, and the optional Redis presence mirror. One
// instance is constructed at startup and shared by every connection.
type Signaling struct {
	cfg      *config.Config
	registry *registry.Registry
	rooms    *rooms.Store
	mirror   *presence.Mirror

	mu    sync.RWMutex
	conns map[string]*Client
}

func NewSignaling(cfg *config.Config, reg *registry.Registry, store *rooms.Store, mirror *presence.Mirror) *Signaling {
	return &Signaling{
		cfg:      cfg,
		registry: reg,
		rooms:    store,
		mirror:   mirror,
		conns:    make(map[string]*Client),
	}
}

// HandleSignaling upgrades the connection and runs it until disconnect.
func (s *Signaling) HandleSignaling(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := &Client{
		Handle: uuid.New().String(),
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	s.mu.Lock()
	s.conns[client.Handle] = client
	s.mu.Unlock()

	log.Printf("Connection established: %s", client.Handle)

	go client.writePump()
	go s.readPump(client)
}

func (s *Signaling) readPump(c *Client) {
	defer func() {
		s.disconnect(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on %s: %v", c.Handle, err)
			}
			break
		}

		var msg models.SignalMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Failed to parse message from %s: %v", c.Handle, err)
			continue
		}

		// The sender's handle is always stamped server-side; clients
		// cannot speak as anyone else.
		msg.From = c.Handle

		switch msg.Type {
		case models.SignalTypeJoin:
			s.handleJoin(c, msg)
		case models.SignalTypeCallOffer:
			s.forward(c, msg, models.SignalTypeIncomingCall)
		case models.SignalTypeCallAnswer:
			s.forward(c, msg, models.SignalTypeCallAccepted)
		case models.SignalTypeRenegoOffer:
			s.forward(c, msg, models.SignalTypeRenegoNeeded)
		case models.SignalTypeRenegoAnswer:
			s.forward(c, msg, models.SignalTypeRenegoFinal)
		default:
			log.Printf("Unknown message type from %s: %s", c.Handle, msg.Type)
		}
	}
}

// handleJoin records the identity, adds the sender to the room, announces it
// to the other members, and acks back to the sender. The broadcast goes out
// before the ack, matching the order clients already tolerate.
func (s *Signaling) handleJoin(c *Client, msg models.SignalMessage) {
	if msg.Identity == "" || msg.Room == "" {
		log.Printf("Dropping malformed join from %s", c.Handle)
		return
	}

	ctx := context.Background()
	s.registry.Record(msg.Identity, c.Handle)

	previous, moved := s.rooms.Join(msg.Room, c.Handle)
	if moved {
		// A handle is in at most one room; tell the room it left behind.
		s.mirror.Leave(ctx, previous, c.Handle)
		s.broadcast(previous, models.SignalMessage{
			Type:     models.SignalTypePeerLeft,
			From:     c.Handle,
			Identity: msg.Identity,
			Room:     previous,
		}, c.Handle)
	}
	s.mirror.Join(ctx, msg.Room, c.Handle)

	log.Printf("Peer %s joined room %s as %q (%d members)",
		c.Handle, msg.Room, msg.Identity, s.rooms.Len(msg.Room))

	s.broadcast(msg.Room, models.SignalMessage{
		Type:     models.SignalTypeJoined,
		From:     c.Handle,
		Identity: msg.Identity,
		Room:     msg.Room,
	}, c.Handle)

	s.sendTo(c.Handle, models.SignalMessage{
		Type:     models.SignalTypeJoinAck,
		Identity: msg.Identity,
		Room:     msg.Room,
	})
}

// forward relays a negotiation message to its target handle with the payload
// untouched. An unknown target is a silent drop unless delivery-failure
// notices are enabled.
func (s *Signaling) forward(c *Client, msg models.SignalMessage, out models.SignalType) {
	if msg.To == "" || len(msg.Payload) == 0 {
		log.Printf("Dropping malformed %s from %s", msg.Type, c.Handle)
		return
	}

	delivered := s.sendTo(msg.To, models.SignalMessage{
		Type:    out,
		From:    c.Handle,
		Payload: msg.Payload,
	})
	if !delivered {
		log.Printf("Dropping %s from %s: target %s not connected", msg.Type, c.Handle, msg.To)
		if s.cfg.NotifyUndeliverable {
			s.sendTo(c.Handle, models.SignalMessage{
				Type:  models.SignalTypeError,
				To:    msg.To,
				Error: "peer not connected",
			})
		}
	}
}

// disconnect tears down everything the handle touched: the connection table,
// its room membership, and its registry binding. Runs exactly once per
// connection and is safe for handles that never joined anything.
func (s *Signaling) disconnect(c *Client) {
	s.mu.Lock()
	delete(s.conns, c.Handle)
	s.mu.Unlock()

	identity, _ := s.registry.Forget(c.Handle)

	if room, ok := s.rooms.Leave(c.Handle); ok {
		s.mirror.Leave(context.Background(), room, c.Handle)
		s.broadcast(room, models.SignalMessage{
			Type:     models.SignalTypePeerLeft,
			From:     c.Handle,
			Identity: identity,
			Room:     room,
		}, c.Handle)
		log.Printf("Peer %s left room %s", c.Handle, room)
	}

	log.Printf("Connection closed: %s", c.Handle)
}

// broadcast delivers msg to every member of the room except exclude.
func (s *Signaling) broadcast(room string, msg models.SignalMessage, exclude string) {
	for _, handle := range s.rooms.Members(room) {
		if handle != exclude {
			s.sendTo(handle, msg)
		}
	}
}

// sendTo queues msg for the handle's connection. Returns false if the handle
// is not connected; a disconnected target is never an error for the caller.
func (s *Signaling) sendTo(handle string, msg models.SignalMessage) bool {
	s.mu.RLock()
	client, ok := s.conns[handle]
	s.mu.RUnlock()
	if !ok {
		return false
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal message: %v", err)
		return false
	}

	select {
	case client.Send <- data:
	default:
		log.Printf("Failed to send message to peer %s, buffer full", handle)
	}
	return true
}

// closeHandle force-closes a live connection, driving the normal disconnect
// path in its readPump. Used by the management API.
func (s *Signaling) closeHandle(handle string) bool {
	s.mu.RLock()
	client, ok := s.conns[handle]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	client.Conn.Close()
	return true
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write message: %v", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
