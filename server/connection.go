package main

import (
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// PlayerInput holds the latest steering from a client
type PlayerInput struct {
	Angle float64
	Boost bool
}

// PlayerEvents are the world-side reactions to a /ws session
type PlayerEvents struct {
	Join  func(c *Conn, name string) // join and respawn
	Leave func(c *Conn)              // once, after the read loop ends
}

// Conn is one /ws session. It spectates until it joins, and may follow
// any snake with the camera.
type Conn struct {
	ID   string
	Name string
	ws   *websocket.Conn

	mu     sync.Mutex // input, follow, closed and ws writes
	input  PlayerInput
	follow string
	closed bool
}

// NewConn wraps an upgraded socket with a fresh session ID
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ID: uuid.New().String(),
		ws: ws,
	}
}

// Send writes msg as a JSON text frame. Sends after Close are dropped.
func (c *Conn) Send(msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(WriteTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// GetInput returns the latest input
func (c *Conn) GetInput() PlayerInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Following returns the snake ID the camera follows when the connection
// has no live snake of its own
func (c *Conn) Following() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.follow
}

// Close stops further sends and closes the socket
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.ws.Close()
}

// playerName trims a requested name and falls back to "Player"
func playerName(requested string) string {
	name := []rune(strings.TrimSpace(requested))
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
	}
	if len(name) == 0 {
		return "Player"
	}
	return string(name)
}

// handle applies one client message
func (c *Conn) handle(msg ClientMessage, ev PlayerEvents) {
	switch msg.Type {
	case MsgJoin, MsgRespawn:
		c.Name = playerName(msg.Name)
		ev.Join(c, c.Name)

	case MsgInput:
		c.mu.Lock()
		c.input = PlayerInput{Angle: msg.Angle, Boost: msg.Boost == 1}
		c.mu.Unlock()

	case MsgFollow:
		c.mu.Lock()
		c.follow = msg.Target
		c.mu.Unlock()

	default:
		log.Printf("unknown message %q from %s", msg.Type, c.ID)
	}
}

// ReadLoop handles client messages until the socket fails, then runs Leave
// and closes the connection
func (c *Conn) ReadLoop(ev PlayerEvents) {
	defer func() {
		ev.Leave(c)
		c.Close()
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.ID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Printf("bad message from %s: %v", c.ID, err)
			continue
		}
		c.handle(msg, ev)
	}
}

// ConnManager tracks the live /ws sessions
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Get returns a connection by ID
func (m *ConnManager) Get(id string) (*Conn, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conns[id]
	return c, ok
}

// Count returns the number of live sessions
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns the live sessions ordered by ID, so players steer in the
// same order every tick
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	m.mu.RUnlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}
