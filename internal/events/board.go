package events

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Board keeps the websocket connections watching each session's seat map.
type Board struct {
	sessions map[int64]map[*websocket.Conn]*client
	mutex    sync.RWMutex
}

func NewBoard() *Board {
	return &Board{sessions: make(map[int64]map[*websocket.Conn]*client)}
}

func (b *Board) Register(sessionID int64, conn *websocket.Conn) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.sessions[sessionID] == nil {
		b.sessions[sessionID] = make(map[*websocket.Conn]*client)
	}
	b.sessions[sessionID][conn] = &client{conn: conn}
}

func (b *Board) Unregister(sessionID int64, conn *websocket.Conn) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	conns := b.sessions[sessionID]
	if _, ok := conns[conn]; !ok {
		return
	}
	_ = conn.Close()
	delete(conns, conn)
	if len(conns) == 0 {
		delete(b.sessions, sessionID)
	}
}

// Broadcast writes msg to every screen of the session and returns how many
// received it. Connections that fail are dropped.
func (b *Board) Broadcast(sessionID int64, msg any) int {
	b.mutex.RLock()
	clients := make([]*client, 0, len(b.sessions[sessionID]))
	for _, c := range b.sessions[sessionID] {
		clients = append(clients, c)
	}
	b.mutex.RUnlock()

	sent := 0
	for _, c := range clients {
		if err := c.write(msg); err != nil {
			b.Unregister(sessionID, c.conn)
			continue
		}
		sent++
	}
	return sent
}

// Publish lets the board take part in a Multi publisher.
func (b *Board) Publish(_ context.Context, ev Event) error {
	b.Broadcast(ev.SessionID, ev)
	return nil
}

func (b *Board) Count(sessionID int64) int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.sessions[sessionID])
}

func (b *Board) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for sessionID, conns := range b.sessions {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(b.sessions, sessionID)
	}
}
