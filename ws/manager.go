package ws

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to a subscriber.
	writeWait = 10 * time.Second

	// Messages queued per subscriber before it is considered stalled.
	sendBuffer = 32
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

// Manager keeps track of websocket clients subscribed to command changes.
// Each subscriber has its own queue and writer goroutine, so a slow client
// never holds up Broadcast.
type Manager struct {
	mu          sync.RWMutex
	subscribers map[string]*subscriber // subscriberID -> conn

	writeWait  time.Duration
	sendBuffer int
}

func NewManager() *Manager {
	return &Manager{
		subscribers: make(map[string]*subscriber),
		writeWait:   writeWait,
		sendBuffer:  sendBuffer,
	}
}

// Register adds a connection, starts its writer and returns its subscriber id.
func (m *Manager) Register(conn *websocket.Conn) string {
	id := uuid.New().String()
	sub := &subscriber{
		conn: conn,
		send: make(chan []byte, m.sendBuffer),
		done: make(chan struct{}),
	}

	m.mu.Lock()
	m.subscribers[id] = sub
	m.mu.Unlock()

	go m.writePump(id, sub)
	return id
}

// Unregister closes and removes a subscriber.
func (m *Manager) Unregister(id string) {
	m.mu.Lock()
	sub, ok := m.subscribers[id]
	if ok {
		delete(m.subscribers, id)
	}
	m.mu.Unlock()

	if ok {
		sub.close()
	}
}

// Broadcast queues a text message for every subscriber without waiting for
// delivery. Subscribers whose queue is full are dropped. It returns the
// number of subscribers the message was queued for.
func (m *Manager) Broadcast(payload []byte) int {
	m.mu.RLock()
	targets := make(map[string]*subscriber, len(m.subscribers))
	for id, sub := range m.subscribers {
		targets[id] = sub
	}
	m.mu.RUnlock()

	queued := 0
	for id, sub := range targets {
		select {
		case sub.send <- payload:
			queued++
		default:
			log.Printf("dropping subscriber %s: send queue full", id)
			m.Unregister(id)
		}
	}
	return queued
}

func (m *Manager) writePump(id string, sub *subscriber) {
	for {
		select {
		case <-sub.done:
			return
		case payload := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(m.writeWait))
			if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Printf("dropping subscriber %s: %v", id, err)
				m.Unregister(id)
				return
			}
		}
	}
}

// Count returns the number of connected subscribers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}

// List returns a copy of current subscriber ids.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.subscribers))
	for id := range m.subscribers {
		ids = append(ids, id)
	}
	return ids
}
