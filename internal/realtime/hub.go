package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"surveillance-dashboard/internal/metrics"
	"surveillance-dashboard/internal/model"
)

const MessageTypeEvent = "event"

var ErrHubStopped = errors.New("hub stopped")

// Message is the frame pushed to live alert subscribers.
type Message struct {
	Type      string      `json:"type"`
	Data      model.Event `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans stored events out to websocket clients.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client

	done chan struct{}

	mutex sync.RWMutex
	log   zerolog.Logger
}

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.With().Str("component", "hub").Logger(),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done.
// Remaining clients are closed on exit.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mutex.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mutex.Unlock()
			metrics.AlertSubscribers.Set(0)
			return

		case client := <-h.Register:
			h.mutex.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mutex.Unlock()
			metrics.AlertSubscribers.Set(float64(n))
			h.log.Debug().Int("clients", n).Msg("client connected")

		case client := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mutex.Unlock()
			metrics.AlertSubscribers.Set(float64(n))
			h.log.Debug().Int("clients", n).Msg("client disconnected")

		case message := <-h.broadcast:
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// медленный клиент, отключаем
					close(client.send)
					delete(h.clients, client)
				}
			}
			n := len(h.clients)
			h.mutex.Unlock()
			metrics.AlertSubscribers.Set(float64(n))
		}
	}
}

// Publish encodes the event and queues it for every client.
func (h *Hub) Publish(ctx context.Context, event model.Event) error {
	data, err := EncodeEvent(event)
	if err != nil {
		return err
	}
	return h.Broadcast(ctx, data)
}

// Broadcast queues an already encoded frame.
func (h *Hub) Broadcast(ctx context.Context, data []byte) error {
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join registers c. It reports false once the hub has stopped.
func (h *Hub) Join(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters c unless the hub has already stopped.
func (h *Hub) leave(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) Clients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func EncodeEvent(event model.Event) ([]byte, error) {
	return json.Marshal(Message{
		Type:      MessageTypeEvent,
		Data:      event,
		Timestamp: time.Now().UTC(),
	})
}

func DecodeMessage(b []byte) (Message, error) {
	var m Message
	err := json.Unmarshal(b, &m)
	return m, err
}
