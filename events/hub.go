package events

import (
	"log"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// BookingEvent is the payload pushed to connected dashboards whenever a
// booking changes state. It carries identifiers and status only, never
// another user's purpose text.
type BookingEvent struct {
	Event      string    `json:"event"`
	BookingID  string    `json:"booking_id"`
	ResourceID string    `json:"resource_id"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}

type Client struct {
	UserID uuid.UUID
	Conn   *websocket.Conn
}

// Hub fans booking lifecycle events out to connected websocket clients. It
// implements services.EventSink; publishing never blocks the workflow.
type Hub struct {
	clients   map[*websocket.Conn]uuid.UUID
	clientsMu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan BookingEvent
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]uuid.UUID),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan BookingEvent, 64),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			log.Printf("Event client registered: %s", client.UserID)
			h.clientsMu.Lock()
			h.clients[client.Conn] = client.UserID
			h.clientsMu.Unlock()
		case client := <-h.unregister:
			log.Printf("Event client unregistered: %s", client.UserID)
			h.clientsMu.Lock()
			delete(h.clients, client.Conn)
			h.clientsMu.Unlock()
		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error writing event to client: %v", err)
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

func (h *Hub) Register(client *Client)   { h.register <- client }
func (h *Hub) Unregister(client *Client) { h.unregister <- client }

// PublishBookingEvent implements services.EventSink. Events are dropped
// when the buffer is full rather than stalling a booking transaction.
func (h *Hub) PublishBookingEvent(event, bookingID, resourceID, status string) {
	e := BookingEvent{
		Event:      event,
		BookingID:  bookingID,
		ResourceID: resourceID,
		Status:     status,
		At:         time.Now(),
	}
	select {
	case h.broadcast <- e:
	default:
		log.Println("Event buffer full, dropping booking event")
	}
}
