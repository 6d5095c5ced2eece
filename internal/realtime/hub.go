// Package realtime maintains room-based pub/sub over websocket
// connections. Delivery is best-effort: there is no persistence or
// replay, a client that reconnects simply rejoins its rooms.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"fastfoodie/internal/domain"
)

const (
	RoomGlobalAdmin       = "global_admin"
	RoomAvailablePartners = "available_delivery_partners"
)

func RestaurantRoom(id int) string { return fmt.Sprintf("restaurant_%d", id) }
func CustomerRoom(id int) string   { return fmt.Sprintf("customer_%d", id) }
func PartnerRoom(id int) string    { return fmt.Sprintf("delivery_partner_%d", id) }

// Bus fans a room broadcast out to every server process. When nil, the
// hub delivers only to connections on this process.
type Bus interface {
	Publish(ctx context.Context, room string, payload []byte) error
}

type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	bus   Bus
}

func NewHub(bus Bus) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		bus:   bus,
	}
}

// Join adds the connection to a room. Connection identity is independent
// of membership: a client may join many rooms, or none.
func (h *Hub) Join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(c, room)
}

func (h *Hub) leaveLocked(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room := range c.rooms {
		h.leaveLocked(c, room)
	}
}

// Members reports the current size of a room.
func (h *Hub) Members(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Broadcast sends an event to every member of a room. With a bus
// configured the event goes through it so rooms on other processes are
// reached; the bus subscriber calls DeliverLocal on every process,
// including this one.
func (h *Hub) Broadcast(room string, v interface{}) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Printf("[realtime] marshal broadcast for room %s: %v", room, err)
		return
	}

	if h.bus != nil {
		if err := h.bus.Publish(context.Background(), room, payload); err == nil {
			return
		} else {
			log.Printf("[realtime] bus publish for room %s failed, delivering locally: %v", room, err)
		}
	}
	h.DeliverLocal(room, payload)
}

// DeliverLocal writes a payload to every member connected to this
// process. Slow clients are skipped rather than blocking the room.
func (h *Hub) DeliverLocal(room string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
			log.Printf("[realtime] dropping event for slow client in room %s", room)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make(map[*Client]struct{})
	for _, members := range h.rooms {
		for c := range members {
			clients[c] = struct{}{}
		}
	}
	h.rooms = make(map[string]map[*Client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

// EmitOrderUpdate broadcasts the updated order payload to the
// restaurant's, customer's and (if bound) partner's rooms, plus the
// global monitoring room.
func (h *Hub) EmitOrderUpdate(event string, order *domain.Order) {
	frame := map[string]interface{}{
		"type":  domain.EventOrderUpdate,
		"event": event,
		"order": order,
	}
	h.Broadcast(RestaurantRoom(order.RestaurantID), frame)
	h.Broadcast(CustomerRoom(order.CustomerID), frame)
	if order.DeliveryPartnerID != nil {
		h.Broadcast(PartnerRoom(*order.DeliveryPartnerID), frame)
	}
	h.Broadcast(RoomGlobalAdmin, frame)
}

// EmitNewAvailableOrder tells every partner watching the available pool
// that a new order can be claimed.
func (h *Hub) EmitNewAvailableOrder(order *domain.Order) {
	h.Broadcast(RoomAvailablePartners, map[string]interface{}{
		"type":  domain.EventNewAvailableOrder,
		"order": order,
	})
}
