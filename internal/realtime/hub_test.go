package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fastfoodie/internal/domain"
)

func testClient(h *Hub) *Client {
	return newClient(h, nil)
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case payload := <-c.send:
		return payload
	case <-time.After(time.Second):
		t.Fatal("no payload delivered")
		return nil
	}
}

func TestHub_JoinLeave(t *testing.T) {
	h := NewHub(nil)
	c := testClient(h)

	h.Join(c, RestaurantRoom(1))
	h.Join(c, RoomGlobalAdmin)
	assert.Equal(t, 1, h.Members(RestaurantRoom(1)))
	assert.Equal(t, 1, h.Members(RoomGlobalAdmin))

	h.Leave(c, RestaurantRoom(1))
	assert.Equal(t, 0, h.Members(RestaurantRoom(1)))
	assert.Equal(t, 1, h.Members(RoomGlobalAdmin))

	h.remove(c)
	assert.Equal(t, 0, h.Members(RoomGlobalAdmin))
}

func TestHub_BroadcastReachesRoomMembersOnly(t *testing.T) {
	h := NewHub(nil)
	member := testClient(h)
	outsider := testClient(h)

	h.Join(member, CustomerRoom(5))
	h.Join(outsider, CustomerRoom(6))

	h.Broadcast(CustomerRoom(5), map[string]string{"type": "order_update"})

	payload := receive(t, member)
	assert.Contains(t, string(payload), "order_update")
	assert.Empty(t, outsider.send)
}

func TestHub_EmitOrderUpdate_RoomSet(t *testing.T) {
	h := NewHub(nil)
	restaurant := testClient(h)
	customer := testClient(h)
	partner := testClient(h)
	admin := testClient(h)
	bystander := testClient(h)

	h.Join(restaurant, RestaurantRoom(10))
	h.Join(customer, CustomerRoom(5))
	h.Join(partner, PartnerRoom(7))
	h.Join(admin, RoomGlobalAdmin)
	h.Join(bystander, PartnerRoom(8))

	partnerID := 7
	h.EmitOrderUpdate(domain.EventOrderUpdate, &domain.Order{
		ID:                62,
		RestaurantID:      10,
		CustomerID:        5,
		DeliveryPartnerID: &partnerID,
		Status:            domain.StatusReady,
		DeliveryStatus:    domain.DeliveryAssigned,
	})

	for _, c := range []*Client{restaurant, customer, partner, admin} {
		var frame struct {
			Type  string `json:"type"`
			Order struct {
				ID int `json:"id"`
			} `json:"order"`
		}
		require.NoError(t, json.Unmarshal(receive(t, c), &frame))
		assert.Equal(t, domain.EventOrderUpdate, frame.Type)
		assert.Equal(t, 62, frame.Order.ID)
	}
	assert.Empty(t, bystander.send)
}

func TestHub_EmitOrderUpdate_UnassignedSkipsPartnerRoom(t *testing.T) {
	h := NewHub(nil)
	partner := testClient(h)
	h.Join(partner, PartnerRoom(7))

	h.EmitOrderUpdate(domain.EventOrderUpdate, &domain.Order{
		ID: 62, RestaurantID: 10, CustomerID: 5,
		Status: domain.StatusHandedOver, DeliveryStatus: domain.DeliveryUnassigned,
	})

	assert.Empty(t, partner.send)
}

func TestHub_EmitNewAvailableOrder(t *testing.T) {
	h := NewHub(nil)
	watcher := testClient(h)
	h.Join(watcher, RoomAvailablePartners)

	h.EmitNewAvailableOrder(&domain.Order{ID: 62, Status: domain.StatusReady})

	payload := receive(t, watcher)
	assert.Contains(t, string(payload), domain.EventNewAvailableOrder)
}

func TestRedisBus_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	bus := NewRedisBus(client)

	h := NewHub(bus)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go bus.Subscribe(ctx, h)

	member := testClient(h)
	h.Join(member, RoomGlobalAdmin)

	// Give the subscriber a moment to attach before publishing.
	time.Sleep(50 * time.Millisecond)
	h.Broadcast(RoomGlobalAdmin, map[string]string{"type": "order_update", "status": "ready"})

	payload := receive(t, member)
	assert.Contains(t, string(payload), "ready")
}
