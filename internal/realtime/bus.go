package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const busChannel = "realtime:rooms"

// busEnvelope carries one room broadcast across processes.
type busEnvelope struct {
	Room    string          `json:"room"`
	Payload json.RawMessage `json:"payload"`
}

// RedisBus mediates room broadcasts through Redis pub/sub so connections
// landing on different server processes still receive them. Every process
// publishes to one channel and delivers whatever arrives to its local
// room members.
type RedisBus struct {
	client *redis.Client
}

func NewRedisBus(client *redis.Client) *RedisBus {
	return &RedisBus{client: client}
}

func (b *RedisBus) Publish(ctx context.Context, room string, payload []byte) error {
	envelope, err := json.Marshal(busEnvelope{Room: room, Payload: payload})
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, busChannel, envelope).Err()
}

// Subscribe consumes bus messages and delivers them to the hub's local
// rooms until the context is canceled. Run it once per process.
func (b *RedisBus) Subscribe(ctx context.Context, hub *Hub) {
	pubsub := b.client.Subscribe(ctx, busChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var envelope busEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
				log.Printf("[realtime] bad bus envelope: %v", err)
				continue
			}
			hub.DeliverLocal(envelope.Room, envelope.Payload)
		}
	}
}
