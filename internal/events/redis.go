package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	KindInstall = "section_installed"
	KindReplace = "block_replaced"
)

// Event is one audit record of a theme mutation. The stream feeds
// dashboards and support tooling; emission is fire-and-forget and never
// fails the merchant-facing operation.
type Event struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	ShopDomain string `json:"shop_domain"`
	SectionID  int64  `json:"section_id"`
	AssetKey   string `json:"asset_key"`
	OldBlockID string `json:"old_block_id,omitempty"`
	NewBlockID string `json:"new_block_id,omitempty"`
	At         string `json:"at"`
}

type Emitter interface {
	Emit(ctx context.Context, event Event)
}

type redisEmitter struct {
	redisClient *redis.Client
	stream      string
}

func NewRedisEmitter(redisClient *redis.Client, stream string) Emitter {
	return &redisEmitter{
		redisClient: redisClient,
		stream:      stream,
	}
}

func (e *redisEmitter) Emit(ctx context.Context, event Event) {
	event.ID = uuid.NewString()
	event.At = time.Now().UTC().Format(time.RFC3339)

	values := map[string]interface{}{
		"id":           event.ID,
		"kind":         event.Kind,
		"shop_domain":  event.ShopDomain,
		"section_id":   fmt.Sprintf("%d", event.SectionID),
		"asset_key":    event.AssetKey,
		"old_block_id": event.OldBlockID,
		"new_block_id": event.NewBlockID,
		"at":           event.At,
	}

	messageID, err := e.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: e.stream,
		Values: values,
	}).Result()
	if err != nil {
		log.Warnf("Failed to emit %s event for %s: %v", event.Kind, event.ShopDomain, err)
		return
	}

	log.Debugf("Emitted %s event %s (message %s)", event.Kind, event.ID, messageID)
}
