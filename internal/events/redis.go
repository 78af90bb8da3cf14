// README: Redis pub/sub notifier so UI sessions on other devices can refresh.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel all storage-update notifications are published to.
const Channel = "canteen:storage-updated"

const publishTimeout = 2 * time.Second

type RedisNotifier struct {
	client   *redis.Client
	producer string
	logger   *zap.Logger
}

func NewRedisNotifier(client *redis.Client, producer string, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, producer: producer, logger: logger}
}

func (n *RedisNotifier) EntityChanged(ctx context.Context, kind, id string) {
	ev := Envelope{
		EventID:    uuid.NewString(),
		Kind:       kind,
		EntityID:   id,
		OccurredAt: time.Now().UTC(),
		Producer:   n.producer,
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		n.logger.Error("marshal storage event", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := n.client.Publish(ctx, Channel, payload).Err(); err != nil {
		// Notifications are best effort; the mutation already committed.
		n.logger.Warn("publish storage event", zap.String("kind", kind), zap.Error(err))
	}
}
