package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CambiosChannel is the pub/sub channel every mutation broadcasts on; the UI
// gateway subscribes and refreshes its views on each message.
const CambiosChannel = "musa:cambios"

// RedisNotifier publishes change notifications over Redis pub/sub.
type RedisNotifier struct {
	rdb *redis.Client
}

func NewRedisNotifier(rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{rdb: rdb}
}

// Cambios signals connected clients that state changed. Best-effort: a failed
// publish is logged, never propagated — the mutation already committed.
func (n *RedisNotifier) Cambios(ctx context.Context) {
	if err := n.rdb.Publish(ctx, CambiosChannel, "cambios").Err(); err != nil {
		log.Warn().Err(err).Msg("notifier: no se pudo publicar cambios")
	}
}
