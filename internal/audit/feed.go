package audit

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisFeed транслирует записи аудита в Pub/Sub канал Redis — живая лента
// для фронтенда консоли. Реализует BatchSink и подключается через Trail,
// чтобы публикация не тормозила горячий путь. Ошибки публикации только
// логируются: лента — вспомогательный канал, не источник истины.
type RedisFeed struct {
	rdb     *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisFeed(rdb *redis.Client, channel string, logger *zap.Logger) *RedisFeed {
	return &RedisFeed{
		rdb:     rdb,
		channel: channel,
		logger:  logger.Named("audit-feed"),
	}
}

func (f *RedisFeed) WriteBatch(ctx context.Context, entries []Entry) error {
	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			f.logger.Error("audit feed marshal failed", zap.String("id", e.ID), zap.Error(err))
			continue
		}
		if err := f.rdb.Publish(ctx, f.channel, payload).Err(); err != nil {
			f.logger.Warn("audit feed publish failed", zap.String("id", e.ID), zap.Error(err))
		}
	}
	return nil
}
