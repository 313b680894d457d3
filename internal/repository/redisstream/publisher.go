package redisstream

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rental-app-go/internal/config"
	"rental-app-go/internal/domain/notification"
)

// Publisher appends dispatched notifications to a Redis stream so that push
// gateways can fan them out to connected clients.
type Publisher struct {
	client redis.UniversalClient
	stream string
	maxLen int64
}

func NewClient(ctx context.Context, cfg config.RedisConfig) (redis.UniversalClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func NewPublisher(client redis.UniversalClient, stream string, maxLen int64) *Publisher {
	return &Publisher{client: client, stream: stream, maxLen: maxLen}
}

func (p *Publisher) Publish(ctx context.Context, n notification.Notification) error {
	_, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"id":           n.ID,
			"user_id":      n.UserID,
			"user_role":    n.UserRole,
			"type":         n.Type,
			"title":        n.Title,
			"content":      n.Content,
			"related_id":   n.RelatedID,
			"related_type": n.RelatedType,
			"created_at":   n.CreatedAt.UTC().Format(time.RFC3339),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", p.stream, err)
	}
	return nil
}
