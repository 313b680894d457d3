package redisstream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-app-go/internal/config"
	"rental-app-go/internal/domain/notification"
)

func TestPublishAppendsToStream(t *testing.T) {
	server := miniredis.RunT(t)
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: server.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	publisher := NewPublisher(client, "rental:notifications", 100)
	n := notification.Notification{
		ID:          "n-1",
		UserID:      "landlord-1",
		UserRole:    "landlord",
		Type:        "paymentReceived",
		Title:       "收到付款",
		Content:     "张三已支付 4500.00 元",
		RelatedID:   "payment-1",
		RelatedType: "payment",
		CreatedAt:   time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(context.Background(), n))

	messages, err := client.XRange(context.Background(), "rental:notifications", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	values := messages[0].Values
	assert.Equal(t, "n-1", values["id"])
	assert.Equal(t, "landlord-1", values["user_id"])
	assert.Equal(t, "paymentReceived", values["type"])
	assert.Equal(t, "2024-03-01T08:00:00Z", values["created_at"])
}

func TestPublishReportsUnavailableServer(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	server.Close()

	err := NewPublisher(client, "rental:notifications", 100).Publish(context.Background(), notification.Notification{ID: "n-1"})
	assert.Error(t, err)
}

func TestNewClientFailsWithoutServer(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
