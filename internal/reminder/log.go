package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	platformredis "lobbyreg/internal/platform/redis"
)

// sentMarkerTTL keeps sent markers long enough to cover the longest reminder
// horizon plus overdue follow-ups.
const sentMarkerTTL = 60 * 24 * time.Hour

// NotificationLog records which decisions have already produced a
// notification, so repeated daily runs do not refire the same send.
type NotificationLog interface {
	// MarkSent records the key and reports whether this call was the first
	// to do so. Only the first caller should deliver.
	MarkSent(ctx context.Context, key string) (bool, error)
}

// RedisNotificationLog stores sent markers in Redis with a TTL.
type RedisNotificationLog struct {
	client *platformredis.Client
}

func NewRedisNotificationLog(client *platformredis.Client) *RedisNotificationLog {
	return &RedisNotificationLog{client: client}
}

func (l *RedisNotificationLog) MarkSent(ctx context.Context, key string) (bool, error) {
	first, err := l.client.SetNX(ctx, "reminder:sent:"+key, "1", sentMarkerTTL).Result()
	if err != nil {
		return false, fmt.Errorf("mark notification sent: %w", err)
	}
	return first, nil
}

// InMemoryNotificationLog backs the scheduler in tests and development.
type InMemoryNotificationLog struct {
	mu   sync.Mutex
	sent map[string]bool
}

func NewInMemoryNotificationLog() *InMemoryNotificationLog {
	return &InMemoryNotificationLog{sent: make(map[string]bool)}
}

func (l *InMemoryNotificationLog) MarkSent(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sent[key] {
		return false, nil
	}
	l.sent[key] = true
	return true, nil
}
