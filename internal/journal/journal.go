// internal/journal/journal.go

// Package journal pushes lobby lifecycle records onto a Redis list for
// out-of-process consumers (dashboards, analytics). It is strictly
// fire-and-forget: publish failures are logged and never reach clients.
package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultQueueName is the Redis list used when none is configured.
const DefaultQueueName = "lobby_events"

// Record is one lifecycle event.
type Record struct {
	Event       string `json:"event"` // group_created, game_started, group_removed
	GroupID     string `json:"group_id"`
	PlayerCount int    `json:"player_count,omitempty"`
	Timestamp   int64  `json:"timestamp"`
}

// Journal wraps the Redis client. A nil *Journal is valid and publishes
// nothing, so callers never have to branch on whether journaling is enabled.
type Journal struct {
	log   *logrus.Logger
	rdb   *redis.Client
	queue string
}

// Connect dials Redis at addr and verifies the connection with a ping.
func Connect(log *logrus.Logger, addr, queue string) (*Journal, error) {
	if queue == "" {
		queue = DefaultQueueName
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return &Journal{log: log, rdb: rdb, queue: queue}, nil
}

// Publish appends the record to the queue asynchronously.
func (j *Journal) Publish(rec Record) {
	if j == nil {
		return
	}
	if rec.Timestamp == 0 {
		rec.Timestamp = time.Now().Unix()
	}
	go func() {
		data, err := json.Marshal(rec)
		if err != nil {
			j.log.WithError(err).Warn("journal: failed to marshal record")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := j.rdb.RPush(ctx, j.queue, data).Err(); err != nil {
			j.log.WithError(err).WithField("queue", j.queue).Warn("journal: publish failed")
		}
	}()
}

// Close releases the Redis client.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	return j.rdb.Close()
}
