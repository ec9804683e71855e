package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TimingStore keeps the transient "question shown at" timestamp per session
// in Redis. The value lives outside the relational store on purpose: it is
// written on every render and must not survive longer than a play-through.
// A missing value makes the engine assume the full timer elapsed, so losing
// Redis degrades to minimum scores rather than errors.
type TimingStore struct {
	redis *redis.Client
	ttl   time.Duration
}

const timingTTL = 2 * time.Hour

func NewTimingStore(client *redis.Client) *TimingStore {
	return &TimingStore{redis: client, ttl: timingTTL}
}

func timingKey(sessionID uint) string {
	return fmt.Sprintf("quiz:shownat:%d", sessionID)
}

// Put records when the current question was rendered for a session.
func (t *TimingStore) Put(ctx context.Context, sessionID uint, shownAt time.Time) error {
	return t.redis.Set(ctx, timingKey(sessionID), shownAt.UTC().Format(time.RFC3339Nano), t.ttl).Err()
}

// Take returns and consumes the stored timestamp. The zero time and false
// mean no timing data was captured for this session.
func (t *TimingStore) Take(ctx context.Context, sessionID uint) (time.Time, bool) {
	value, err := t.redis.GetDel(ctx, timingKey(sessionID)).Result()
	if err != nil {
		return time.Time{}, false
	}
	shownAt, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, false
	}
	return shownAt, true
}
