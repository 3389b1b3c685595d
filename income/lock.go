package income

import (
	"context"
	"log"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const leaseKey = "workup:income:lease"

// leaseLock is the cross-process single-flight guard: a SetNX lease record
// (holder id + TTL) in Redis. With a single process the in-memory guard in
// Distributor.Run is already sufficient; the lease extends the at-most-one
// guarantee to multi-instance deployments.
type leaseLock struct {
	client   *redis.Client
	holderID string
	ttl      time.Duration
}

func (l *leaseLock) acquire(ctx context.Context) (bool, error) {
	if l.client == nil {
		return true, nil
	}
	return l.client.SetNX(ctx, leaseKey, l.holderID, l.ttl).Result()
}

func (l *leaseLock) release(ctx context.Context) {
	if l.client == nil {
		return
	}
	// Only the holder may clear the lease; an expired lease taken over by
	// another instance must not be deleted from here.
	val, err := l.client.Get(ctx, leaseKey).Result()
	if err != nil || val != l.holderID {
		return
	}
	if err := l.client.Del(ctx, leaseKey).Err(); err != nil {
		log.Printf("[income] lease release failed: %v", err)
	}
}
