package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"flowclicker-backend/internal/features/player/repository"
)

type counterRepository struct {
	client *redis.Client
}

// NewCounterRepository returns the redis-backed pending-click counter.
func NewCounterRepository(client *redis.Client) repository.CounterRepository {
	return &counterRepository{client: client}
}

func clicksKey(player string) string {
	return fmt.Sprintf("user:%s:clicks", player)
}

// Increment атомарно увеличивает счетчик кликов игрока
func (r *counterRepository) Increment(ctx context.Context, player string) (int64, error) {
	return r.client.Incr(ctx, clicksKey(player)).Result()
}

func (r *counterRepository) Get(ctx context.Context, player string) (int64, error) {
	count, err := r.client.Get(ctx, clicksKey(player)).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

// DecrementBy subtracts a known amount. Used instead of SET-to-zero so clicks
// arriving between the read and the compensation are not lost.
func (r *counterRepository) DecrementBy(ctx context.Context, player string, n int64) error {
	if n <= 0 {
		return nil
	}
	left, err := r.client.DecrBy(ctx, clicksKey(player), n).Result()
	if err != nil {
		return err
	}
	// Two overlapping authorizations can both decrement the same snapshot and
	// drive the count below zero. Add the overshoot back (relative, so clicks
	// arriving concurrently survive); the extra authorization reverts on-chain
	// anyway because both carry the same nonce.
	if left < 0 {
		return r.client.IncrBy(ctx, clicksKey(player), -left).Err()
	}
	return nil
}

func (r *counterRepository) Reset(ctx context.Context, player string) error {
	return r.client.Del(ctx, clicksKey(player)).Err()
}

// ResetAll удаляет все счетчики кликов (админская операция)
func (r *counterRepository) ResetAll(ctx context.Context) (int64, error) {
	var deleted int64
	iter := r.client.Scan(ctx, 0, "user:*:clicks", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, iter.Err()
}
