package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"trivia-arena/internal/domain"
	"trivia-arena/internal/game"
)

const poolKey = "arena:questions:pool"

// QuestionCache keeps the question pool in Redis (JSON blob with TTL) and
// samples tournament question sets locally, so instances sharing a Redis
// only refresh the pool once per TTL window. Falls back to the wrapped
// source on cache miss.
type QuestionCache struct {
	client   *redis.Client
	source   game.QuestionSource
	poolSize int
	ttl      time.Duration
	sf       singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionCache(client *redis.Client, source game.QuestionSource, poolSize int, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		client:   client,
		source:   source,
		poolSize: poolSize,
		ttl:      ttl,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuestionCache) SampleQuestions(ctx context.Context, n int) ([]domain.Question, error) {
	if pool, ok := c.cachedPool(ctx); ok {
		return c.sample(pool, n), nil
	}

	result, err, _ := c.sf.Do(poolKey, func() (interface{}, error) {
		// Re-check in case another goroutine refreshed the pool.
		if pool, ok := c.cachedPool(ctx); ok {
			return pool, nil
		}

		pool, err := c.source.SampleQuestions(ctx, c.poolSize)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(pool)
		if err != nil {
			return nil, err
		}
		_ = c.client.Set(ctx, poolKey, data, c.ttlWithJitter()).Err()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return c.sample(result.([]domain.Question), n), nil
}

func (c *QuestionCache) cachedPool(ctx context.Context) ([]domain.Question, bool) {
	data, err := c.client.Get(ctx, poolKey).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.Question
	if err := json.Unmarshal(data, &pool); err != nil || len(pool) == 0 {
		return nil, false
	}
	return pool, true
}

func (c *QuestionCache) sample(pool []domain.Question, n int) []domain.Question {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Question, len(pool))
	copy(out, pool)
	c.rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
