package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"trivia-arena/internal/domain"
	"trivia-arena/internal/game"
)

// CachedSource keeps a TTL-bound pool of questions in memory and samples
// tournaments from it, so repeated game starts do not hammer the backing
// source. Redis-less counterpart of the redis pool cache.
type CachedSource struct {
	source   game.QuestionSource
	poolSize int
	ttl      time.Duration
	clock    func() time.Time
	sf       singleflight.Group

	mu        sync.Mutex
	rnd       *rand.Rand
	pool      []domain.Question
	expiresAt time.Time
}

func NewCachedSource(source game.QuestionSource, poolSize int, ttl time.Duration) *CachedSource {
	return &CachedSource{
		source:   source,
		poolSize: poolSize,
		ttl:      ttl,
		clock:    time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *CachedSource) SampleQuestions(ctx context.Context, n int) ([]domain.Question, error) {
	now := c.clock()

	c.mu.Lock()
	if c.pool != nil && c.expiresAt.After(now) {
		out := sampleQuestions(c.rnd, c.pool, n)
		c.mu.Unlock()
		return out, nil
	}
	c.mu.Unlock()

	_, err, _ := c.sf.Do("pool", func() (interface{}, error) {
		now := c.clock()
		c.mu.Lock()
		if c.pool != nil && c.expiresAt.After(now) {
			c.mu.Unlock()
			return nil, nil
		}
		c.mu.Unlock()

		pool, err := c.source.SampleQuestions(ctx, c.poolSize)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.pool = pool
		c.expiresAt = now.Add(c.ttlWithJitter())
		c.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return sampleQuestions(c.rnd, c.pool, n), nil
}

func (c *CachedSource) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread refreshes
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
