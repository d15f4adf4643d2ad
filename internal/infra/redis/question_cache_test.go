package redis

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"trivia-arena/internal/domain"
)

type countingSource struct {
	calls int64
	pool  []domain.Question
}

func (s *countingSource) SampleQuestions(context.Context, int) ([]domain.Question, error) {
	atomic.AddInt64(&s.calls, 1)
	return s.pool, nil
}

func testPool(n int) []domain.Question {
	pool := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, domain.Question{
			ID:      string(rune('a' + i)),
			Text:    "question",
			Options: []string{"x", "y"},
			Correct: "x",
			Grade:   "4",
			Subject: "math",
		})
	}
	return pool
}

func newTestCache(t *testing.T, source *countingSource, ttl time.Duration) (*QuestionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewQuestionCache(client, source, 10, ttl), mr
}

func TestCacheMissLoadsAndStoresPool(t *testing.T) {
	source := &countingSource{pool: testPool(10)}
	cache, mr := newTestCache(t, source, time.Minute)
	ctx := context.Background()

	got, err := cache.SampleQuestions(ctx, 5)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(got))
	}
	if !mr.Exists(poolKey) {
		t.Fatal("pool was not written to redis")
	}

	// Second sample must come from the cache.
	if _, err := cache.SampleQuestions(ctx, 5); err != nil {
		t.Fatalf("second sample: %v", err)
	}
	if n := atomic.LoadInt64(&source.calls); n != 1 {
		t.Fatalf("expected one backing load, got %d", n)
	}
}

func TestCacheSharedAcrossInstances(t *testing.T) {
	source := &countingSource{pool: testPool(10)}
	cache, mr := newTestCache(t, source, time.Minute)
	ctx := context.Background()

	if _, err := cache.SampleQuestions(ctx, 5); err != nil {
		t.Fatalf("warm: %v", err)
	}

	// A second instance against the same redis never touches its source.
	other := &countingSource{pool: testPool(10)}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	second := NewQuestionCache(client, other, 10, time.Minute)

	if _, err := second.SampleQuestions(ctx, 5); err != nil {
		t.Fatalf("sample from warm cache: %v", err)
	}
	if n := atomic.LoadInt64(&other.calls); n != 0 {
		t.Fatalf("expected zero loads against a warm cache, got %d", n)
	}
}

func TestCacheRefreshesAfterExpiry(t *testing.T) {
	source := &countingSource{pool: testPool(10)}
	cache, mr := newTestCache(t, source, time.Minute)
	ctx := context.Background()

	if _, err := cache.SampleQuestions(ctx, 5); err != nil {
		t.Fatalf("warm: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := cache.SampleQuestions(ctx, 5); err != nil {
		t.Fatalf("sample after expiry: %v", err)
	}
	if n := atomic.LoadInt64(&source.calls); n != 2 {
		t.Fatalf("expected a refresh after expiry, got %d loads", n)
	}
}

func TestCacheIgnoresCorruptPool(t *testing.T) {
	source := &countingSource{pool: testPool(10)}
	cache, mr := newTestCache(t, source, time.Minute)
	mr.Set(poolKey, "not json")

	got, err := cache.SampleQuestions(context.Background(), 5)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(got))
	}
	if n := atomic.LoadInt64(&source.calls); n != 1 {
		t.Fatalf("expected fallback to the source, got %d loads", n)
	}
}
