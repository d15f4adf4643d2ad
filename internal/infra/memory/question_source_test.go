package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"trivia-arena/internal/domain"
	"trivia-arena/internal/game"
)

func testPool(n int) []domain.Question {
	subjects := []string{"math", "science", "history", "geography", "english"}
	pool := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		pool = append(pool, domain.Question{
			ID:      string(rune('a' + i)),
			Text:    "question",
			Options: []string{"x", "y"},
			Correct: "x",
			Grade:   "4",
			Subject: subjects[i%len(subjects)],
		})
	}
	return pool
}

func TestStaticSourceSamplesWithoutReplacement(t *testing.T) {
	source := NewStaticQuestionSource(testPool(10))

	got, err := source.SampleQuestions(context.Background(), 5)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(got))
	}
	seen := make(map[string]bool)
	for _, q := range got {
		if seen[q.ID] {
			t.Fatalf("question %s drawn twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestStaticSourceShortPool(t *testing.T) {
	source := NewStaticQuestionSource(testPool(3))

	got, err := source.SampleQuestions(context.Background(), 10)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected the whole pool back, got %d", len(got))
	}
}

// countingSource counts backing loads so cache tests can assert refresh
// behavior.
type countingSource struct {
	calls int64
	pool  []domain.Question
	err   error
}

func (s *countingSource) SampleQuestions(context.Context, int) ([]domain.Question, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return s.pool, nil
}

var _ game.QuestionSource = (*countingSource)(nil)

func TestCachedSourceLoadsOnce(t *testing.T) {
	backing := &countingSource{pool: testPool(10)}
	cache := NewCachedSource(backing, 10, time.Minute)

	for i := 0; i < 5; i++ {
		got, err := cache.SampleQuestions(context.Background(), 5)
		if err != nil {
			t.Fatalf("sample %d: %v", i, err)
		}
		if len(got) != 5 {
			t.Fatalf("sample %d: expected 5 questions, got %d", i, len(got))
		}
	}
	if n := atomic.LoadInt64(&backing.calls); n != 1 {
		t.Fatalf("expected one backing load, got %d", n)
	}
}

func TestCachedSourceRefreshesAfterTTL(t *testing.T) {
	backing := &countingSource{pool: testPool(10)}
	cache := NewCachedSource(backing, 10, time.Minute)

	at := time.Unix(1700000000, 0)
	var mu sync.Mutex
	cache.clock = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return at
	}

	if _, err := cache.SampleQuestions(context.Background(), 5); err != nil {
		t.Fatalf("first sample: %v", err)
	}
	mu.Lock()
	at = at.Add(2 * time.Minute) // past the ttl even with max jitter
	mu.Unlock()
	if _, err := cache.SampleQuestions(context.Background(), 5); err != nil {
		t.Fatalf("second sample: %v", err)
	}

	if n := atomic.LoadInt64(&backing.calls); n != 2 {
		t.Fatalf("expected a refresh after expiry, got %d loads", n)
	}
}

func TestCachedSourceConcurrentColdStart(t *testing.T) {
	backing := &countingSource{pool: testPool(10)}
	cache := NewCachedSource(backing, 10, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.SampleQuestions(context.Background(), 5); err != nil {
				t.Errorf("sample: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt64(&backing.calls); n != 1 {
		t.Fatalf("singleflight should collapse the cold start into one load, got %d", n)
	}
}

func TestCachedSourcePropagatesLoadError(t *testing.T) {
	wantErr := errors.New("db down")
	cache := NewCachedSource(&countingSource{err: wantErr}, 10, time.Minute)

	if _, err := cache.SampleQuestions(context.Background(), 5); !errors.Is(err, wantErr) {
		t.Fatalf("expected load error, got %v", err)
	}
}
