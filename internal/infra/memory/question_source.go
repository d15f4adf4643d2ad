package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-arena/internal/domain"
)

// StaticQuestionSource serves random samples from a fixed in-memory set
// (useful for tests, demos and database-less runs).
type StaticQuestionSource struct {
	mu        sync.Mutex
	questions []domain.Question
	rnd       *rand.Rand
}

func NewStaticQuestionSource(questions []domain.Question) *StaticQuestionSource {
	return &StaticQuestionSource{
		questions: questions,
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *StaticQuestionSource) SampleQuestions(_ context.Context, n int) ([]domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sampleQuestions(s.rnd, s.questions, n), nil
}

// sampleQuestions draws up to n questions without replacement.
func sampleQuestions(rnd *rand.Rand, pool []domain.Question, n int) []domain.Question {
	out := make([]domain.Question, len(pool))
	copy(out, pool)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
