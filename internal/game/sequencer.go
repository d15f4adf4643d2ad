package game

import (
	"time"

	"trivia-arena/internal/domain"
)

// Sequencer owns the active question list, the current index and the
// per-question answer collection. Like Registry it relies on the session
// for serialization. The question timer handle lives on the session so that
// every transition can cancel it under the same lock.
type Sequencer struct {
	questions []domain.Question
	index     int
	startedAt time.Time
	open      bool

	answers map[string]domain.AnswerRecord
	// arrival keeps submission order for fastest-answer tie-breaks.
	arrival []string
}

func NewSequencer() *Sequencer {
	return &Sequencer{index: -1, answers: make(map[string]domain.AnswerRecord)}
}

// Load replaces the active list and rewinds to before the first question.
// Any invalid question is fatal: nothing is loaded and the error surfaces
// to the orchestrator.
func (s *Sequencer) Load(questions []domain.Question) error {
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	s.questions = questions
	s.index = -1
	s.open = false
	s.clearAnswers()
	return nil
}

func (s *Sequencer) Total() int { return len(s.questions) }

// Index is the current question position, -1 before the first question.
func (s *Sequencer) Index() int { return s.index }

// Current returns the question at the current index, if any.
func (s *Sequencer) Current() (domain.Question, bool) {
	if s.index < 0 || s.index >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.index], true
}

// Advance closes the current answer window and moves to the next question.
// It reports done when the list is exhausted; the returned question is only
// valid when done is false. Callers read Records before calling Advance:
// the answer collection is cleared here, ahead of the next activation.
func (s *Sequencer) Advance() (domain.Question, bool) {
	s.open = false
	s.clearAnswers()
	s.index++
	if s.index >= len(s.questions) {
		return domain.Question{}, true
	}
	return s.questions[s.index], false
}

// Activate opens the answer window for the current question.
func (s *Sequencer) Activate(now time.Time) {
	s.startedAt = now
	s.open = true
}

// Close shuts the answer window without advancing.
func (s *Sequencer) Close() {
	s.open = false
}

// StartedAt is the activation timestamp of the current question.
func (s *Sequencer) StartedAt() time.Time { return s.startedAt }

// OpenAnswer validates a submission against the active window and returns
// the submission latency. The record itself is stored by Store once the
// scoring engine has judged it.
func (s *Sequencer) OpenAnswer(connID string, index int, now time.Time, limit time.Duration) (time.Duration, error) {
	if !s.open {
		return 0, domain.ErrNoActiveQuestion
	}
	if index != s.index {
		return 0, domain.ErrStaleAnswer
	}
	if _, done := s.answers[connID]; done {
		return 0, domain.ErrDuplicateAnswer
	}
	latency := now.Sub(s.startedAt)
	if latency < 0 || latency > limit {
		return 0, domain.ErrLateAnswer
	}
	return latency, nil
}

// Store files the judged record for the active question.
func (s *Sequencer) Store(rec domain.AnswerRecord) {
	s.answers[rec.ConnID] = rec
	s.arrival = append(s.arrival, rec.ConnID)
}

// HasAnswered reports whether the connection already answered this question.
func (s *Sequencer) HasAnswered(connID string) bool {
	_, ok := s.answers[connID]
	return ok
}

// Records returns this question's answers in arrival order.
func (s *Sequencer) Records() []domain.AnswerRecord {
	out := make([]domain.AnswerRecord, 0, len(s.arrival))
	for _, id := range s.arrival {
		out = append(out, s.answers[id])
	}
	return out
}

func (s *Sequencer) clearAnswers() {
	s.answers = make(map[string]domain.AnswerRecord)
	s.arrival = nil
}
