package domain

import "fmt"

// ResourceKind names a per-subject currency earned alongside score and XP.
type ResourceKind string

const (
	ResourceAbacus ResourceKind = "abacus"
	ResourceBeaker ResourceKind = "beaker"
	ResourceScroll ResourceKind = "scroll"
	ResourceGlobe  ResourceKind = "globe"
	ResourceBook   ResourceKind = "book"
)

var subjectResources = map[string]ResourceKind{
	"math":      ResourceAbacus,
	"science":   ResourceBeaker,
	"history":   ResourceScroll,
	"geography": ResourceGlobe,
	"english":   ResourceBook,
}

// ResourceForSubject maps a question subject to the resource it awards.
// Unmapped subjects award nothing.
func ResourceForSubject(subject string) (ResourceKind, bool) {
	kind, ok := subjectResources[subject]
	return kind, ok
}

// Question is one multiple-choice question served during a tournament.
// The active question list is immutable for the duration of one run.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct string   `json:"correctAnswer"`
	Grade   string   `json:"grade"`
	Subject string   `json:"subject"`
}

// Validate reports whether the question carries every field sequencing needs.
// A failing question aborts the tournament run that loaded it.
func (q Question) Validate() error {
	switch {
	case q.Text == "":
		return fmt.Errorf("question %q: %w: missing text", q.ID, ErrInvalidQuestion)
	case len(q.Options) < 2:
		return fmt.Errorf("question %q: %w: needs at least two options", q.ID, ErrInvalidQuestion)
	case q.Grade == "":
		return fmt.Errorf("question %q: %w: missing grade", q.ID, ErrInvalidQuestion)
	case q.Subject == "":
		return fmt.Errorf("question %q: %w: missing subject", q.ID, ErrInvalidQuestion)
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return fmt.Errorf("question %q: %w: duplicate option %q", q.ID, ErrInvalidQuestion, opt)
		}
		seen[opt] = struct{}{}
	}
	if _, ok := seen[q.Correct]; !ok {
		return fmt.Errorf("question %q: %w: correct answer not among options", q.ID, ErrInvalidQuestion)
	}
	return nil
}

// TournamentStats are the per-tournament accumulators of one player.
// FastestCorrectMs is -1 until the player answers something correctly.
type TournamentStats struct {
	XPEarned           int                  `json:"xpEarned"`
	Resources          map[ResourceKind]int `json:"resources"`
	MaxCombo           int                  `json:"maxCombo"`
	FastestCorrectMs   int64                `json:"fastestCorrectMs"`
	MaxDifficultyBonus int                  `json:"maxDifficultyBonus"`
	CorrectAnswers     int                  `json:"correctAnswers"`
	TotalAnswers       int                  `json:"totalAnswers"`
}

// NewTournamentStats returns zeroed accumulators.
func NewTournamentStats() TournamentStats {
	return TournamentStats{
		Resources:        make(map[ResourceKind]int),
		FastestCorrectMs: -1,
	}
}

// HasRewards reports whether settlement has anything to credit.
func (s TournamentStats) HasRewards() bool {
	if s.XPEarned > 0 {
		return true
	}
	for _, n := range s.Resources {
		if n > 0 {
			return true
		}
	}
	return false
}

// Player is one connected participant, keyed by connection identity.
type Player struct {
	ConnID string
	UserID string
	Name   string
	Grade  string

	Score int
	Combo int
	Ready bool

	Stats TournamentStats
}

// AnswerRecord is the transient per-player record for the active question.
// The collection is cleared before every question activation.
type AnswerRecord struct {
	ConnID    string
	Value     string
	LatencyMs int64
	Correct   bool
}
