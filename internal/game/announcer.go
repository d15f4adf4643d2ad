package game

import (
	"fmt"

	"trivia-arena/internal/domain"
)

// Announcer message categories.
const (
	CategorySystem  = "system"
	CategorySummary = "summary"
	CategoryStreak  = "streak"
	CategoryLeader  = "leader"
)

// commentary is one announcer line before the session stamps id/timestamp.
type commentary struct {
	text     string
	category string
}

// roundFacts is everything the announcer derives commentary from after a
// question's answer window closes.
type roundFacts struct {
	records        []domain.AnswerRecord // arrival order
	names          map[string]string     // connID -> display name
	roomSize       int
	maxCombo       int
	leader         *domain.Player
	questionNumber int // 1-based
	totalQuestions int
}

// roundCommentary turns the closed round into flavor broadcasts. These are
// advisory only: scoring never depends on them.
func roundCommentary(f roundFacts) []commentary {
	var out []commentary

	correct := 0
	for _, rec := range f.records {
		if rec.Correct {
			correct++
		}
	}

	switch {
	case len(f.records) == 0:
		out = append(out, commentary{"Nobody answered that one!", CategorySummary})
	case correct == 0:
		out = append(out, commentary{"Nobody got it right this time.", CategorySummary})
	case correct == len(f.records) && len(f.records) == f.roomSize && f.roomSize > 1:
		out = append(out, commentary{"Perfect round! Everyone answered correctly!", CategorySummary})
	default:
		out = append(out, commentary{fmt.Sprintf("%d answered correctly.", correct), CategorySummary})
	}

	if fastest, ok := fastestCorrect(f.records); ok {
		name := f.names[fastest.ConnID]
		out = append(out, commentary{
			fmt.Sprintf("Fastest correct answer: %s in %.1fs!", name, float64(fastest.LatencyMs)/1000),
			CategorySummary,
		})
	}

	if f.maxCombo >= 3 && f.maxCombo%2 == 1 {
		out = append(out, commentary{
			fmt.Sprintf("A %d-answer streak is on the board!", f.maxCombo),
			CategoryStreak,
		})
	}

	if f.leader != nil && (f.questionNumber%3 == 0 || f.questionNumber == f.totalQuestions) {
		out = append(out, commentary{
			fmt.Sprintf("%s leads with %d points!", f.leader.Name, f.leader.Score),
			CategoryLeader,
		})
	}

	return out
}

// fastestCorrect picks the correct answer with the lowest latency. Records
// arrive in submission order, so ties keep the first seen.
func fastestCorrect(records []domain.AnswerRecord) (domain.AnswerRecord, bool) {
	var best domain.AnswerRecord
	found := false
	for _, rec := range records {
		if !rec.Correct {
			continue
		}
		if !found || rec.LatencyMs < best.LatencyMs {
			best = rec
			found = true
		}
	}
	return best, found
}
