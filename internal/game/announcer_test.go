package game

import (
	"strings"
	"testing"

	"trivia-arena/internal/domain"
)

func commentaryTexts(lines []commentary) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text
	}
	return out
}

func containsText(lines []commentary, fragment string) bool {
	for _, l := range lines {
		if strings.Contains(l.text, fragment) {
			return true
		}
	}
	return false
}

func TestRoundCommentaryNobodyAnswered(t *testing.T) {
	lines := roundCommentary(roundFacts{roomSize: 2, questionNumber: 1, totalQuestions: 5})
	if !containsText(lines, "Nobody answered") {
		t.Fatalf("expected nobody-answered line, got %v", commentaryTexts(lines))
	}
}

func TestRoundCommentaryNobodyCorrect(t *testing.T) {
	lines := roundCommentary(roundFacts{
		records:        []domain.AnswerRecord{{ConnID: "c1", Correct: false}},
		names:          map[string]string{"c1": "Alice"},
		roomSize:       2,
		questionNumber: 1,
		totalQuestions: 5,
	})
	if !containsText(lines, "Nobody got it right") {
		t.Fatalf("expected nobody-correct line, got %v", commentaryTexts(lines))
	}
	if containsText(lines, "Fastest") {
		t.Error("no fastest line without a correct answer")
	}
}

func TestRoundCommentaryPerfectRound(t *testing.T) {
	lines := roundCommentary(roundFacts{
		records: []domain.AnswerRecord{
			{ConnID: "c1", Correct: true, LatencyMs: 4000},
			{ConnID: "c2", Correct: true, LatencyMs: 2000},
		},
		names:          map[string]string{"c1": "Alice", "c2": "Bob"},
		roomSize:       2,
		questionNumber: 1,
		totalQuestions: 5,
	})
	if !containsText(lines, "Perfect round") {
		t.Fatalf("expected perfect round, got %v", commentaryTexts(lines))
	}
	if !containsText(lines, "Fastest correct answer: Bob") {
		t.Fatalf("expected Bob as fastest, got %v", commentaryTexts(lines))
	}
}

func TestRoundCommentaryCountsCorrect(t *testing.T) {
	lines := roundCommentary(roundFacts{
		records: []domain.AnswerRecord{
			{ConnID: "c1", Correct: true, LatencyMs: 1000},
			{ConnID: "c2", Correct: false, LatencyMs: 2000},
		},
		names:          map[string]string{"c1": "Alice", "c2": "Bob"},
		roomSize:       3,
		questionNumber: 1,
		totalQuestions: 5,
	})
	if !containsText(lines, "1 answered correctly") {
		t.Fatalf("expected correct count, got %v", commentaryTexts(lines))
	}
}

func TestRoundCommentaryFastestTieKeepsFirstSeen(t *testing.T) {
	lines := roundCommentary(roundFacts{
		records: []domain.AnswerRecord{
			{ConnID: "c1", Correct: true, LatencyMs: 2000},
			{ConnID: "c2", Correct: true, LatencyMs: 2000},
		},
		names:          map[string]string{"c1": "Alice", "c2": "Bob"},
		roomSize:       2,
		questionNumber: 2,
		totalQuestions: 5,
	})
	if !containsText(lines, "Fastest correct answer: Alice") {
		t.Fatalf("expected first-seen Alice on a tie, got %v", commentaryTexts(lines))
	}
}

func TestRoundCommentaryStreakMilestone(t *testing.T) {
	odd := roundCommentary(roundFacts{maxCombo: 5, roomSize: 1, questionNumber: 1, totalQuestions: 5})
	if !containsText(odd, "5-answer streak") {
		t.Fatalf("expected streak line for odd combo >=3, got %v", commentaryTexts(odd))
	}

	even := roundCommentary(roundFacts{maxCombo: 4, roomSize: 1, questionNumber: 1, totalQuestions: 5})
	if containsText(even, "streak") {
		t.Fatalf("even combos have no streak line, got %v", commentaryTexts(even))
	}
}

func TestRoundCommentaryLeaderCadence(t *testing.T) {
	leader := &domain.Player{Name: "Alice", Score: 3000}

	third := roundCommentary(roundFacts{leader: leader, roomSize: 2, questionNumber: 3, totalQuestions: 5})
	if !containsText(third, "Alice leads") {
		t.Fatalf("expected leader line on every third question, got %v", commentaryTexts(third))
	}

	final := roundCommentary(roundFacts{leader: leader, roomSize: 2, questionNumber: 5, totalQuestions: 5})
	if !containsText(final, "Alice leads") {
		t.Fatalf("expected leader line on the final question, got %v", commentaryTexts(final))
	}

	fourth := roundCommentary(roundFacts{leader: leader, roomSize: 2, questionNumber: 4, totalQuestions: 5})
	if containsText(fourth, "leads") {
		t.Fatalf("no leader line off-cadence, got %v", commentaryTexts(fourth))
	}
}
