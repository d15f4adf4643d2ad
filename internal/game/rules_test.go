package game

import (
	"math"
	"testing"
	"time"

	"trivia-arena/internal/domain"
)

func testQuestion(grade string) domain.Question {
	return domain.Question{
		ID:      "q1",
		Text:    "What is 2 + 2?",
		Options: []string{"3", "4"},
		Correct: "4",
		Grade:   grade,
		Subject: "math",
	}
}

func TestScoreInstantCorrectAnswer(t *testing.T) {
	rules := DefaultRules()
	player := &domain.Player{Grade: "4"}

	score := rules.Score(player, testQuestion("4"), "4", 0)

	if !score.Correct {
		t.Fatal("expected correct")
	}
	if score.Points != 1500 {
		t.Errorf("expected 1500 points (base 1000 + time 500), got %d", score.Points)
	}
	if score.DifficultyBonus != 0 {
		t.Errorf("grade gap 0 should give no difficulty bonus, got %d", score.DifficultyBonus)
	}
	if !score.HasGradeGap || score.GradeGap != 0 {
		t.Errorf("expected known grade gap 0, got %d (%v)", score.GradeGap, score.HasGradeGap)
	}
	if score.ComboAfter != 1 {
		t.Errorf("expected combo 1, got %d", score.ComboAfter)
	}
}

func TestScoreWrongAnswer(t *testing.T) {
	rules := DefaultRules()
	player := &domain.Player{Grade: "4", Combo: 2}

	score := rules.Score(player, testQuestion("4"), "3", time.Second)

	if score.Correct || score.Points != 0 {
		t.Fatalf("wrong answer must award nothing, got %+v", score)
	}
	if score.ComboAfter != 0 || !score.ComboBroken {
		t.Errorf("expected broken combo, got after=%d broken=%v", score.ComboAfter, score.ComboBroken)
	}
	if score.BonusResource() {
		t.Error("wrong answer must not earn a bonus resource")
	}
}

func TestScoreComboBonus(t *testing.T) {
	rules := DefaultRules()

	// Third consecutive correct answer: bonus = min(300, 2*50).
	player := &domain.Player{Grade: "4", Combo: 2}
	score := rules.Score(player, testQuestion("4"), "4", 0)
	if score.ComboBonus != 100 {
		t.Errorf("expected combo bonus 100, got %d", score.ComboBonus)
	}
	if score.Points != 1600 {
		t.Errorf("expected 1600 points, got %d", score.Points)
	}

	// Deep streak hits the cap.
	player = &domain.Player{Grade: "4", Combo: 20}
	score = rules.Score(player, testQuestion("4"), "4", 0)
	if score.ComboBonus != rules.MaxComboBonus {
		t.Errorf("expected combo bonus capped at %d, got %d", rules.MaxComboBonus, score.ComboBonus)
	}
}

func TestScoreDifficultyAdjustment(t *testing.T) {
	rules := DefaultRules()

	// Question two grades above the player: multiplier 1.2.
	player := &domain.Player{Grade: "3"}
	score := rules.Score(player, testQuestion("5"), "4", rules.QuestionTimeLimit)
	if score.DifficultyBonus != 200 {
		t.Errorf("expected difficulty bonus 200, got %d", score.DifficultyBonus)
	}
	if score.Points != 1200 {
		t.Errorf("expected 1200 points at full latency, got %d", score.Points)
	}
	if !score.BonusResource() {
		t.Error("difficulty bonus should earn the extra resource")
	}

	// Far above: clamped at 1.5x.
	score = rules.Score(&domain.Player{Grade: "1"}, testQuestion("12"), "4", rules.QuestionTimeLimit)
	if score.DifficultyBonus != 500 {
		t.Errorf("expected clamped difficulty bonus 500, got %d", score.DifficultyBonus)
	}

	// Far below: clamped at 0.5x, never a negative bonus.
	score = rules.Score(&domain.Player{Grade: "12"}, testQuestion("1"), "4", rules.QuestionTimeLimit)
	if score.DifficultyBonus != 0 {
		t.Errorf("expected no bonus below base, got %d", score.DifficultyBonus)
	}
	if score.Points != 500 {
		t.Errorf("expected 500 points at 0.5x, got %d", score.Points)
	}
}

func TestScoreUnknownGrade(t *testing.T) {
	rules := DefaultRules()

	score := rules.Score(&domain.Player{Grade: "unknown"}, testQuestion("5"), "4", rules.QuestionTimeLimit)
	if score.HasGradeGap {
		t.Error("unknown player grade must not produce a grade gap")
	}
	if score.DifficultyBonus != 0 || score.Points != rules.BaseScore {
		t.Errorf("unknown grade should score plain base, got %+v", score)
	}
}

func TestScoreBounds(t *testing.T) {
	rules := DefaultRules()
	lower := int(math.Round(float64(rules.BaseScore) * rules.MinMultiplier))
	upper := int(math.Round(float64(rules.BaseScore)*rules.MaxMultiplier)) + rules.MaxTimeBonus + rules.MaxComboBonus

	grades := []string{"", "pre-school", "1", "5", "9", "12", "abc"}
	latencies := []time.Duration{0, time.Second, 10 * time.Second, rules.QuestionTimeLimit}
	combos := []int{0, 1, 4, 9, 30}

	for _, pg := range grades {
		for _, qg := range []string{"1", "6", "12"} {
			for _, latency := range latencies {
				for _, combo := range combos {
					player := &domain.Player{Grade: pg, Combo: combo}
					score := rules.Score(player, testQuestion(qg), "4", latency)
					if score.Points < lower || score.Points > upper {
						t.Fatalf("points %d out of [%d, %d] for grade=%q question=%q latency=%v combo=%d",
							score.Points, lower, upper, pg, qg, latency, combo)
					}
				}
			}
		}
	}
}
