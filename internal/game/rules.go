package game

import (
	"math"
	"time"

	"trivia-arena/internal/domain"
)

// Rules holds every tunable of one tournament: timing windows, scoring
// constants and the question sample size. Zero value is not usable; start
// from DefaultRules.
type Rules struct {
	QuestionsPerGame  int
	QuestionTimeLimit time.Duration
	// QuestionLeadIn staggers the question broadcast from the previous
	// round's summary broadcast.
	QuestionLeadIn time.Duration
	// StartDelay leaves room for the "starting" announcement between the
	// last ready toggle and the first question.
	StartDelay time.Duration
	// ResetDelay is how long final results stay up before state clears.
	ResetDelay time.Duration

	BaseScore           int
	MaxTimeBonus        int
	ComboBonusStep      int
	MaxComboBonus       int
	GradeFactor         float64
	MinMultiplier       float64
	MaxMultiplier       float64
	SignificantGradeGap int
	XPPerCorrect        int
}

// DefaultRules returns the production tuning.
func DefaultRules() Rules {
	return Rules{
		QuestionsPerGame:    5,
		QuestionTimeLimit:   15 * time.Second,
		QuestionLeadIn:      time.Second,
		StartDelay:          3 * time.Second,
		ResetDelay:          15 * time.Second,
		BaseScore:           1000,
		MaxTimeBonus:        500,
		ComboBonusStep:      50,
		MaxComboBonus:       300,
		GradeFactor:         0.10,
		MinMultiplier:       0.5,
		MaxMultiplier:       1.5,
		SignificantGradeGap: 3,
		XPPerCorrect:        10,
	}
}

// AnswerScore is the outcome of scoring one submission.
type AnswerScore struct {
	Correct         bool
	Points          int
	TimeBonus       int
	ComboBonus      int
	DifficultyBonus int
	ComboAfter      int
	ComboBroken     bool
	// GradeGap is question grade minus player grade; HasGradeGap is false
	// when either side is unknown.
	GradeGap    int
	HasGradeGap bool
}

// BonusResource reports whether the answer earns the extra resource unit on
// top of the base one for a correct answer.
func (s AnswerScore) BonusResource() bool {
	return s.Correct && (s.ComboBonus > 0 || s.DifficultyBonus > 0)
}

// Score computes points, time bonus, combo progression and difficulty
// adjustment for one submitted answer. Pure; malformed grades degrade to
// unknown instead of erroring.
func (r Rules) Score(player *domain.Player, question domain.Question, value string, latency time.Duration) AnswerScore {
	if value != question.Correct {
		return AnswerScore{
			Correct:     false,
			ComboAfter:  0,
			ComboBroken: player.Combo > 0,
		}
	}

	limit := r.QuestionTimeLimit
	ratio := float64(limit-latency) / float64(limit)
	if ratio < 0 {
		ratio = 0
	}
	timeBonus := int(math.Round(ratio * float64(r.MaxTimeBonus)))

	comboAfter := player.Combo + 1
	comboBonus := (comboAfter - 1) * r.ComboBonusStep
	if comboBonus < 0 {
		comboBonus = 0
	}
	if comboBonus > r.MaxComboBonus {
		comboBonus = r.MaxComboBonus
	}

	adjustedBase := float64(r.BaseScore)
	score := AnswerScore{
		Correct:    true,
		TimeBonus:  timeBonus,
		ComboBonus: comboBonus,
		ComboAfter: comboAfter,
	}

	playerGrade, playerKnown := domain.NormalizeGrade(player.Grade)
	questionGrade, questionKnown := domain.NormalizeGrade(question.Grade)
	if playerKnown && questionKnown {
		gap := questionGrade - playerGrade
		multiplier := 1 + float64(gap)*r.GradeFactor
		if multiplier < r.MinMultiplier {
			multiplier = r.MinMultiplier
		}
		if multiplier > r.MaxMultiplier {
			multiplier = r.MaxMultiplier
		}
		adjustedBase = float64(r.BaseScore) * multiplier
		if bonus := int(math.Round(adjustedBase - float64(r.BaseScore))); bonus > 0 {
			score.DifficultyBonus = bonus
		}
		score.GradeGap = gap
		score.HasGradeGap = true
	}

	score.Points = int(math.Round(adjustedBase + float64(timeBonus) + float64(comboBonus)))
	return score
}
