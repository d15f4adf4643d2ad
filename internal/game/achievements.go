package game

import "trivia-arena/internal/domain"

// Achievement labels shown on the final results screen.
const (
	AchievementWinner       = "Winner"
	AchievementPodium       = "Podium Finish"
	AchievementComboMaster  = "Combo Master"
	AchievementComboStreak  = "Combo Streak"
	AchievementSuperSonic   = "Super Sonic"
	AchievementQuickReflex  = "Quick Reflex"
	AchievementGiantSlayer  = "Giant Slayer"
	AchievementSharpMind    = "Sharp Mind"
	AchievementGoodAccuracy = "Good Accuracy"
	AchievementParticipant  = "Participant"
)

// achievementsFor derives the achievement set for one player from their
// accumulated stats and final rank. rank is 1-based.
func (r Rules) achievementsFor(stats domain.TournamentStats, rank, playerCount, totalQuestions int) []string {
	var out []string

	if rank == 1 && playerCount > 1 {
		out = append(out, AchievementWinner)
	}
	if rank <= 3 && playerCount >= 3 {
		out = append(out, AchievementPodium)
	}

	switch {
	case stats.MaxCombo >= 5:
		out = append(out, AchievementComboMaster)
	case stats.MaxCombo >= 3:
		out = append(out, AchievementComboStreak)
	}

	if stats.FastestCorrectMs >= 0 {
		switch {
		case stats.FastestCorrectMs <= 3000:
			out = append(out, AchievementSuperSonic)
		case stats.FastestCorrectMs <= 7000:
			out = append(out, AchievementQuickReflex)
		}
	}

	if stats.MaxDifficultyBonus*10 > r.BaseScore*3 {
		out = append(out, AchievementGiantSlayer)
	}

	if totalQuestions > 0 && stats.TotalAnswers > 0 {
		accuracy := float64(stats.CorrectAnswers) / float64(stats.TotalAnswers)
		answered := float64(stats.TotalAnswers) / float64(totalQuestions)
		switch {
		case accuracy >= 0.9 && answered >= 0.8:
			out = append(out, AchievementSharpMind)
		case accuracy >= 0.7 && answered >= 0.6:
			out = append(out, AchievementGoodAccuracy)
		}
	}

	return append(out, AchievementParticipant)
}
