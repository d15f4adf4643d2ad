package game

import "trivia-arena/internal/domain"

// BuiltinQuestions is the static sample set used when the question source is
// unreachable or returns too few rows. Also handy for demos without a
// database behind the engine.
func BuiltinQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:      "builtin-1",
			Text:    "What is 7 x 8?",
			Options: []string{"54", "56", "63", "64"},
			Correct: "56",
			Grade:   "3",
			Subject: "math",
		},
		{
			ID:      "builtin-2",
			Text:    "Which planet is known as the Red Planet?",
			Options: []string{"Venus", "Jupiter", "Mars", "Saturn"},
			Correct: "Mars",
			Grade:   "4",
			Subject: "science",
		},
		{
			ID:      "builtin-3",
			Text:    "Who was the first president of the United States?",
			Options: []string{"Thomas Jefferson", "George Washington", "Abraham Lincoln", "John Adams"},
			Correct: "George Washington",
			Grade:   "4",
			Subject: "history",
		},
		{
			ID:      "builtin-4",
			Text:    "Which is the largest ocean on Earth?",
			Options: []string{"Atlantic", "Indian", "Arctic", "Pacific"},
			Correct: "Pacific",
			Grade:   "5",
			Subject: "geography",
		},
		{
			ID:      "builtin-5",
			Text:    "Which word is a noun?",
			Options: []string{"quickly", "mountain", "running", "bright"},
			Correct: "mountain",
			Grade:   "2",
			Subject: "english",
		},
	}
}
