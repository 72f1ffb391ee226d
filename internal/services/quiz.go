package services

import "github.com/appcurriculum/backend/internal/models"

// QuizScore is the outcome of scoring quiz answers
type QuizScore struct {
	CorrectCount int
	Total        int
}

// Passed reports whether every question was answered correctly.
// Partial credit never passes, and an empty quiz cannot be passed.
func (s QuizScore) Passed() bool {
	return s.Total > 0 && s.CorrectCount == s.Total
}

// ScoreQuiz counts the questions whose chosen option is the correct one.
// answers maps question IDs to option indexes, unanswered questions count as wrong.
func ScoreQuiz(questions []models.QuizQuestion, answers map[string]int) QuizScore {
	score := QuizScore{Total: len(questions)}
	for _, q := range questions {
		if chosen, ok := answers[q.ID]; ok && chosen == q.CorrectOption {
			score.CorrectCount++
		}
	}
	return score
}
