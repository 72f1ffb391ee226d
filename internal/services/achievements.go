package services

import (
	"github.com/appcurriculum/backend/internal/models"
)

// AchievementEvaluation is the result of evaluating achievements against a progress snapshot
type AchievementEvaluation struct {
	// Earned holds the achievements whose threshold is reached by the snapshot
	Earned models.IDSet
	// ProgressByAchievement maps achievement IDs to min(100, round(100 * value / requirement))
	ProgressByAchievement map[string]int
}

// EvaluateAchievements computes which achievements the progress snapshot reaches.
//
// The result only reflects the snapshot. Achievements earned earlier stay earned,
// which callers guarantee by merging Earned into the append-only LearnerProgress.Achievements.
func EvaluateAchievements(progress *models.LearnerProgress, catalog *models.Catalog, defs []models.Achievement) AchievementEvaluation {
	eval := AchievementEvaluation{
		Earned:                models.IDSet{},
		ProgressByAchievement: make(map[string]int, len(defs)),
	}

	completedModules := -1 // computed lazily, it walks the whole catalog
	for _, def := range defs {
		var value int
		switch def.Category {
		case models.AchievementCategoryProgress:
			value = progress.CompletedLessons.Len()
		case models.AchievementCategoryStreak:
			value = progress.Streak
		case models.AchievementCategoryTime:
			value = progress.TotalTimeSpent
		case models.AchievementCategoryCompletion:
			if completedModules < 0 {
				completedModules = CompletedModules(catalog, progress.CompletedLessons).Len()
			}
			value = completedModules
		default:
			continue
		}

		eval.ProgressByAchievement[def.ID] = achievementPercent(value, def.Requirement)
		if value >= def.Requirement {
			eval.Earned.Add(def.ID)
		}
	}

	return eval
}

// AchievementStatuses merges the evaluation with the learner's stored achievements.
// A stored achievement is reported as earned at 100% even if the current value fell below its threshold.
func AchievementStatuses(defs []models.Achievement, eval AchievementEvaluation, stored models.IDSet) []models.AchievementStatus {
	statuses := make([]models.AchievementStatus, 0, len(defs))
	for _, def := range defs {
		status := models.AchievementStatus{
			Achievement: def,
			Progress:    eval.ProgressByAchievement[def.ID],
			Earned:      eval.Earned.Has(def.ID) || stored.Has(def.ID),
		}
		if status.Earned {
			status.Progress = 100
		}
		statuses = append(statuses, status)
	}
	return statuses
}

func achievementPercent(value, requirement int) int {
	if requirement <= 0 {
		return 100
	}
	p := percent(value, requirement)
	if p > 100 {
		return 100
	}
	if p < 0 {
		return 0
	}
	return p
}
