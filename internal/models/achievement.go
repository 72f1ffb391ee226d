package models

import "time"

// AchievementCategory decides which progress signal an achievement is measured against
type AchievementCategory string

const (
	// AchievementCategoryProgress counts completed lessons
	AchievementCategoryProgress AchievementCategory = "progress"
	// AchievementCategoryTime counts minutes spent
	AchievementCategoryTime AchievementCategory = "time"
	// AchievementCategoryStreak counts consecutive active days
	AchievementCategoryStreak AchievementCategory = "streak"
	// AchievementCategoryCompletion counts fully completed modules
	AchievementCategoryCompletion AchievementCategory = "completion"
)

// Achievement is the static definition of a badge
type Achievement struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    AchievementCategory `json:"category"`
	Requirement int                 `json:"requirement"`
}

// AchievementStatus is an achievement together with the learner's status for it
type AchievementStatus struct {
	Achievement
	Earned   bool       `json:"earned"`
	Progress int        `json:"progress"` // percent
	EarnedAt *time.Time `json:"earnedAt,omitempty"`
}

// DefaultAchievements is the built-in achievement list
var DefaultAchievements = []Achievement{
	{ID: "first-lesson", Title: "First Steps", Description: "Complete your first lesson", Category: AchievementCategoryProgress, Requirement: 1},
	{ID: "five-lessons", Title: "Getting Started", Description: "Complete 5 lessons", Category: AchievementCategoryProgress, Requirement: 5},
	{ID: "twenty-lessons", Title: "Dedicated Learner", Description: "Complete 20 lessons", Category: AchievementCategoryProgress, Requirement: 20},
	{ID: "first-module", Title: "Module Master", Description: "Complete your first module", Category: AchievementCategoryCompletion, Requirement: 1},
	{ID: "three-modules", Title: "Well Rounded", Description: "Complete 3 modules", Category: AchievementCategoryCompletion, Requirement: 3},
	{ID: "streak-3", Title: "On a Roll", Description: "Learn 3 days in a row", Category: AchievementCategoryStreak, Requirement: 3},
	{ID: "streak-7", Title: "Week Warrior", Description: "Learn 7 days in a row", Category: AchievementCategoryStreak, Requirement: 7},
	{ID: "hour-learned", Title: "Time Invested", Description: "Spend 60 minutes learning", Category: AchievementCategoryTime, Requirement: 60},
	{ID: "ten-hours-learned", Title: "Deep Diver", Description: "Spend 600 minutes learning", Category: AchievementCategoryTime, Requirement: 600},
}
