package models

import "time"

// LearnerProgress is the progress state of a single learner.
//
// Module percentages are not stored here: they are derived from CompletedLessons
// and the catalog every time they are read.
type LearnerProgress struct {
	UserID           int        `json:"userId"`
	CompletedLessons IDSet      `json:"completedLessons"`
	TotalTimeSpent   int        `json:"totalTimeSpent"` // minutes, never decreases
	Streak           int        `json:"streak"`
	LastActive       *time.Time `json:"lastActive,omitempty"` // calendar day, see CalendarDay
	LastAccessed     *time.Time `json:"lastAccessed,omitempty"`
	Achievements     IDSet      `json:"achievements"` // append-only
}

// NewLearnerProgress creates an empty progress for the user
func NewLearnerProgress(userID int) *LearnerProgress {
	return &LearnerProgress{
		UserID:           userID,
		CompletedLessons: IDSet{},
		Achievements:     IDSet{},
	}
}

// Clone returns a deep copy of the progress
func (p *LearnerProgress) Clone() *LearnerProgress {
	c := *p
	c.CompletedLessons = p.CompletedLessons.Clone()
	c.Achievements = p.Achievements.Clone()
	if p.LastActive != nil {
		t := *p.LastActive
		c.LastActive = &t
	}
	if p.LastAccessed != nil {
		t := *p.LastAccessed
		c.LastAccessed = &t
	}
	return &c
}

// Normalize replaces nil sets with empty ones
func (p *LearnerProgress) Normalize() {
	if p.CompletedLessons == nil {
		p.CompletedLessons = IDSet{}
	}
	if p.Achievements == nil {
		p.Achievements = IDSet{}
	}
}

// CalendarDay returns midnight UTC of the calendar day t falls on in loc.
// Two instants on the same local day map to the same value.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LessonCompletion is the persisted record of a completed lesson
type LessonCompletion struct {
	UserID       int       `json:"userId"`
	LessonID     string    `json:"lessonId"`
	ModuleID     string    `json:"moduleId"`
	CompletedAt  time.Time `json:"completedAt"`
	MinutesSpent int       `json:"minutesSpent"`
}

// ProgressSummary is the persisted aggregate progress of a learner
type ProgressSummary struct {
	UserID         int        `json:"userId"`
	TotalTimeSpent int        `json:"totalTimeSpent"`
	Streak         int        `json:"streak"`
	LastActive     *time.Time `json:"lastActive,omitempty"`
	LastAccessed   *time.Time `json:"lastAccessed,omitempty"`
}

// Summary extracts the aggregate part of the progress
func (p *LearnerProgress) Summary() ProgressSummary {
	return ProgressSummary{
		UserID:         p.UserID,
		TotalTimeSpent: p.TotalTimeSpent,
		Streak:         p.Streak,
		LastActive:     p.LastActive,
		LastAccessed:   p.LastAccessed,
	}
}

// EarnedAchievement is the persisted record of an earned achievement
type EarnedAchievement struct {
	UserID        int       `json:"userId"`
	AchievementID string    `json:"achievementId"`
	EarnedAt      time.Time `json:"earnedAt"`
}

// ModuleProgressItem is a module percentage in API responses
type ModuleProgressItem struct {
	ModuleID  string `json:"moduleId"`
	Percent   int    `json:"percent"`
	Completed bool   `json:"completed"`
	Unlocked  bool   `json:"unlocked"`
}

// ProgressResponse is the learner progress view returned by the API
type ProgressResponse struct {
	CompletedLessons []string             `json:"completedLessons"`
	ModuleProgress   []ModuleProgressItem `json:"moduleProgress"`
	TotalTimeSpent   int                  `json:"totalTimeSpent"`
	Streak           int                  `json:"streak"`
	LastActive       string               `json:"lastActive,omitempty"`
	Achievements     []string             `json:"achievements"`
}

// CompleteLessonRequest is the body of a lesson completion request
type CompleteLessonRequest struct {
	ModuleID     string `json:"moduleId" validate:"required,max=100"`
	MinutesSpent int    `json:"minutesSpent" validate:"gte=0,lte=1440"`
}

// CompleteLessonResponse is the result of a lesson completion request
type CompleteLessonResponse struct {
	// Recorded is false when the lesson was already completed or could not be found
	Recorded        bool              `json:"recorded"`
	Progress        *ProgressResponse `json:"progress"`
	NewAchievements []Achievement     `json:"newAchievements"`
	UnlockedModules []string          `json:"unlockedModules"`
}

// ActivityResponse is the result of recording learner activity
type ActivityResponse struct {
	Streak     int    `json:"streak"`
	LastActive string `json:"lastActive"`
}
