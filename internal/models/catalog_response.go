package models

import "encoding/json"

// ModuleListItem represents a module in learner list responses
type ModuleListItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	Prerequisites []string `json:"prerequisites"`
	TotalLessons  int      `json:"totalLessons"`
	Duration      int      `json:"duration"` // minutes
	Percent       int      `json:"percent"`
	Completed     bool     `json:"completed"`
	Unlocked      bool     `json:"unlocked"`
}

// LessonListItem represents a lesson in module detail responses
type LessonListItem struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary,omitempty"`
	Duration  int    `json:"duration"`
	Completed bool   `json:"completed"`
	HasQuiz   bool   `json:"hasQuiz"`
}

// ModuleDetailResponse represents a module with its lessons and the learner's completion status
type ModuleDetailResponse struct {
	Module  ModuleListItem   `json:"module"`
	Lessons []LessonListItem `json:"lessons"`
}

// LessonDetailResponse represents a full lesson with navigation
type LessonDetailResponse struct {
	ID         string          `json:"id"`
	ModuleID   string          `json:"moduleId"`
	Title      string          `json:"title"`
	Summary    string          `json:"summary,omitempty"`
	Duration   int             `json:"duration"`
	Content    json.RawMessage `json:"content,omitempty"`
	Completed  bool            `json:"completed"`
	HasQuiz    bool            `json:"hasQuiz"`
	PrevLesson string          `json:"prevLesson,omitempty"`
	NextLesson string          `json:"nextLesson,omitempty"`
}
