package models

// QuizQuestion is a single choice question attached to a lesson
type QuizQuestion struct {
	ID            string   `json:"id" yaml:"id"`
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Options       []string `json:"options" yaml:"options"`
	CorrectOption int      `json:"-" yaml:"correct"` // index into Options
}

// QuizResponse is a lesson quiz as shown to the learner (without answers)
type QuizResponse struct {
	LessonID  string         `json:"lessonId"`
	Questions []QuizQuestion `json:"questions"`
}

// SubmitQuizRequest maps question IDs to the chosen option index
type SubmitQuizRequest struct {
	Answers map[string]int `json:"answers" validate:"required,min=1,dive,gte=0"`
}

// SubmitQuizResponse is the result of a quiz submission
type SubmitQuizResponse struct {
	CorrectCount int  `json:"correctCount"`
	Total        int  `json:"total"`
	Passed       bool `json:"passed"`
	// Completion is set only when the quiz was passed
	Completion *CompleteLessonResponse `json:"completion,omitempty"`
}
