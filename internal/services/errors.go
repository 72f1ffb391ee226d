package services

import "errors"

var (
	// ErrModuleNotFound is returned when a module ID is not in the catalog
	ErrModuleNotFound = errors.New("module not found")
	// ErrLessonNotFound is returned when a lesson ID is not in the catalog
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrModuleLocked is returned when a learner accesses a module whose prerequisites are not completed
	ErrModuleLocked = errors.New("module is locked")
	// ErrQuizNotFound is returned when a lesson has no quiz
	ErrQuizNotFound = errors.New("quiz not found")
)
