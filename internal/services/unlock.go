package services

import (
	"math"

	"github.com/appcurriculum/backend/internal/models"
)

// UnknownModulesUnlocked is the policy applied by IsModuleUnlocked to module IDs missing from the catalog.
//
// Unknown modules are reported as unlocked so that catalog drift never blocks a learner.
// Callers that need to distinguish a missing module look it up in the catalog first.
const UnknownModulesUnlocked = true

// IsModuleUnlocked reports whether the module is accessible given the set of fully completed modules.
//
// A module without prerequisites is always unlocked. Otherwise every prerequisite must be in completedModules.
func IsModuleUnlocked(catalog *models.Catalog, moduleID string, completedModules models.IDSet) bool {
	module, ok := catalog.Module(moduleID)
	if !ok {
		return UnknownModulesUnlocked
	}
	for _, pre := range module.Prerequisites {
		if !completedModules.Has(pre) {
			return false
		}
	}
	return true
}

// ModulePercent returns round(100 * completed / total) for the module's lessons.
// A module without lessons is at 0.
func ModulePercent(module *models.Module, completedLessons models.IDSet) int {
	total := len(module.Lessons)
	if total == 0 {
		return 0
	}
	done := 0
	for i := range module.Lessons {
		if completedLessons.Has(module.Lessons[i].ID) {
			done++
		}
	}
	return percent(done, total)
}

// CompletedModules returns the IDs of modules whose progress is 100
func CompletedModules(catalog *models.Catalog, completedLessons models.IDSet) models.IDSet {
	completed := models.IDSet{}
	modules := catalog.Modules()
	for i := range modules {
		if ModulePercent(&modules[i], completedLessons) == 100 {
			completed.Add(modules[i].ID)
		}
	}
	return completed
}

// ModuleProgress returns the progress item of every catalog module in catalog order
func ModuleProgress(catalog *models.Catalog, completedLessons models.IDSet) []models.ModuleProgressItem {
	completedModules := CompletedModules(catalog, completedLessons)
	modules := catalog.Modules()
	items := make([]models.ModuleProgressItem, 0, len(modules))
	for i := range modules {
		m := &modules[i]
		items = append(items, models.ModuleProgressItem{
			ModuleID:  m.ID,
			Percent:   ModulePercent(m, completedLessons),
			Completed: completedModules.Has(m.ID),
			Unlocked:  IsModuleUnlocked(catalog, m.ID, completedModules),
		})
	}
	return items
}

// percent returns round(100 * part / whole), rounding halves up
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
