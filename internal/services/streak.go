package services

import "time"

// UpdateStreak returns the streak after activity on the calendar day today.
//
// lastActive and today must both be calendar days (see models.CalendarDay), lastActive is nil
// when the learner has never been active.
//   - lastActive is the day before today: current + 1
//   - lastActive is today: current (already counted)
//   - anything else, including no prior activity: 1
func UpdateStreak(lastActive *time.Time, today time.Time, current int) int {
	if lastActive == nil {
		return 1
	}
	switch {
	case lastActive.Equal(today):
		if current < 1 {
			return 1
		}
		return current
	case lastActive.AddDate(0, 0, 1).Equal(today):
		return current + 1
	default:
		return 1
	}
}
