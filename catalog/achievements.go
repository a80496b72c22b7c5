package catalog

// Achievements derives the badge labels earned at fixed thresholds. Labels
// are independent of each other, so evaluation order does not matter.
func Achievements(stats UserStats) []string {
	var achievements []string

	if stats.CompletedKCs >= 10 {
		achievements = append(achievements, "KC Master")
	}
	if stats.CompletedLabs >= 5 {
		achievements = append(achievements, "Lab Expert")
	}
	if stats.TotalPoints >= 1000 {
		achievements = append(achievements, "Points Pioneer")
	}
	if stats.CompletedModules >= 50 {
		achievements = append(achievements, "Module Marathoner")
	}
	if stats.CompletedKCs >= 5 && stats.CompletedLabs >= 3 {
		achievements = append(achievements, "Balanced Learner")
	}

	return achievements
}
