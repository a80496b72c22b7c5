package catalog

// Points holds the per-type completion weights.
type Points struct {
	KnowledgeChecks int `json:"knowledge_checks"`
	Labs            int `json:"labs"`
	ExitTickets     int `json:"exit_tickets"`
	Demonstrations  int `json:"demonstrations"`
	Activities      int `json:"activities"`
}

// PointsSystem is the scoring configuration. Knowledge checks and exit
// tickets are graded checkpoints and weigh double.
var PointsSystem = Points{
	KnowledgeChecks: 2,
	Labs:            1,
	ExitTickets:     2,
	Demonstrations:  1,
	Activities:      1,
}

// TypeStats counts completed modules per type flag. Total counts distinct
// completed modules; a module with two flags is counted once in Total but
// once per matching flag.
type TypeStats struct {
	KnowledgeChecks int `json:"knowledge_checks"`
	Labs            int `json:"labs"`
	ExitTickets     int `json:"exit_tickets"`
	Demonstrations  int `json:"demonstrations"`
	Activities      int `json:"activities"`
	Total           int `json:"total"`
}

// UserStats is the derived scoring snapshot cached on the user document and
// denormalized into the leaderboard.
type UserStats struct {
	TotalPoints             int `json:"total_points"`
	CompletedModules        int `json:"completed_modules"`
	CompletedKCs            int `json:"completed_kcs"`
	CompletedLabs           int `json:"completed_labs"`
	CompletedExitTickets    int `json:"completed_exit_tickets"`
	CompletedDemonstrations int `json:"completed_demonstrations"`
	CompletedActivities     int `json:"completed_activities"`
}

// PointsBreakdown is the per-type points detail, unsummed.
type PointsBreakdown struct {
	KCPoints         int `json:"kc_points"`
	LabPoints        int `json:"lab_points"`
	ExitTicketPoints int `json:"exit_ticket_points"`
	DemoPoints       int `json:"demo_points"`
	ActivityPoints   int `json:"activity_points"`
}

// CategoryProgress summarizes one category. Percentage is an unrounded float
// in [0, 100]; rounding is a presentation concern.
type CategoryProgress struct {
	Completed  int       `json:"completed"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	Types      TypeStats `json:"type_breakdown"`
}

// TotalCompleted counts true entries in the map, independent of any catalog.
// Callers using it standalone must ensure no stale ids linger in the map.
func TotalCompleted(progress ProgressMap) int {
	count := 0
	for _, completed := range progress {
		if completed {
			count++
		}
	}
	return count
}

// OverallProgress is the completed fraction in [0, 1]. Zero on an empty
// catalog.
func OverallProgress(modules []Module, progress ProgressMap) float64 {
	if len(modules) == 0 {
		return 0
	}
	return float64(TotalCompleted(progress)) / float64(len(modules))
}

// CategoryStats maps every category in the catalog to its completed count,
// including zero counts.
func CategoryStats(modules []Module, progress ProgressMap) map[string]int {
	stats := make(map[string]int)
	for _, m := range modules {
		if _, ok := stats[m.Category]; !ok {
			stats[m.Category] = 0
		}
		if progress[m.ID] {
			stats[m.Category]++
		}
	}
	return stats
}

// ModuleTypeStats counts completed modules per type flag over the catalog.
func ModuleTypeStats(modules []Module, progress ProgressMap) TypeStats {
	var stats TypeStats
	for _, m := range modules {
		if !progress[m.ID] {
			continue
		}
		stats.Total++
		if m.IsKC {
			stats.KnowledgeChecks++
		}
		if m.IsLab {
			stats.Labs++
		}
		if m.IsExitTicket {
			stats.ExitTickets++
		}
		if m.IsDemonstration {
			stats.Demonstrations++
		}
		if m.IsActivity {
			stats.Activities++
		}
	}
	return stats
}

// ProgressByCategory computes the per-category completion summary.
func ProgressByCategory(modules []Module, progress ProgressMap) map[string]CategoryProgress {
	byCategory := make(map[string][]Module)
	for _, m := range modules {
		byCategory[m.Category] = append(byCategory[m.Category], m)
	}

	result := make(map[string]CategoryProgress, len(byCategory))
	for category, categoryModules := range byCategory {
		completed := 0
		for _, m := range categoryModules {
			if progress[m.ID] {
				completed++
			}
		}

		percentage := 0.0
		if len(categoryModules) > 0 {
			percentage = float64(completed) / float64(len(categoryModules)) * 100
		}

		result[category] = CategoryProgress{
			Completed:  completed,
			Total:      len(categoryModules),
			Percentage: percentage,
			Types:      ModuleTypeStats(categoryModules, progress),
		}
	}
	return result
}

// CalculateUserPoints derives the scoring snapshot. CompletedModules counts
// distinct completed modules, not the sum of per-type counts.
func CalculateUserPoints(modules []Module, progress ProgressMap) UserStats {
	typeStats := ModuleTypeStats(modules, progress)

	totalPoints := typeStats.KnowledgeChecks*PointsSystem.KnowledgeChecks +
		typeStats.Labs*PointsSystem.Labs +
		typeStats.ExitTickets*PointsSystem.ExitTickets +
		typeStats.Demonstrations*PointsSystem.Demonstrations +
		typeStats.Activities*PointsSystem.Activities

	return UserStats{
		TotalPoints:             totalPoints,
		CompletedModules:        typeStats.Total,
		CompletedKCs:            typeStats.KnowledgeChecks,
		CompletedLabs:           typeStats.Labs,
		CompletedExitTickets:    typeStats.ExitTickets,
		CompletedDemonstrations: typeStats.Demonstrations,
		CompletedActivities:     typeStats.Activities,
	}
}

// CalculatePointsBreakdown returns the per-type points without summation.
func CalculatePointsBreakdown(modules []Module, progress ProgressMap) PointsBreakdown {
	typeStats := ModuleTypeStats(modules, progress)
	return PointsBreakdown{
		KCPoints:         typeStats.KnowledgeChecks * PointsSystem.KnowledgeChecks,
		LabPoints:        typeStats.Labs * PointsSystem.Labs,
		ExitTicketPoints: typeStats.ExitTickets * PointsSystem.ExitTickets,
		DemoPoints:       typeStats.Demonstrations * PointsSystem.Demonstrations,
		ActivityPoints:   typeStats.Activities * PointsSystem.Activities,
	}
}

// TotalPossiblePoints sums the weight of every flag across the catalog. A
// module with two flags contributes both weights, matching the convention
// CalculateUserPoints uses for completions.
func TotalPossiblePoints(modules []Module) int {
	total := 0
	for _, m := range modules {
		if m.IsKC {
			total += PointsSystem.KnowledgeChecks
		}
		if m.IsLab {
			total += PointsSystem.Labs
		}
		if m.IsExitTicket {
			total += PointsSystem.ExitTickets
		}
		if m.IsDemonstration {
			total += PointsSystem.Demonstrations
		}
		if m.IsActivity {
			total += PointsSystem.Activities
		}
	}
	return total
}
