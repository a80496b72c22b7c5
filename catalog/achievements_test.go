package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAchievementsEmptyStats(t *testing.T) {
	assert.Empty(t, Achievements(UserStats{}))
}

func TestAchievementsThresholds(t *testing.T) {
	assert.NotContains(t, Achievements(UserStats{CompletedKCs: 9}), "KC Master")
	assert.Contains(t, Achievements(UserStats{CompletedKCs: 10}), "KC Master")

	assert.NotContains(t, Achievements(UserStats{CompletedLabs: 4}), "Lab Expert")
	assert.Contains(t, Achievements(UserStats{CompletedLabs: 5}), "Lab Expert")

	assert.NotContains(t, Achievements(UserStats{TotalPoints: 999}), "Points Pioneer")
	assert.Contains(t, Achievements(UserStats{TotalPoints: 1000}), "Points Pioneer")

	assert.NotContains(t, Achievements(UserStats{CompletedModules: 49}), "Module Marathoner")
	assert.Contains(t, Achievements(UserStats{CompletedModules: 50}), "Module Marathoner")
}

func TestAchievementsBalancedLearnerNeedsBoth(t *testing.T) {
	assert.NotContains(t, Achievements(UserStats{CompletedKCs: 5, CompletedLabs: 2}), "Balanced Learner")
	assert.NotContains(t, Achievements(UserStats{CompletedKCs: 4, CompletedLabs: 3}), "Balanced Learner")
	assert.Contains(t, Achievements(UserStats{CompletedKCs: 5, CompletedLabs: 3}), "Balanced Learner")
}

func TestAchievementsStacking(t *testing.T) {
	stats := UserStats{
		TotalPoints:      1500,
		CompletedModules: 80,
		CompletedKCs:     20,
		CompletedLabs:    15,
	}
	assert.ElementsMatch(t, []string{
		"KC Master", "Lab Expert", "Points Pioneer", "Module Marathoner", "Balanced Learner",
	}, Achievements(stats))
}
