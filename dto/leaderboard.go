package dto

import "time"

type LeaderboardEntryResponse struct {
	UID                     string    `json:"uid"`
	DisplayName             string    `json:"display_name"`
	PhotoURL                string    `json:"photo_url,omitempty"`
	TotalPoints             int       `json:"total_points"`
	CompletedModules        int       `json:"completed_modules"`
	CompletedKCs            int       `json:"completed_kcs"`
	CompletedLabs           int       `json:"completed_labs"`
	CompletedExitTickets    int       `json:"completed_exit_tickets"`
	CompletedDemonstrations int       `json:"completed_demonstrations"`
	CompletedActivities     int       `json:"completed_activities"`
	Rank                    int       `json:"rank"`
	LastActive              time.Time `json:"last_active"`
}

type LeaderboardResponse struct {
	Entries    []LeaderboardEntryResponse `json:"entries"`
	TotalUsers int                        `json:"total_users"`
}

// EnhancedLeaderboardEntry adds the per-type point contributions used by the
// score detail display.
type EnhancedLeaderboardEntry struct {
	LeaderboardEntryResponse
	KCPoints         int `json:"kc_points"`
	LabPoints        int `json:"lab_points"`
	ExitTicketPoints int `json:"exit_ticket_points"`
	DemoPoints       int `json:"demo_points"`
	ActivityPoints   int `json:"activity_points"`
}

type EnhancedLeaderboardResponse struct {
	Entries []EnhancedLeaderboardEntry `json:"entries"`
}

type FilteredLeaderboardResponse struct {
	Entries    []LeaderboardEntryResponse `json:"entries"`
	TimeRange  string                     `json:"time_range"`
	TotalUsers int                        `json:"total_users"`
}

type LeaderboardStatsResponse struct {
	AveragePoints int `json:"average_points"`
	TopScore      int `json:"top_score"`
	ActiveUsers   int `json:"active_users"`
	TotalPoints   int `json:"total_points"`
}

// RankProgress measures how close the user is to the next rank up.
type RankProgress struct {
	CurrentRank    int     `json:"current_rank"`
	TotalUsers     int     `json:"total_users"`
	ProgressToNext float64 `json:"progress_to_next"`
	PointsToNext   int     `json:"points_to_next,omitempty"`
}

type UserRankResponse struct {
	// Nil when the user has no leaderboard entry yet; not an error.
	UserEntry          *LeaderboardEntryResponse  `json:"user_entry"`
	SurroundingEntries []LeaderboardEntryResponse `json:"surrounding_entries"`
	TotalUsers         int                        `json:"total_users"`
	RankProgress       *RankProgress              `json:"rank_progress,omitempty"`
}
