package model

import "time"

// LeaderboardEntry is the denormalized ranking record, one per user that has
// synced stats at least once. Rank is never stored; it is the position in a
// query ordered by (total_points desc, last_active desc).
type LeaderboardEntry struct {
	UID                     string    `json:"uid" gorm:"primaryKey"`
	DisplayName             string    `json:"display_name" gorm:"not null"`
	Email                   string    `json:"email"`
	PhotoURL                string    `json:"photo_url"`
	TotalPoints             int       `json:"total_points" gorm:"not null;index:idx_leaderboard_order,priority:1,sort:desc"`
	CompletedModules        int       `json:"completed_modules" gorm:"not null"`
	CompletedKCs            int       `json:"completed_kcs" gorm:"not null"`
	CompletedLabs           int       `json:"completed_labs" gorm:"not null"`
	CompletedExitTickets    int       `json:"completed_exit_tickets" gorm:"not null"`
	CompletedDemonstrations int       `json:"completed_demonstrations" gorm:"not null"`
	CompletedActivities     int       `json:"completed_activities" gorm:"not null"`
	LastActive              time.Time `json:"last_active" gorm:"not null;index:idx_leaderboard_order,priority:2,sort:desc"`
	UpdatedAt               time.Time `json:"updated_at" gorm:"not null"`
}
