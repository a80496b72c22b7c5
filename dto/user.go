package dto

import (
	"time"

	"github.com/JuniorCarti/aws-restart-tracker-api/catalog"
)

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"omitempty,max=50"`
	PhotoURL    string `json:"photo_url" validate:"omitempty,url"`
}

func (r UpdateProfileRequest) Validate() error {
	return GetValidator().Struct(r)
}

type UserProfileResponse struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
	LastLoginAt time.Time `json:"last_login_at"`
}

type UserStatsResponse struct {
	CompletedCount int               `json:"completed_count"`
	TotalModules   int               `json:"total_modules"`
	LastActive     time.Time         `json:"last_active"`
	JoinedDate     time.Time         `json:"joined_date"`
	UserStats      catalog.UserStats `json:"user_stats"`
}

// ProfileOverride carries profile fields that take precedence over the stored
// user record when projecting a leaderboard entry.
type ProfileOverride struct {
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}
