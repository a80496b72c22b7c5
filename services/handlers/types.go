package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/JuniorCarti/aws-restart-tracker-api/catalog"
	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest, deviceID string) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	GetProfile(userID string) (*dto.UserProfileResponse, error)
	UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetUserStats(userID string) (*dto.UserStatsResponse, error)
}

type ProgressServiceInterface interface {
	Modules() []catalog.Module
	GetProgress(id shared.Identity) (catalog.ProgressMap, string, error)
	ToggleModule(id shared.Identity, moduleID int, completed bool) error
	ResetProgress(id shared.Identity) error
	Stats(id shared.Identity) (*dto.StatsResponse, error)
	CategoryProgress(id shared.Identity) (*dto.CategoryProgressResponse, error)
}

type LeaderboardServiceInterface interface {
	GetLeaderboard(limit int) (*dto.LeaderboardResponse, error)
	EnhancedLeaderboard(limit int) (*dto.EnhancedLeaderboardResponse, error)
	GetFilteredLeaderboard(timeRange string, limit int) (*dto.FilteredLeaderboardResponse, error)
	LeaderboardStats() (*dto.LeaderboardStatsResponse, error)
	GetUserRank(userID string, contextCount int) (*dto.UserRankResponse, error)
	TopPerformersByType(moduleType string, limit int) (*dto.LeaderboardResponse, error)
}

type OnboardingServiceInterface interface {
	GetConfig(deviceID string) dto.OnboardingConfig
	CompleteOnboarding(deviceID string) error
	ResetOnboarding(deviceID string) error
}

type MediaServiceInterface interface {
	UploadAvatar(userID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error)
}

// identity assembles the caller identity placed in locals by the auth and
// device middleware.
func identity(c *fiber.Ctx) shared.Identity {
	id := shared.Identity{}
	if userID, ok := c.Locals(shared.UserID).(string); ok {
		id.UserID = userID
	}
	if deviceID, ok := c.Locals(shared.DeviceID).(string); ok {
		id.DeviceID = deviceID
	}
	return id
}
