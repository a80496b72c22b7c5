package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/JuniorCarti/aws-restart-tracker-api/catalog"
	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/model"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

// AuthService owns signup, login and profile maintenance. Signup triggers the
// one-shot local-to-cloud progress migration; a migration failure is logged
// and the signup still succeeds.
type AuthService struct {
	context.DefaultService

	sqlSvc      *PostgresService
	jwtSvc      *JWTService
	progressSvc *ProgressService
	lbSvc       *LeaderboardService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.lbSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest, deviceID string) (*dto.RegisterResponse, error) {
	if _, err := svc.sqlSvc.GetUserByEmail(req.Email); err == nil {
		return nil, shared.ErrConflict("email already registered", nil)
	} else if appErr, ok := shared.GetAppError(err); ok && appErr.StatusCode != 404 {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userID, _ := uuid.NewV7()
	user := &model.User{
		ID:          userID.String(),
		Email:       req.Email,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
		LastLogin:   time.Now(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if _, err := svc.sqlSvc.CreateUser(user); err != nil {
		return nil, err
	}

	// Provision the cloud document with an empty progress map.
	if _, err := svc.sqlSvc.GetUserDocument(user.ID); err != nil {
		return nil, err
	}

	// Push any guest progress accumulated on this device. Must not abort the
	// signup.
	migrated, err := svc.progressSvc.MigrateLocalProgress(deviceID, user.ID)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id":   user.ID,
			"device_id": deviceID,
			"error":     err.Error(),
		}).Error("Progress migration failed during signup")
		migrated = false
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{
		UserID:                user.ID,
		Email:                 user.Email,
		DisplayName:           user.DisplayName,
		CreatedAt:             user.CreatedAt,
		Tokens:                *tokens,
		MigratedLocalProgress: migrated,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := svc.sqlSvc.GetUserByEmail(req.Email)
	if err != nil {
		return nil, shared.ErrUnauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, shared.ErrUnauthorized("invalid email or password")
	}

	user.LastLogin = time.Now()
	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		log.WithFields(log.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Warn("Failed to update last login")
	}

	svc.UpdateLastActive(user.ID)

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Tokens:      *tokens,
	}, nil
}

// UpdateLastActive refreshes the document activity timestamps. Non-critical;
// failures are swallowed after a log line.
func (svc *AuthService) UpdateLastActive(userID string) {
	if err := svc.sqlSvc.TouchUserDocument(userID); err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Failed to update last active")
	}
}

func (svc *AuthService) GetProfile(userID string) (*dto.UserProfileResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	return &dto.UserProfileResponse{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		JoinedAt:    user.CreatedAt,
		LastLoginAt: user.LastLogin,
	}, nil
}

// UpdateProfile persists profile fields and re-projects the leaderboard entry
// with the cached stats so the display name and photo stay in sync there.
func (svc *AuthService) UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}
	if req.PhotoURL != "" {
		user.PhotoURL = req.PhotoURL
	}

	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		return nil, err
	}

	stats, err := svc.cachedStats(userID)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Failed to load cached stats for leaderboard projection")
	} else if err := svc.lbSvc.UpdateEntry(userID, stats, &dto.ProfileOverride{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	}); err != nil {
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Leaderboard projection failed after profile update")
	}

	return &dto.UserProfileResponse{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		JoinedAt:    user.CreatedAt,
		LastLoginAt: user.LastLogin,
	}, nil
}

// cachedStats returns the stats snapshot stored alongside the progress
// document, recomputing from the raw progress map when the cache is missing
// or unreadable.
func (svc *AuthService) cachedStats(userID string) (catalog.UserStats, error) {
	doc, err := svc.sqlSvc.GetUserDocument(userID)
	if err != nil {
		return catalog.UserStats{}, err
	}

	if len(doc.UserStats) > 0 {
		var stats catalog.UserStats
		if err := json.Unmarshal(doc.UserStats, &stats); err == nil {
			return stats, nil
		}
	}

	var progress catalog.ProgressMap
	if err := json.Unmarshal(doc.Progress, &progress); err != nil {
		progress = catalog.ProgressMap{}
	}
	return catalog.CalculateUserPoints(svc.progressSvc.Modules(), progress), nil
}

// GetUserStats reads the cached snapshot from the document, recomputing from
// the progress map when the cache is absent (store-on-save, read-if-absent).
func (svc *AuthService) GetUserStats(userID string) (*dto.UserStatsResponse, error) {
	doc, err := svc.sqlSvc.GetUserDocument(userID)
	if err != nil {
		return nil, err
	}

	var progress catalog.ProgressMap
	if err := json.Unmarshal(doc.Progress, &progress); err != nil {
		progress = catalog.ProgressMap{}
	}

	var stats catalog.UserStats
	if len(doc.UserStats) > 0 {
		if err := json.Unmarshal(doc.UserStats, &stats); err != nil {
			stats = catalog.CalculateUserPoints(svc.progressSvc.Modules(), progress)
		}
	} else {
		stats = catalog.CalculateUserPoints(svc.progressSvc.Modules(), progress)
	}

	return &dto.UserStatsResponse{
		CompletedCount: catalog.TotalCompleted(progress),
		TotalModules:   len(svc.progressSvc.Modules()),
		LastActive:     doc.UpdatedAt,
		JoinedDate:     doc.CreatedAt,
		UserStats:      stats,
	}, nil
}

// ValidateUser confirms the user id from a token still maps to a real user.
func (svc *AuthService) ValidateUser(userID string) error {
	_, err := svc.sqlSvc.GetUser(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrUnauthorized("unknown user")
	}
	return err
}
