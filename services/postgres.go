package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/JuniorCarti/aws-restart-tracker-api/catalog"
	"github.com/JuniorCarti/aws-restart-tracker-api/model"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

// PostgresService is the remote document store: one document per user with
// the progress map and cached stats, plus the denormalized leaderboard
// collection.
type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "restart_tracker"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}
		timezone := os.Getenv("DB_TIMEZONE")
		if timezone == "" {
			timezone = "UTC"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			host, user, password, dbname, port, sslmode, timezone)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	// Retry connection with exponential backoff
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Error),
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	models := []interface{}{
		&model.User{},
		&model.UserDocument{},
		&model.LeaderboardEntry{},
	}

	if err = ds.db.AutoMigrate(models...); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database migrated successfully")
	return nil
}

func (ds *PostgresService) Shutdown() {
}

// ==================== USER METHODS ====================

func (ds *PostgresService) CreateUser(user *model.User) (*model.User, error) {
	if err := ds.db.Create(user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return user, nil
}

func (ds *PostgresService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := ds.db.First(&user, "email = ?", email).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) UpdateUser(user *model.User) error {
	user.UpdatedAt = time.Now()
	return ds.HandleError(ds.db.Save(user).Error)
}

// ==================== USER DOCUMENT METHODS ====================

// GetUserDocument fetches the per-user document. A missing document is "first
// use": it is auto-provisioned with an empty progress map, not an error.
func (ds *PostgresService) GetUserDocument(userID string) (*model.UserDocument, error) {
	var doc model.UserDocument
	err := ds.db.First(&doc, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		doc = model.UserDocument{
			UserID:     userID,
			Progress:   json.RawMessage("{}"),
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
			LastActive: time.Now(),
		}
		if createErr := ds.db.Create(&doc).Error; createErr != nil {
			return nil, ds.HandleError(createErr)
		}
		return &doc, nil
	}
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return &doc, nil
}

// SaveUserDocument overwrites the progress map and the cached stats snapshot.
func (ds *PostgresService) SaveUserDocument(userID string, progress catalog.ProgressMap, stats catalog.UserStats) error {
	progressJSON, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	doc := model.UserDocument{
		UserID:     userID,
		Progress:   progressJSON,
		UserStats:  statsJSON,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		LastActive: time.Now(),
	}

	err = ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"progress", "user_stats", "updated_at", "last_active"}),
	}).Create(&doc).Error

	return ds.HandleError(err)
}

// TouchUserDocument refreshes the activity timestamps without changing data.
func (ds *PostgresService) TouchUserDocument(userID string) error {
	err := ds.db.Model(&model.UserDocument{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"last_active": time.Now(),
			"updated_at":  time.Now(),
		}).Error
	return ds.HandleError(err)
}

// ==================== LEADERBOARD METHODS ====================

func (ds *PostgresService) UpsertLeaderboardEntry(entry *model.LeaderboardEntry) error {
	entry.UpdatedAt = time.Now()

	err := ds.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"display_name", "email", "photo_url",
			"total_points", "completed_modules", "completed_kcs", "completed_labs",
			"completed_exit_tickets", "completed_demonstrations", "completed_activities",
			"last_active", "updated_at",
		}),
	}).Create(entry).Error

	return ds.HandleError(err)
}

// QueryLeaderboard returns entries ordered by (orderField desc, last_active
// desc). orderField must be one of the stat columns; callers pass constants.
func (ds *PostgresService) QueryLeaderboard(orderField string, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := ds.db.
		Order(fmt.Sprintf("%s DESC, last_active DESC", orderField)).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}
	return entries, nil
}

func (ds *PostgresService) CountLeaderboardEntries() (int64, error) {
	var count int64
	if err := ds.db.Model(&model.LeaderboardEntry{}).Count(&count).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

func (ds *PostgresService) DeleteStaleLeaderboardEntries(cutoff time.Time) (int64, error) {
	result := ds.db.Where("last_active < ?", cutoff).Delete(&model.LeaderboardEntry{})
	if result.Error != nil {
		return 0, ds.HandleError(result.Error)
	}
	return result.RowsAffected, nil
}

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrDuplicatedKey):
		statusCode = http.StatusConflict
		errorType = "CONFLICT"
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		statusCode = http.StatusBadRequest
		errorType = "FOREIGN_KEY_VIOLATION"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "duplicate key value") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else {
			statusCode = http.StatusInternalServerError
			errorType = "INTERNAL_ERROR"
		}
	}

	logEntry := log.WithFields(log.Fields{
		"status_code": statusCode,
		"error_type":  errorType,
		"error":       err.Error(),
	})

	if statusCode >= 500 {
		logEntry.Error("Database error occurred")
	} else {
		logEntry.Warn("Database operation failed")
	}

	return shared.NewAppError(statusCode, errorType, err)
}
