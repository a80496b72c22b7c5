package services

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/JuniorCarti/aws-restart-tracker-api/model"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

// SqliteService is the device-local key-value store, the server-side stand-in
// for the web client's browser storage. It is always available: reads of
// absent keys return the empty string, never an error.
type SqliteService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const SQLITE_SVC = "sqlite_svc"

func (ds SqliteService) Id() string {
	return SQLITE_SVC
}

// Db Access to raw SqliteService db
func (ds SqliteService) Db() *gorm.DB {
	return ds.db
}

func (ds *SqliteService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("LOCAL_DB_PATH")
	if ds.database == "" {
		ds.database = "local_store.db"
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *SqliteService) Start() (err error) {
	ds.db, err = gorm.Open(sqlite.Open(ds.database), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return err
	}

	if err = ds.db.AutoMigrate(&model.LocalEntry{}); err != nil {
		log.Printf("Failed to migrate local store: %v", err)
		return err
	}

	log.Println("Local store connected and migrated successfully")
	return nil
}

func (ds *SqliteService) Shutdown() {
}

// GetLocal reads one key for a device. Absent keys are "" with a nil error.
func (ds *SqliteService) GetLocal(deviceID, key string) (string, error) {
	var entry model.LocalEntry
	err := ds.db.Where("device_id = ? AND key = ?", deviceID, key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", ds.HandleError(err)
	}
	return entry.Value, nil
}

func (ds *SqliteService) SetLocal(deviceID, key, value string) error {
	entry := model.LocalEntry{
		DeviceID:  deviceID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error

	return ds.HandleError(err)
}

func (ds *SqliteService) DeleteLocal(deviceID, key string) error {
	err := ds.db.Where("device_id = ? AND key = ?", deviceID, key).
		Delete(&model.LocalEntry{}).Error
	return ds.HandleError(err)
}

func (ds *SqliteService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	var statusCode int
	var errorType string

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		statusCode = http.StatusNotFound
		errorType = "NOT_FOUND"
	case errors.Is(err, gorm.ErrInvalidTransaction):
		statusCode = http.StatusInternalServerError
		errorType = "TRANSACTION_ERROR"
	default:
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			statusCode = http.StatusConflict
			errorType = "UNIQUE_CONSTRAINT"
		} else if strings.Contains(err.Error(), "no such table") {
			statusCode = http.StatusInternalServerError
			errorType = "SCHEMA_ERROR"
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
		logEntry.Error("Local store error occurred")
	} else {
		logEntry.Warn("Local store operation failed")
	}

	return shared.NewAppError(statusCode, errorType, err)
}
