package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/JuniorCarti/aws-restart-tracker-api/dto"
	"github.com/JuniorCarti/aws-restart-tracker-api/shared"
)

// MediaService handles avatar uploads. The stored object URL becomes the
// user's photo_url and is re-projected onto the leaderboard.
type MediaService struct {
	context.DefaultService

	minioSvc *MinIOService
	authSvc  *AuthService

	baseURL string
}

const MEDIA_SVC = "media_svc"

const maxAvatarSize = 5 << 20 // 5 MiB

var allowedAvatarTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	return nil
}

func (svc *MediaService) UploadAvatar(userID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if file.Size > maxAvatarSize {
		return nil, shared.ErrBadRequest("avatar exceeds size limit", nil)
	}

	contentType := file.Header.Get("Content-Type")
	if !allowedAvatarTypes[contentType] {
		return nil, shared.ErrBadRequest(fmt.Sprintf("unsupported avatar type: %s", contentType), nil)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectName := fmt.Sprintf("avatars/%s_%d%s", userID, time.Now().Unix(), ext)

	src, err := file.Open()
	if err != nil {
		return nil, shared.ErrBadRequest("failed to open uploaded file", err)
	}
	defer src.Close()

	if _, err := svc.minioSvc.UploadFile(objectName, src, file.Size, contentType); err != nil {
		return nil, err
	}

	fileURL, err := svc.minioSvc.GetFileURL(objectName, 24*time.Hour)
	if err != nil {
		log.Printf("Failed to generate presigned URL: %v", err)
		fileURL = fmt.Sprintf("/%s/%s", svc.minioSvc.GetBucketName(), objectName)
	}

	if _, err := svc.authSvc.UpdateProfile(userID, dto.UpdateProfileRequest{PhotoURL: fileURL}); err != nil {
		return nil, err
	}

	return &dto.MediaUploadResponse{
		URL:        fileURL,
		ObjectName: objectName,
		Size:       file.Size,
		MimeType:   contentType,
	}, nil
}
