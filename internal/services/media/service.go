package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation error")

const maxPhotoBytes = 8 << 20

type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	PutPhoto(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	Delete(ctx context.Context, key string) error
}

type UserStore interface {
	UpdatePhotoURL(ctx context.Context, userID int64, photoURL string) error
}

type Service struct {
	storage ObjectStorage
	users   UserStore
}

func NewService(storage ObjectStorage, users UserStore) *Service {
	return &Service{
		storage: storage,
		users:   users,
	}
}

// UploadProfilePhoto stores the photo and points the account at its
// public URL. The previous URL is simply overwritten; old objects are
// left for bucket lifecycle rules.
func (s *Service) UploadProfilePhoto(ctx context.Context, userID int64, fileName, contentType string, body io.Reader, size int64) (string, error) {
	if userID <= 0 || body == nil || size <= 0 || size > maxPhotoBytes {
		return "", ErrValidation
	}
	if s.storage == nil || s.users == nil {
		return "", fmt.Errorf("media dependencies are not configured")
	}

	if err := s.storage.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("ensure bucket: %w", err)
	}

	objectKey := buildPhotoObjectKey(userID, fileName)

	if strings.TrimSpace(contentType) == "" {
		contentType = "application/octet-stream"
	}

	if err := s.storage.PutPhoto(ctx, objectKey, body, size, contentType); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	photoURL := s.storage.PublicURL(objectKey)
	if err := s.users.UpdatePhotoURL(ctx, userID, photoURL); err != nil {
		_ = s.storage.Delete(ctx, objectKey)
		return "", fmt.Errorf("update photo url: %w", err)
	}

	return photoURL, nil
}

func buildPhotoObjectKey(userID int64, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = ".jpg"
	}
	return "photos/" + strconv.FormatInt(userID, 10) + "/" + uuid.NewString() + ext
}
