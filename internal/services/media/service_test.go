package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type storageStub struct {
	ensureErr  error
	putErr     error
	putKey     string
	putSize    int64
	putType    string
	deleted    []string
	publicBase string
}

func (s *storageStub) EnsureBucket(context.Context) error {
	return s.ensureErr
}

func (s *storageStub) PutPhoto(_ context.Context, key string, _ io.Reader, size int64, contentType string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.putKey = key
	s.putSize = size
	s.putType = contentType
	return nil
}

func (s *storageStub) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

func (s *storageStub) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

type userStoreStub struct {
	updateErr error
	userID    int64
	photoURL  string
}

func (s *userStoreStub) UpdatePhotoURL(_ context.Context, userID int64, photoURL string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.userID = userID
	s.photoURL = photoURL
	return nil
}

func TestUploadProfilePhoto(t *testing.T) {
	storage := &storageStub{publicBase: "https://cdn.example.com/blend"}
	users := &userStoreStub{}
	svc := NewService(storage, users)

	body := bytes.NewBufferString("image-bytes")
	url, err := svc.UploadProfilePhoto(context.Background(), 42, "selfie.PNG", "image/png", body, int64(body.Len()))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if !strings.HasPrefix(storage.putKey, "photos/42/") {
		t.Fatalf("unexpected object key: %s", storage.putKey)
	}
	if !strings.HasSuffix(storage.putKey, ".png") {
		t.Fatalf("expected normalized png extension, got %s", storage.putKey)
	}
	if storage.putType != "image/png" {
		t.Fatalf("unexpected content type: %s", storage.putType)
	}
	if users.userID != 42 || users.photoURL != url {
		t.Fatalf("account not updated: user=%d url=%s want %s", users.userID, users.photoURL, url)
	}
}

func TestUploadProfilePhotoRejectsOversizedBody(t *testing.T) {
	svc := NewService(&storageStub{}, &userStoreStub{})

	_, err := svc.UploadProfilePhoto(context.Background(), 42, "big.jpg", "image/jpeg", bytes.NewReader(nil), maxPhotoBytes+1)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadProfilePhotoCleansUpOnAccountFailure(t *testing.T) {
	storage := &storageStub{publicBase: "https://cdn.example.com/blend"}
	users := &userStoreStub{updateErr: errors.New("db down")}
	svc := NewService(storage, users)

	body := bytes.NewBufferString("image-bytes")
	if _, err := svc.UploadProfilePhoto(context.Background(), 42, "selfie.jpg", "image/jpeg", body, int64(body.Len())); err == nil {
		t.Fatalf("expected error when account update fails")
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != storage.putKey {
		t.Fatalf("expected uploaded object to be cleaned up, deleted=%v", storage.deleted)
	}
}
