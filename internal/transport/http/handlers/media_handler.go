package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	mediasvc "github.com/dxvzz/blend/internal/services/media"
	"github.com/dxvzz/blend/internal/transport/http/dto"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

const maxUploadMemory = 10 << 20

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "multipart form with a photo field is required")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "photo file is required")
		return
	}
	defer file.Close()

	photoURL, err := h.service.UploadProfilePhoto(
		r.Context(),
		identity.UserID,
		header.Filename,
		header.Header.Get("Content-Type"),
		file,
		header.Size,
	)
	if err != nil {
		if errors.Is(err, mediasvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "invalid photo upload")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to store photo")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PhotoUploadResponse{OK: true, PhotoURL: photoURL})
}
