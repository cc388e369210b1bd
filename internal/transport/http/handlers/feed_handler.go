package handlers

import (
	"errors"
	"net/http"
	"strconv"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	feedsvc "github.com/dxvzz/blend/internal/services/feed"
	"github.com/dxvzz/blend/internal/transport/http/dto"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "VALIDATION_ERROR", "limit must be a non-negative number")
			return
		}
		limit = parsed
	}

	candidates, err := h.service.List(r.Context(), identity.UserID, limit)
	if err != nil {
		switch {
		case errors.Is(err, feedsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid feed request")
		case errors.Is(err, feedsvc.ErrViewerNotFound):
			writeNotFound(w, "VIEWER_NOT_FOUND", "viewer account does not exist")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load feed")
		}
		return
	}

	out := dto.FeedResponse{Candidates: make([]dto.CandidateResponse, 0, len(candidates))}
	for _, c := range candidates {
		out.Candidates = append(out.Candidates, dto.CandidateResponse{
			UserID:      c.UserID,
			DisplayName: c.DisplayName,
			PhotoURL:    c.PhotoURL,
			University:  c.University,
			Campus:      c.Campus,
			Course:      c.Course,
			Year:        c.Year,
			Age:         c.Age,
			Bio:         c.Bio,
			Interests:   c.Interests,
			LookingFor:  c.LookingFor,
		})
	}

	httperrors.Write(w, http.StatusOK, out)
}
