package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	swipesvc "github.com/dxvzz/blend/internal/services/swipes"
	"github.com/dxvzz/blend/internal/transport/http/dto"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

type SwipeHandler struct {
	service *swipesvc.Service
}

func NewSwipeHandler(service *swipesvc.Service) *SwipeHandler {
	return &SwipeHandler{service: service}
}

func (h *SwipeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	var req dto.SwipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.TargetID <= 0 || strings.TrimSpace(req.Direction) == "" {
		writeBadRequest(w, "VALIDATION_ERROR", "target_id and direction are required")
		return
	}
	if req.Viewer != nil && *req.Viewer != identity.UserID {
		writeForbidden(w, "FORBIDDEN", "viewer does not match authenticated user")
		return
	}

	result, err := h.service.Swipe(r.Context(), identity.UserID, req.TargetID, req.Direction)
	if err != nil {
		switch {
		case errors.Is(err, swipesvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid swipe request")
		case errors.Is(err, swipesvc.ErrUnsupportedDirection):
			writeBadRequest(w, "VALIDATION_ERROR", "unsupported swipe direction")
		case errors.Is(err, swipesvc.ErrSelfSwipe):
			writeForbidden(w, "FORBIDDEN", "cannot swipe on yourself")
		case errors.Is(err, swipesvc.ErrTargetNotFound):
			writeNotFound(w, "TARGET_NOT_FOUND", "swipe target does not exist")
		default:
			if limit, ok := swipesvc.IsLimit(err); ok {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.QuotaError{
					Code:    "LIKE_LIMIT_REACHED",
					Message: "like limit reached for the current window",
					ResetAt: limit.ResetAt.UTC().Format(time.RFC3339),
				})
				return
			}
			if tooFast, ok := swipesvc.IsTooFast(err); ok {
				httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
					Code:          "TOO_FAST",
					Message:       "too many swipes, slow down",
					RetryAfterSec: tooFast.RetryAfterSec,
				})
				return
			}
			writeInternal(w, "INTERNAL_ERROR", "failed to process swipe")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, dto.SwipeResponse{
		OK:             true,
		Recorded:       result.Recorded,
		MatchCreated:   result.MatchCreated,
		MatchID:        result.MatchID,
		ConversationID: result.ConversationID,
		Quota:          mapQuotaSnapshot(result.Quota),
	})
}

func mapQuotaSnapshot(snapshot swipesvc.Snapshot) dto.QuotaResponse {
	out := dto.QuotaResponse{
		Limit:     snapshot.Limit,
		Used:      snapshot.Used,
		Remaining: snapshot.Remaining,
	}
	if !snapshot.ResetAt.IsZero() {
		out.ResetAt = snapshot.ResetAt.UTC().Format(time.RFC3339)
	}
	return out
}
