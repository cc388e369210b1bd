package handlers

import (
	"net/http"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	swipesvc "github.com/dxvzz/blend/internal/services/swipes"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

type QuotaHandler struct {
	service *swipesvc.Service
}

func NewQuotaHandler(service *swipesvc.Service) *QuotaHandler {
	return &QuotaHandler{service: service}
}

func (h *QuotaHandler) Handle(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := authsvc.UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "SWIPE_SERVICE_UNAVAILABLE", "swipe service is unavailable")
		return
	}

	snapshot, err := h.service.QuotaSnapshot(r.Context(), viewerID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to read quota")
		return
	}

	httperrors.Write(w, http.StatusOK, mapQuotaSnapshot(snapshot))
}
