package handlers

import (
	"net/http"
	"time"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	matchessvc "github.com/dxvzz/blend/internal/services/matches"
	"github.com/dxvzz/blend/internal/transport/http/dto"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) Handle(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := authsvc.UserIDFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	matches, err := h.service.List(r.Context(), viewerID)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load matches")
		return
	}

	out := dto.MatchesResponse{Matches: make([]dto.MatchResponse, 0, len(matches))}
	for _, m := range matches {
		out.Matches = append(out.Matches, dto.MatchResponse{
			MatchID:     m.MatchID,
			UserID:      m.UserID,
			DisplayName: m.DisplayName,
			PhotoURL:    m.PhotoURL,
			University:  m.University,
			Course:      m.Course,
			MatchedAt:   m.MatchedAt.UTC().Format(time.RFC3339),
		})
	}

	httperrors.Write(w, http.StatusOK, out)
}
