package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	profilesvc "github.com/dxvzz/blend/internal/services/profiles"
	"github.com/dxvzz/blend/internal/transport/http/dto"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Questions serves the onboarding wizard; it needs no authentication
// so the client can render the flow before sign-in completes.
func (h *ProfileHandler) Questions(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	questions := h.service.Questions()
	out := dto.OnboardingQuestionsResponse{Questions: make([]dto.OnboardingQuestionResponse, 0, len(questions))}
	for _, q := range questions {
		out.Questions = append(out.Questions, dto.OnboardingQuestionResponse{Key: q.Key, Prompt: q.Prompt})
	}

	httperrors.Write(w, http.StatusOK, out)
}

func (h *ProfileHandler) Submit(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}

	me, err := h.service.SubmitOnboarding(r.Context(), identity.UserID, req.Answers)
	if err != nil {
		if fieldErr, ok := profilesvc.IsFieldError(err); ok {
			httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{
				Code:    "VALIDATION_ERROR",
				Message: fieldErr.Error(),
			})
			return
		}
		if errors.Is(err, profilesvc.ErrValidation) {
			writeBadRequest(w, "VALIDATION_ERROR", "answers are required")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to save profile")
		return
	}

	httperrors.Write(w, http.StatusOK, mapMe(me))
}
