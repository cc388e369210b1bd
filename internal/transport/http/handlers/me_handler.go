package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/dxvzz/blend/internal/services/auth"
	profilesvc "github.com/dxvzz/blend/internal/services/profiles"
	"github.com/dxvzz/blend/internal/transport/http/dto"
	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

type MeHandler struct {
	service *profilesvc.Service
}

func NewMeHandler(service *profilesvc.Service) *MeHandler {
	return &MeHandler{service: service}
}

func (h *MeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	me, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, profilesvc.ErrUserNotFound) {
			writeNotFound(w, "USER_NOT_FOUND", "account does not exist")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load account")
		return
	}

	httperrors.Write(w, http.StatusOK, mapMe(me))
}

func mapMe(me profilesvc.Me) dto.MeResponse {
	return dto.MeResponse{
		UserID:      me.UserID,
		Email:       me.Email,
		DisplayName: me.DisplayName,
		PhotoURL:    me.PhotoURL,
		University:  me.University,
		Campus:      me.Campus,
		Course:      me.Course,
		Year:        me.Year,
		Age:         me.Age,
		Bio:         me.Bio,
		Interests:   me.Interests,
		LookingFor:  me.LookingFor,
		Onboarded:   me.Onboarded,
	}
}
