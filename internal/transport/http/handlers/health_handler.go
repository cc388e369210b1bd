package handlers

import (
	"net/http"

	httperrors "github.com/dxvzz/blend/internal/transport/http/errors"
)

func Health(w http.ResponseWriter, _ *http.Request) {
	httperrors.Write(w, http.StatusOK, struct {
		Status string `json:"status"`
	}{Status: "ok"})
}
