package handler

import (
	"errors"
	"net/http"

	"github.com/mbeier/famsync/internal/model"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	var invalid *model.InvalidError
	switch {
	case errors.As(err, &invalid):
		status := http.StatusBadRequest
		if invalid.Kind == model.KindInvalidCredentials {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, errorResponse{Error: string(invalid.Kind), Message: invalid.Message})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "not found"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal", Message: "internal server error"})
	}
}
