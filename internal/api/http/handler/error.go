package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/gatekeeper/internal/model"
)

type messageResponse struct {
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors to responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrAlreadyExists):
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "Email already registered"})
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
