package handler

import (
	"net/http"

	"github.com/dtroode/gatekeeper/internal/model"
)

type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// User serves endpoints for the authenticated caller.
type User struct {
	contextManager model.ContextManager
}

func NewUser(contextManager model.ContextManager) *User {
	return &User{contextManager: contextManager}
}

// Me handles GET /users/me.
func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden"})
		return
	}

	writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
}

// Status handles GET /status.
func Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
}
