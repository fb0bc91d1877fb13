package handler

import (
	"net/http"

	"github.com/dtroode/gatekeeper/internal/logger"
	"github.com/dtroode/gatekeeper/internal/model"
)

// SessionManager keeps process-local sessions.
type SessionManager interface {
	CreateSession(userID int64) (string, bool)
	DestroySession(sessionID string) bool
	SessionCookie(r *http.Request) (string, bool)
}

// SessionAuth logs users in and out of in-memory sessions.
type SessionAuth struct {
	manager     SessionManager
	users       model.UserSearcher
	hasher      model.PasswordVerifier
	sessionName string
	logger      *logger.Logger
}

func NewSessionAuth(
	manager SessionManager,
	users model.UserSearcher,
	hasher model.PasswordVerifier,
	sessionName string,
	logger *logger.Logger,
) *SessionAuth {
	return &SessionAuth{
		manager:     manager,
		users:       users,
		hasher:      hasher,
		sessionName: sessionName,
		logger:      logger,
	}
}

// Login handles POST /auth_session/login.
func (h *SessionAuth) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	if email == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email missing"})
		return
	}
	password := r.FormValue("password")
	if password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "password missing"})
		return
	}

	users, err := h.users.Search(r.Context(), model.Fields{model.FieldEmail: email})
	if err != nil {
		h.logger.Error("Session handler: failed to search users",
			"error", err.Error())
		writeError(w, err)
		return
	}
	if len(users) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no user found for this email"})
		return
	}

	for _, user := range users {
		if !h.hasher.Verify(password, user.HashedPassword) {
			continue
		}

		sessionID, ok := h.manager.CreateSession(user.ID)
		if !ok {
			writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "Unable to create session"})
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     h.sessionName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
		})
		writeJSON(w, http.StatusOK, userResponse{ID: user.ID, Email: user.Email})
		return
	}

	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "wrong password"})
}

// Logout handles DELETE /auth_session/logout.
func (h *SessionAuth) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.manager.SessionCookie(r)
	if !ok || !h.manager.DestroySession(sessionID) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
		return
	}

	http.SetCookie(w, &http.Cookie{Name: h.sessionName, Value: "", Path: "/", MaxAge: -1})
	writeJSON(w, http.StatusOK, struct{}{})
}
