package handler

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/gatekeeper/internal/logger"
	"github.com/dtroode/gatekeeper/internal/model"
)

// AuthService is the account lifecycle used by the handlers.
type AuthService interface {
	Register(ctx context.Context, email, password string) (model.User, error)
	ValidLogin(ctx context.Context, email, password string) bool
	CreateSession(ctx context.Context, email string) (string, bool)
	UserFromSession(ctx context.Context, sessionID string) (model.User, bool)
	DestroySession(ctx context.Context, userID int64) error
	ResetPasswordToken(ctx context.Context, email string) (string, error)
	UpdatePassword(ctx context.Context, resetToken, newPassword string) (model.User, error)
}

type credentialsForm struct {
	Email    string `validate:"required,max=250"`
	Password string `validate:"required"`
}

type resetRequestForm struct {
	Email string `validate:"required,max=250"`
}

type passwordUpdateForm struct {
	ResetToken  string `validate:"required"`
	NewPassword string `validate:"required"`
}

// Auth serves registration, sessions and password reset over form-encoded requests.
type Auth struct {
	service     AuthService
	sessionName string
	validate    *validator.Validate
	logger      *logger.Logger
}

func NewAuth(service AuthService, sessionName string, logger *logger.Logger) *Auth {
	return &Auth{
		service:     service,
		sessionName: sessionName,
		validate:    validator.New(),
		logger:      logger,
	}
}

// Index handles GET /.
func (h *Auth) Index(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageResponse{Message: "Welcome"})
}

// Register handles POST /users.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	form := credentialsForm{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if err := h.validate.Struct(form); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "email and password are required"})
		return
	}

	user, err := h.service.Register(r.Context(), form.Email, form.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Email: user.Email, Message: "User created"})
}

// Login handles POST /sessions.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	form := credentialsForm{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}
	if err := h.validate.Struct(form); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	if !h.service.ValidLogin(r.Context(), form.Email, form.Password) {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
		return
	}

	sessionID, ok := h.service.CreateSession(r.Context(), form.Email)
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
	writeJSON(w, http.StatusOK, messageResponse{Email: form.Email, Message: "Logged in"})
}

// Logout handles DELETE /sessions.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(r)
	if !ok {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden"})
		return
	}

	if err := h.service.DestroySession(r.Context(), user.ID); err != nil {
		h.logger.Error("Auth handler: failed to destroy session",
			"user_id", user.ID,
			"error", err.Error())
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: h.sessionName, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Profile handles GET /profile.
func (h *Auth) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(r)
	if !ok {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": user.Email})
}

// ResetPasswordToken handles POST /reset_password.
func (h *Auth) ResetPasswordToken(w http.ResponseWriter, r *http.Request) {
	form := resetRequestForm{Email: r.FormValue("email")}
	if err := h.validate.Struct(form); err != nil {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden"})
		return
	}

	token, err := h.service.ResetPasswordToken(r.Context(), form.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"email": form.Email, "reset_token": token})
}

// UpdatePassword handles PUT /reset_password.
func (h *Auth) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	form := passwordUpdateForm{
		ResetToken:  r.FormValue("reset_token"),
		NewPassword: r.FormValue("new_password"),
	}
	if err := h.validate.Struct(form); err != nil {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "Forbidden"})
		return
	}

	user, err := h.service.UpdatePassword(r.Context(), form.ResetToken, form.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Email: user.Email, Message: "Password updated"})
}

func (h *Auth) sessionUser(r *http.Request) (model.User, bool) {
	cookie, err := r.Cookie(h.sessionName)
	if err != nil {
		return model.User{}, false
	}
	return h.service.UserFromSession(r.Context(), cookie.Value)
}
