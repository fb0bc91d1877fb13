package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dtroode/gatekeeper/internal/logger"
	"github.com/dtroode/gatekeeper/internal/metrics"
	"github.com/dtroode/gatekeeper/internal/model"
)

// DefaultSessionName is the cookie carrying the session id.
const DefaultSessionName = "session_id"

var _ model.IdentityResolver = (*Auth)(nil)

// Auth drives the account lifecycle: registration, credential checks,
// persisted sessions and password reset tokens.
type Auth struct {
	userStore   model.UserStore
	hasher      model.PasswordHasher
	tokens      model.TokenGenerator
	sessionName string
	userLocks   stripedLock
	emailLocks  stripedLock
	logger      *logger.Logger
}

// Option configures Auth.
type Option func(*Auth)

// WithSessionName sets the cookie read by ResolveIdentity.
func WithSessionName(name string) Option {
	return func(a *Auth) { a.sessionName = name }
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokens model.TokenGenerator,
	logger *logger.Logger,
	opts ...Option,
) *Auth {
	a := &Auth{
		userStore:   userStore,
		hasher:      hasher,
		tokens:      tokens,
		sessionName: DefaultSessionName,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register creates a user unless the email is already taken.
func (a *Auth) Register(ctx context.Context, email, password string) (model.User, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	unlock := a.emailLocks.lockKey(email)
	defer unlock()

	_, err := a.userStore.FindBy(ctx, model.Fields{model.FieldEmail: email})
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		metrics.RecordRegistration(false)
		return model.User{}, fmt.Errorf("failed to register user: %w", model.ErrAlreadyExists)
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hashed, err := a.hasher.Hash(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to register user: %w", err)
	}

	user, err := a.userStore.Add(ctx, email, hashed)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		metrics.RecordRegistration(false)
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", user.ID)
	metrics.RecordRegistration(true)

	return user, nil
}

// ValidLogin reports whether password belongs to the user with email.
// It does not reveal whether the email is registered.
func (a *Auth) ValidLogin(ctx context.Context, email, password string) bool {
	user, err := a.userStore.FindBy(ctx, model.Fields{model.FieldEmail: email})
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to get user by email",
				"error", err.Error())
		}
		metrics.RecordLogin(false)
		return false
	}

	ok := a.hasher.Verify(password, user.HashedPassword)
	metrics.RecordLogin(ok)

	return ok
}

// CreateSession assigns a fresh session id to the user with email,
// replacing any previous one.
func (a *Auth) CreateSession(ctx context.Context, email string) (string, bool) {
	user, err := a.userStore.FindBy(ctx, model.Fields{model.FieldEmail: email})
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to get user by email",
				"error", err.Error())
		}
		return "", false
	}

	unlock := a.userLocks.lockID(user.ID)
	defer unlock()

	sessionID := a.tokens.NewToken()
	err = a.userStore.Update(ctx, user.ID, model.Fields{model.FieldSessionID: sessionID})
	if err != nil {
		a.logger.Error("Auth service: failed to store session",
			"user_id", user.ID,
			"error", err.Error())
		return "", false
	}

	a.logger.Info("Auth service: session created",
		"user_id", user.ID)
	metrics.RecordSessionCreated()

	return sessionID, true
}

// UserFromSession resolves a persisted session id.
func (a *Auth) UserFromSession(ctx context.Context, sessionID string) (model.User, bool) {
	if sessionID == "" {
		return model.User{}, false
	}

	user, err := a.userStore.FindBy(ctx, model.Fields{model.FieldSessionID: sessionID})
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Auth service: failed to get user by session",
				"error", err.Error())
		}
		return model.User{}, false
	}

	return user, true
}

// DestroySession clears the session of userID.
func (a *Auth) DestroySession(ctx context.Context, userID int64) error {
	unlock := a.userLocks.lockID(userID)
	defer unlock()

	err := a.userStore.Update(ctx, userID, model.Fields{model.FieldSessionID: nil})
	if err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}

	a.logger.Info("Auth service: session destroyed",
		"user_id", userID)
	metrics.RecordSessionDestroyed()

	return nil
}

// ResetPasswordToken issues a single-use token for changing the password
// of the user with email.
func (a *Auth) ResetPasswordToken(ctx context.Context, email string) (string, error) {
	user, err := a.userStore.FindBy(ctx, model.Fields{model.FieldEmail: email})
	if err != nil {
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	unlock := a.userLocks.lockID(user.ID)
	defer unlock()

	token := a.tokens.NewToken()
	err = a.userStore.Update(ctx, user.ID, model.Fields{model.FieldResetToken: token})
	if err != nil {
		a.logger.Error("Auth service: failed to store reset token",
			"user_id", user.ID,
			"error", err.Error())
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	a.logger.Info("Auth service: reset token issued",
		"user_id", user.ID)
	metrics.RecordResetTokenIssued()

	return token, nil
}

// UpdatePassword consumes resetToken and replaces the password of its owner.
// A token is accepted at most once. The updated owner is returned.
func (a *Auth) UpdatePassword(ctx context.Context, resetToken, newPassword string) (model.User, error) {
	if resetToken == "" {
		return model.User{}, fmt.Errorf("failed to get user by reset token: %w", model.ErrNotFound)
	}

	user, err := a.userStore.FindBy(ctx, model.Fields{model.FieldResetToken: resetToken})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	hashed, err := a.hasher.Hash(newPassword)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update password: %w", err)
	}

	unlock := a.userLocks.lockID(user.ID)
	defer unlock()

	// The token may have been consumed while hashing.
	user, err = a.userStore.FindBy(ctx, model.Fields{
		model.FieldID:         user.ID,
		model.FieldResetToken: resetToken,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	err = a.userStore.Update(ctx, user.ID, model.Fields{
		model.FieldHashedPassword: hashed,
		model.FieldResetToken:     nil,
	})
	if err != nil {
		a.logger.Error("Auth service: failed to update password",
			"user_id", user.ID,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Info("Auth service: password updated",
		"user_id", user.ID)
	metrics.RecordResetTokenConsumed()

	user.HashedPassword = hashed
	user.ResetToken = nil

	return user, nil
}

// ResolveIdentity returns the user owning the session cookie of r.
func (a *Auth) ResolveIdentity(r *http.Request) (model.User, bool) {
	cookie, err := r.Cookie(a.sessionName)
	if err != nil {
		return model.User{}, false
	}
	return a.UserFromSession(r.Context(), cookie.Value)
}

// SessionName returns the name of the session cookie.
func (a *Auth) SessionName() string {
	return a.sessionName
}
