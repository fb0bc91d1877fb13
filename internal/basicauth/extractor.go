// Package basicauth resolves users from HTTP Basic Authorization headers.
package basicauth

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dtroode/gatekeeper/internal/logger"
	"github.com/dtroode/gatekeeper/internal/model"
)

const scheme = "Basic"

var _ model.IdentityResolver = (*Extractor)(nil)

// Extractor turns an Authorization header into a user.
// Every step fails closed: malformed input yields no user, never an error.
type Extractor struct {
	users  model.UserSearcher
	hasher model.PasswordVerifier
	logger *logger.Logger
}

func NewExtractor(users model.UserSearcher, hasher model.PasswordVerifier, logger *logger.Logger) *Extractor {
	return &Extractor{
		users:  users,
		hasher: hasher,
		logger: logger,
	}
}

// ExtractEncoded returns the credentials part of a "Basic <token>" header.
func (e *Extractor) ExtractEncoded(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) < 2 || parts[0] != scheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Decode decodes standard base64 into UTF-8 text. Encodings with non-zero
// padding bits are rejected so that distinct payloads never decode alike.
func (e *Extractor) Decode(encoded string) (string, bool) {
	raw, err := base64.StdEncoding.Strict().DecodeString(encoded)
	if err != nil || !utf8.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// SplitCredentials splits "email:password" on the first colon.
// The password may itself contain colons.
func (e *Extractor) SplitCredentials(decoded string) (email, password string, ok bool) {
	if decoded == "" {
		return "", "", false
	}
	return strings.Cut(decoded, ":")
}

// ResolveUser returns the first user with email whose password verifies.
func (e *Extractor) ResolveUser(ctx context.Context, email, password string) (model.User, bool) {
	candidates, err := e.users.Search(ctx, model.Fields{model.FieldEmail: email})
	if err != nil {
		e.logger.Error("Basic auth: failed to search users",
			"error", err.Error())
		return model.User{}, false
	}

	for _, user := range candidates {
		if e.hasher.Verify(password, user.HashedPassword) {
			return user, true
		}
	}

	return model.User{}, false
}

// CurrentUser runs the whole chain for an Authorization header value.
func (e *Extractor) CurrentUser(ctx context.Context, header string) (user model.User, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Basic auth: recovered from panic",
				"panic", r)
			user, ok = model.User{}, false
		}
	}()

	encoded, ok := e.ExtractEncoded(header)
	if !ok {
		return model.User{}, false
	}
	decoded, ok := e.Decode(encoded)
	if !ok {
		return model.User{}, false
	}
	email, password, ok := e.SplitCredentials(decoded)
	if !ok {
		return model.User{}, false
	}

	return e.ResolveUser(ctx, email, password)
}

// ResolveIdentity reads the Authorization header of r.
func (e *Extractor) ResolveIdentity(r *http.Request) (model.User, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return model.User{}, false
	}
	return e.CurrentUser(r.Context(), header)
}
