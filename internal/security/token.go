package security

import (
	"github.com/google/uuid"

	"github.com/dtroode/gatekeeper/internal/model"
)

var _ model.TokenGenerator = UUIDTokens{}

// UUIDTokens generates random version 4 UUID strings.
type UUIDTokens struct{}

// NewToken returns a fresh random token.
func (UUIDTokens) NewToken() string {
	return uuid.NewString()
}
