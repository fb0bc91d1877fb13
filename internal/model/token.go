package model

// TokenGenerator produces opaque random tokens for sessions and password resets.
type TokenGenerator interface {
	NewToken() string
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	PasswordVerifier
	Hash(password string) ([]byte, error)
}

// PasswordVerifier checks a cleartext password against a stored hash.
type PasswordVerifier interface {
	Verify(password string, hash []byte) bool
}
