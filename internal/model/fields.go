package model

import "fmt"

// Field names a recognised user attribute.
type Field string

const (
	FieldID             Field = "id"
	FieldEmail          Field = "email"
	FieldHashedPassword Field = "hashed_password"
	FieldSessionID      Field = "session_id"
	FieldResetToken     Field = "reset_token"
)

// Fields is a set of attribute/value pairs. It is used both as a lookup
// predicate and as an update change set.
type Fields map[Field]any

// Valid reports whether f is a recognised user attribute.
func (f Field) Valid() bool {
	switch f {
	case FieldID, FieldEmail, FieldHashedPassword, FieldSessionID, FieldResetToken:
		return true
	}
	return false
}

// Validate checks that every key of fs is a recognised attribute.
func (fs Fields) Validate() error {
	for f := range fs {
		if !f.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidField, string(f))
		}
	}
	return nil
}

// Normalize validates fs and converts its values to the canonical types
// used by the stores: int64 for id, string for email, []byte for the hash
// and *string (nil meaning NULL) for session_id and reset_token.
func (fs Fields) Normalize() (Fields, error) {
	out := make(Fields, len(fs))
	for f, v := range fs {
		if !f.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, string(f))
		}
		nv, ok := normalizeValue(f, v)
		if !ok {
			return nil, fmt.Errorf("%w: %q does not accept %T", ErrInvalidField, string(f), v)
		}
		out[f] = nv
	}
	return out, nil
}

func normalizeValue(f Field, v any) (any, bool) {
	switch f {
	case FieldID:
		switch id := v.(type) {
		case int64:
			return id, true
		case int:
			return int64(id), true
		}
	case FieldEmail:
		s, ok := v.(string)
		return s, ok
	case FieldHashedPassword:
		switch h := v.(type) {
		case []byte:
			return h, true
		case string:
			return []byte(h), true
		}
	case FieldSessionID, FieldResetToken:
		switch s := v.(type) {
		case nil:
			return (*string)(nil), true
		case *string:
			return s, true
		case string:
			return &s, true
		}
	}
	return nil, false
}

// Matches reports whether u carries every value of the predicate.
// The predicate is expected to be validated and normalised.
func (u User) Matches(predicate Fields) bool {
	if len(predicate) == 0 {
		return false
	}
	for f, v := range predicate {
		if !u.matches(f, v) {
			return false
		}
	}
	return true
}

func (u User) matches(f Field, v any) bool {
	switch f {
	case FieldID:
		id, ok := v.(int64)
		return ok && u.ID == id
	case FieldEmail:
		email, ok := v.(string)
		return ok && u.Email == email
	case FieldHashedPassword:
		hash, ok := v.([]byte)
		return ok && string(u.HashedPassword) == string(hash)
	case FieldSessionID:
		return equalNullable(u.SessionID, v)
	case FieldResetToken:
		return equalNullable(u.ResetToken, v)
	}
	return false
}

func equalNullable(have *string, v any) bool {
	want, ok := v.(*string)
	if !ok {
		return false
	}
	if have == nil || want == nil {
		return have == nil && want == nil
	}
	return *have == *want
}

// Apply assigns the normalised change set to u.
func (u *User) Apply(changes Fields) {
	for f, v := range changes {
		switch f {
		case FieldEmail:
			u.Email = v.(string)
		case FieldHashedPassword:
			u.HashedPassword = v.([]byte)
		case FieldSessionID:
			u.SessionID = v.(*string)
		case FieldResetToken:
			u.ResetToken = v.(*string)
		}
	}
}
