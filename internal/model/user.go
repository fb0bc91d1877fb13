package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	UserFinder
	UserSearcher
	Add(ctx context.Context, email string, hashedPassword []byte) (User, error)
	Update(ctx context.Context, id int64, changes Fields) error
}

// UserFinder looks up a single user matching every field of the predicate.
type UserFinder interface {
	FindBy(ctx context.Context, predicate Fields) (User, error)
}

// UserSearcher returns every user matching the predicate.
type UserSearcher interface {
	Search(ctx context.Context, predicate Fields) ([]User, error)
}

// User represents a stored user with authentication material.
type User struct {
	ID             int64
	Email          string
	HashedPassword []byte
	SessionID      *string
	ResetToken     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
