// Package memory provides process-local implementations of the stores.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dtroode/gatekeeper/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository keeps users in memory with secondary indexes on every
// lookup column, so each single-field lookup is a map access.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64

	byID      map[int64]model.User
	byEmail   map[string]int64
	bySession map[string]int64
	byReset   map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:      make(map[int64]model.User),
		byEmail:   make(map[string]int64),
		bySession: make(map[string]int64),
		byReset:   make(map[string]int64),
	}
}

func (r *UserRepository) Add(_ context.Context, email string, hashedPassword []byte) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return model.User{}, fmt.Errorf("failed to create user: %w", model.ErrAlreadyExists)
	}

	r.nextID++
	now := time.Now()
	user := model.User{
		ID:             r.nextID,
		Email:          email,
		HashedPassword: append([]byte(nil), hashedPassword...),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	r.byID[user.ID] = user
	r.byEmail[email] = user.ID

	return clone(user), nil
}

func (r *UserRepository) FindBy(_ context.Context, predicate model.Fields) (model.User, error) {
	pred, err := predicate.Normalize()
	if err != nil {
		return model.User{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.match(pred, 1)
	if len(matches) == 0 {
		return model.User{}, model.ErrNotFound
	}
	return matches[0], nil
}

func (r *UserRepository) Search(_ context.Context, predicate model.Fields) ([]model.User, error) {
	pred, err := predicate.Normalize()
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.match(pred, 0), nil
}

func (r *UserRepository) Update(_ context.Context, id int64, changes model.Fields) error {
	ch, err := changes.Normalize()
	if err != nil {
		return err
	}
	if _, ok := ch[model.FieldID]; ok {
		return fmt.Errorf("%w: %q is not updatable", model.ErrInvalidField, string(model.FieldID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, model.ErrNotFound)
	}

	if v, ok := ch[model.FieldEmail]; ok {
		if other, taken := r.byEmail[v.(string)]; taken && other != id {
			return fmt.Errorf("failed to update user: %w", model.ErrAlreadyExists)
		}
	}

	r.unindex(user)
	user.Apply(ch)
	user.UpdatedAt = time.Now()
	r.byID[id] = user
	r.index(user)

	return nil
}

// match returns up to limit users satisfying pred, ordered by id.
// A limit of zero means no limit. Callers hold the read lock.
func (r *UserRepository) match(pred model.Fields, limit int) []model.User {
	ids, ok := r.lookup(pred)
	if !ok {
		ids = make([]int64, 0, len(r.byID))
		for id := range r.byID {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	var out []model.User
	for _, id := range ids {
		u, exists := r.byID[id]
		if !exists || !u.Matches(pred) {
			continue
		}
		out = append(out, clone(u))
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// lookup resolves pred through the first usable index. It reports false
// when no indexed column is constrained and a scan is required.
func (r *UserRepository) lookup(pred model.Fields) ([]int64, bool) {
	if v, ok := pred[model.FieldID]; ok {
		return []int64{v.(int64)}, true
	}

	var (
		id     int64
		exists bool
	)
	switch {
	case pred[model.FieldEmail] != nil:
		id, exists = r.byEmail[pred[model.FieldEmail].(string)]
	case token(pred, model.FieldSessionID) != nil:
		id, exists = r.bySession[*token(pred, model.FieldSessionID)]
	case token(pred, model.FieldResetToken) != nil:
		id, exists = r.byReset[*token(pred, model.FieldResetToken)]
	default:
		return nil, false
	}

	if !exists {
		return nil, true
	}
	return []int64{id}, true
}

func token(pred model.Fields, f model.Field) *string {
	s, _ := pred[f].(*string)
	return s
}

func (r *UserRepository) index(u model.User) {
	r.byEmail[u.Email] = u.ID
	if u.SessionID != nil {
		r.bySession[*u.SessionID] = u.ID
	}
	if u.ResetToken != nil {
		r.byReset[*u.ResetToken] = u.ID
	}
}

func (r *UserRepository) unindex(u model.User) {
	unlink(r.byEmail, u.Email, u.ID)
	if u.SessionID != nil {
		unlink(r.bySession, *u.SessionID, u.ID)
	}
	if u.ResetToken != nil {
		unlink(r.byReset, *u.ResetToken, u.ID)
	}
}

func unlink(index map[string]int64, key string, id int64) {
	if index[key] == id {
		delete(index, key)
	}
}

func clone(u model.User) model.User {
	u.HashedPassword = append([]byte(nil), u.HashedPassword...)
	if u.SessionID != nil {
		s := *u.SessionID
		u.SessionID = &s
	}
	if u.ResetToken != nil {
		s := *u.ResetToken
		u.ResetToken = &s
	}
	return u
}
