package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/gatekeeper/internal/mocks"
	"github.com/dtroode/gatekeeper/internal/model"
	"github.com/dtroode/gatekeeper/internal/repository/memory"
)

func TestManager_CreateSession(t *testing.T) {
	m := NewManager(nil, "")
	assert.Equal(t, DefaultCookieName, m.CookieName())

	_, ok := m.CreateSession(0)
	assert.False(t, ok)
	_, ok = m.CreateSession(-1)
	assert.False(t, ok)

	first, ok := m.CreateSession(7)
	require.True(t, ok)
	second, ok := m.CreateSession(7)
	require.True(t, ok)
	assert.NotEqual(t, first, second)

	for _, sid := range []string{first, second} {
		userID, ok := m.UserIDForSession(sid)
		require.True(t, ok)
		assert.Equal(t, int64(7), userID)
	}
}

func TestManager_UserIDForSession(t *testing.T) {
	m := NewManager(nil, "")

	_, ok := m.UserIDForSession("")
	assert.False(t, ok)
	_, ok = m.UserIDForSession("unknown")
	assert.False(t, ok)
}

func TestManager_DestroySession(t *testing.T) {
	m := NewManager(nil, "")

	sid, ok := m.CreateSession(3)
	require.True(t, ok)

	assert.True(t, m.DestroySession(sid))
	assert.False(t, m.DestroySession(sid))

	_, ok = m.UserIDForSession(sid)
	assert.False(t, ok)
}

func TestManager_CurrentUser(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	user, err := store.Add(ctx, "bob@me.com", []byte("hash"))
	require.NoError(t, err)

	m := NewManager(store, "_my_session_id")

	sid, ok := m.CreateSession(user.ID)
	require.True(t, ok)

	got, ok := m.CurrentUser(ctx, sid)
	require.True(t, ok)
	assert.Equal(t, user.Email, got.Email)

	_, ok = m.CurrentUser(ctx, "")
	assert.False(t, ok)

	orphan, ok := m.CreateSession(user.ID + 10)
	require.True(t, ok)
	_, ok = m.CurrentUser(ctx, orphan)
	assert.False(t, ok, "session of a missing user")
}

func TestManager_CurrentUser_StoreFailures(t *testing.T) {
	ctx := context.Background()
	store := servermocks.NewUserStore(t)
	store.On("FindBy", mock.Anything, model.Fields{model.FieldID: int64(1)}).
		Return(model.User{}, errors.New("db down")).Once()
	store.On("FindBy", mock.Anything, model.Fields{model.FieldID: int64(1)}).
		Run(func(mock.Arguments) { panic("boom") }).
		Return(model.User{}, nil).Once()

	m := NewManager(store, "")
	sid, ok := m.CreateSession(1)
	require.True(t, ok)

	_, ok = m.CurrentUser(ctx, sid)
	assert.False(t, ok)

	require.NotPanics(t, func() {
		_, ok = m.CurrentUser(ctx, sid)
	})
	assert.False(t, ok)
}

func TestManager_ResolveIdentity(t *testing.T) {
	ctx := context.Background()
	store := memory.NewUserRepository()
	user, err := store.Add(ctx, "bob@me.com", []byte("hash"))
	require.NoError(t, err)

	m := NewManager(store, "_my_session_id")
	sid, ok := m.CreateSession(user.ID)
	require.True(t, ok)

	r := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	_, ok = m.SessionCookie(r)
	assert.False(t, ok)
	_, ok = m.ResolveIdentity(r)
	assert.False(t, ok)

	r.AddCookie(&http.Cookie{Name: "session_id", Value: sid})
	_, ok = m.ResolveIdentity(r)
	assert.False(t, ok, "cookie name must match")

	r = httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.AddCookie(&http.Cookie{Name: "_my_session_id", Value: sid})
	got, ok := m.ResolveIdentity(r)
	require.True(t, ok)
	assert.Equal(t, user.ID, got.ID)
}

func TestManager_Concurrent(t *testing.T) {
	m := NewManager(nil, "")

	var wg sync.WaitGroup
	sids := make([]string, 64)
	for i := range sids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sid, ok := m.CreateSession(int64(i + 1))
			if ok {
				sids[i] = sid
			}
			_, _ = m.UserIDForSession(sid)
		}(i)
	}
	wg.Wait()

	for i, sid := range sids {
		userID, ok := m.UserIDForSession(sid)
		require.True(t, ok)
		assert.Equal(t, int64(i+1), userID)
	}
}
