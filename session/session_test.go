package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truyenhub/truyenhub/testutil"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return New(storage)
}

func TestPersistRestoreClear(t *testing.T) {
	s := newTestSession(t)

	user := map[string]any{"id": "u1", "username": "an"}
	require.NoError(t, s.Persist(user, "opaque-token"))

	got, token, ok := s.Restore()
	require.True(t, ok)
	require.Equal(t, "opaque-token", token)
	require.Equal(t, "an", got["username"])
	require.Equal(t, "opaque-token", s.Token())

	require.NoError(t, s.Clear())
	_, _, ok = s.Restore()
	require.False(t, ok)
	require.Empty(t, s.Token())
}

func TestRestoreMissingToken(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.PersistUser(map[string]any{"id": "u1"}))
	_, _, ok := s.Restore()
	require.False(t, ok)
}

func TestRestoreExpiredToken(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.Persist(map[string]any{"id": "u1"}, testutil.SignExpiredToken("u1")))

	_, _, ok := s.Restore()
	require.False(t, ok)

	// the expired session was torn down, not left half-readable
	require.Empty(t, s.Token())
}

func TestOpaqueTokenNeverExpires(t *testing.T) {
	s := newTestSession(t)

	require.NoError(t, s.Persist(map[string]any{"provider": "google"}, "not-a-jwt"))
	_, token, ok := s.Restore()
	require.True(t, ok)
	require.Equal(t, "not-a-jwt", token)
}
