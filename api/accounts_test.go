package api

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/truyenhub/truyenhub/testutil"
)

func newTestClient(t *testing.T) (*Client, *testutil.FakeAccounts) {
	t.Helper()
	fake := testutil.NewFakeAccounts()
	srv := httptest.NewServer(fake.Router())
	t.Cleanup(srv.Close)
	return NewClient(srv.URL), fake
}

func TestRegisterAndLogin(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	uid, err := c.Register(ctx, "an@example.com", "secret123", "An")
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	resp, err := c.Login(ctx, "an@example.com", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "An", resp.User["username"])
	require.Equal(t, resp.User["id"], resp.UserID)
}

func TestRegisterDuplicateSurfacesServerError(t *testing.T) {
	c, fake := newTestClient(t)
	fake.Seed("an@example.com", "secret123", "An", nil)

	_, err := c.Register(context.Background(), "an@example.com", "other", "An")
	require.EqualError(t, err, "Email đã tồn tại!")
}

func TestLoginWrongPassword(t *testing.T) {
	c, fake := newTestClient(t)
	fake.Seed("an@example.com", "secret123", "An", nil)

	_, err := c.Login(context.Background(), "an@example.com", "wrong")
	require.EqualError(t, err, "Sai email hoặc mật khẩu!")
}

func TestLoginTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1") // nothing listens here

	_, err := c.Login(context.Background(), "an@example.com", "secret123")
	require.Error(t, err)
}

func TestLoginGoogle(t *testing.T) {
	c, _ := newTestClient(t)

	token, err := c.LoginGoogle(context.Background(), "google-uid", "an@gmail.com", "An", "")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestUpdateProfile(t *testing.T) {
	c, fake := newTestClient(t)
	fake.Seed("an@example.com", "secret123", "An", nil)

	resp, err := c.Login(context.Background(), "an@example.com", "secret123")
	require.NoError(t, err)

	user, err := c.UpdateProfile(context.Background(), resp.Token, map[string]any{"username": "An Mới"})
	require.NoError(t, err)
	require.Equal(t, "An Mới", user["username"])

	fake.FailUpdates = true
	_, err = c.UpdateProfile(context.Background(), resp.Token, map[string]any{"username": "X"})
	require.EqualError(t, err, "Máy chủ đang bảo trì!")
}
