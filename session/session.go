// Package session persists the authenticated user's profile blob and
// bearer token across restarts.
package session

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/truyenhub/truyenhub/log"
)

const (
	UserKey  = "user"
	TokenKey = "token"
)

type Session struct {
	storage Storage
}

func New(storage Storage) *Session {
	return &Session{storage: storage}
}

// Persist writes both keys in order. There is no rollback if the token
// write fails after the user write succeeded.
func (s *Session) Persist(user map[string]any, token string) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := s.storage.Set(UserKey, string(raw)); err != nil {
		return err
	}
	return s.storage.Set(TokenKey, token)
}

// PersistUser rewrites only the profile blob, keeping the stored token.
func (s *Session) PersistUser(user map[string]any) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.storage.Set(UserKey, string(raw))
}

// Restore rehydrates the session at app start. A missing key or an
// already-expired bearer token reads as no session at all.
func (s *Session) Restore() (map[string]any, string, bool) {
	rawUser, ok, err := s.storage.Get(UserKey)
	if err != nil || !ok {
		return nil, "", false
	}
	token, ok, err := s.storage.Get(TokenKey)
	if err != nil || !ok {
		return nil, "", false
	}

	if tokenExpired(token) {
		log.Warn("Stored session token expired, clearing session")
		s.Clear()
		return nil, "", false
	}

	user := make(map[string]any)
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		log.Error("Failed to decode stored user", zap.Error(err))
		return nil, "", false
	}
	return user, token, true
}

// Token returns the stored bearer token, empty when absent.
func (s *Session) Token() string {
	token, ok, err := s.storage.Get(TokenKey)
	if err != nil || !ok {
		return ""
	}
	return token
}

func (s *Session) Clear() error {
	if err := s.storage.Remove(UserKey); err != nil {
		return err
	}
	return s.storage.Remove(TokenKey)
}

// tokenExpired peeks at the JWT exp claim without verifying the
// signature; the server remains the authority. Tokens that do not parse
// as JWTs pass through untouched (the Google path issues opaque tokens).
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
