// Package testutil hosts an in-process stand-in for the accounts REST
// service so client tests can exercise real HTTP round-trips.
package testutil

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
)

var jwtSecret = []byte("truyenhub-test-secret")

type FakeAccount struct {
	UID          string
	Email        string
	PasswordHash []byte
	Profile      map[string]any
}

// FakeAccounts is a minimal accounts backend: register, login, Google
// login and profile update, with the same JSON error contract as the
// real service.
type FakeAccounts struct {
	mu       sync.Mutex
	accounts map[string]*FakeAccount // by email

	// FailUpdates makes PUT /accounts/update answer 500, for testing the
	// client's degrade-to-local path.
	FailUpdates bool
}

func NewFakeAccounts() *FakeAccounts {
	return &FakeAccounts{accounts: make(map[string]*FakeAccount)}
}

// Seed registers an account directly, bypassing HTTP.
func (f *FakeAccounts) Seed(email, password, name string, profile map[string]any) *FakeAccount {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	uid := uuid.New().String()
	p := map[string]any{
		"id":                "user-" + uid,
		"username":          name,
		"name":              name,
		"email":             email,
		"creationIdList":    []any{},
		"libraryBookIdList": []any{},
		"notificationList":  []any{},
	}
	for k, v := range profile {
		p[k] = v
	}
	acc := &FakeAccount{UID: uid, Email: email, PasswordHash: hash, Profile: p}
	f.mu.Lock()
	f.accounts[email] = acc
	f.mu.Unlock()
	return acc
}

func (f *FakeAccounts) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/accounts/register", f.register).Methods(http.MethodPost)
	r.HandleFunc("/accounts/login", f.login).Methods(http.MethodPost)
	r.HandleFunc("/accounts/loginGoogle", f.loginGoogle).Methods(http.MethodPost)
	r.HandleFunc("/accounts/update", f.update).Methods(http.MethodPut)
	return r
}

func (f *FakeAccounts) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Yêu cầu không hợp lệ!")
		return
	}
	f.mu.Lock()
	_, exists := f.accounts[req.Email]
	f.mu.Unlock()
	if exists {
		writeError(w, http.StatusBadRequest, "Email đã tồn tại!")
		return
	}
	acc := f.Seed(req.Email, req.Password, req.Name, nil)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "ok", "uid": acc.UID})
}

func (f *FakeAccounts) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Yêu cầu không hợp lệ!")
		return
	}

	f.mu.Lock()
	acc := f.accounts[req.Email]
	f.mu.Unlock()
	if acc == nil || bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Sai email hoặc mật khẩu!")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":  signToken(acc.UID, time.Hour),
		"user":   acc.Profile,
		"userId": acc.Profile["id"],
	})
}

func (f *FakeAccounts) loginGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UID string `json:"uid"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UID == "" {
		writeError(w, http.StatusBadRequest, "Đăng nhập Google thất bại!")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": signToken(req.UID, time.Hour)})
}

func (f *FakeAccounts) update(w http.ResponseWriter, r *http.Request) {
	if f.FailUpdates {
		writeError(w, http.StatusInternalServerError, "Máy chủ đang bảo trì!")
		return
	}
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		writeError(w, http.StatusUnauthorized, "Thiếu token!")
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "Yêu cầu không hợp lệ!")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acc := range f.accounts {
		for k, v := range fields {
			acc.Profile[k] = v
		}
		writeJSON(w, http.StatusOK, map[string]any{"user": acc.Profile})
		return
	}
	writeError(w, http.StatusNotFound, "Không tìm thấy người dùng!")
}

// SignExpiredToken mints a token whose exp is already past.
func SignExpiredToken(uid string) string {
	return signToken(uid, -time.Hour)
}

func signToken(uid string, ttl time.Duration) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uid,
		"exp": time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString(jwtSecret)
	if err != nil {
		panic(err)
	}
	return signed
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
