package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/postboard/internal/auth"
	"github.com/geocoder89/postboard/internal/config"
	"github.com/geocoder89/postboard/internal/domain/user"
	"github.com/geocoder89/postboard/internal/http/handlers"
	"github.com/geocoder89/postboard/internal/http/middlewares"
	"github.com/geocoder89/postboard/internal/repo/postgres"
	"github.com/geocoder89/postboard/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// In-memory user store standing in for the postgres repo.

type fakeUserStore struct {
	byID       map[uuid.UUID]user.User
	byUsername map[string]user.User
	createErr  error
	created    []user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byID:       make(map[uuid.UUID]user.User),
		byUsername: make(map[string]user.User),
	}
}

func (f *fakeUserStore) add(u user.User) {
	f.byID[u.ID] = u
	f.byUsername[u.Username] = u
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (user.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Create(_ context.Context, u user.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, u)
	f.add(u)
	return nil
}

func newAuthFixture(store *fakeUserStore) (*handlers.AuthHandler, *auth.Manager) {
	manager := auth.NewManager("test-secret", time.Hour)
	h := handlers.NewAuthHandler(store, store, manager, config.Config{Env: "dev"})

	return h, manager
}

func TestSignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		createErr      error
		wantStatusCode int
		wantCookie     bool
	}{
		{
			name:           "created",
			body:           `{"email": "a@b.com", "username": "alice", "name": "Alice", "password": "hunter2-long"}`,
			wantStatusCode: http.StatusCreated,
			wantCookie:     true,
		},
		{
			name:           "invalid_email",
			body:           `{"email": "nope", "username": "alice", "name": "Alice", "password": "hunter2-long"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "short_password",
			body:           `{"email": "a@b.com", "username": "alice", "name": "Alice", "password": "short"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "duplicate_email",
			body:           `{"email": "a@b.com", "username": "alice", "name": "Alice", "password": "hunter2-long"}`,
			createErr:      postgres.ErrEmailAlreadyUsed,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "duplicate_username",
			body:           `{"email": "a@b.com", "username": "alice", "name": "Alice", "password": "hunter2-long"}`,
			createErr:      postgres.ErrUsernameTaken,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "storage_failure",
			body:           `{"email": "a@b.com", "username": "alice", "name": "Alice", "password": "hunter2-long"}`,
			createErr:      errors.New("connection refused"),
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := newFakeUserStore()
			store.createErr = tt.createErr

			h, _ := newAuthFixture(store)
			r := setupRouter(http.MethodPost, "/auth/signup", h.SignUp)

			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			gotCookie := false
			for _, c := range w.Result().Cookies() {
				if c.Name == auth.CookieName && c.Value != "" {
					gotCookie = true
				}
			}

			if gotCookie != tt.wantCookie {
				t.Fatalf("cookie set = %v, want %v", gotCookie, tt.wantCookie)
			}

			if tt.wantStatusCode != http.StatusCreated {
				return
			}

			if len(store.created) != 1 {
				t.Fatalf("expected one created user, got %d", len(store.created))
			}

			u := store.created[0]

			if u.Role != user.RoleUser || !u.IsActive {
				t.Fatalf("defaults wrong: %+v", u)
			}

			if err := security.CheckPassword(u.PasswordHash, "hunter2-long"); err != nil {
				t.Fatalf("stored hash does not match password: %v", err)
			}

			// the hash never leaves the API
			if strings.Contains(w.Body.String(), u.PasswordHash) {
				t.Fatal("password hash leaked in response body")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("hunter2-long")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	alice := user.User{
		ID:           uuid.New(),
		Email:        "a@b.com",
		Username:     "alice",
		Name:         "Alice",
		IsActive:     true,
		Role:         user.RoleUser,
		PasswordHash: hash,
	}

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantCookie     bool
	}{
		{
			name:           "success",
			body:           `{"username": "alice", "password": "hunter2-long"}`,
			wantStatusCode: http.StatusOK,
			wantCookie:     true,
		},
		{
			name:           "wrong_password",
			body:           `{"username": "alice", "password": "wrong-password"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "unknown_user",
			body:           `{"username": "mallory", "password": "hunter2-long"}`,
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "missing_fields",
			body:           `{"username": "alice"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			store := newFakeUserStore()
			store.add(alice)

			h, manager := newAuthFixture(store)
			r := setupRouter(http.MethodPost, "/auth/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if !tt.wantCookie {
				return
			}

			var token string
			for _, c := range w.Result().Cookies() {
				if c.Name == auth.CookieName {
					token = c.Value
				}
			}

			if token == "" {
				t.Fatal("auth cookie not set")
			}

			claims, err := manager.Verify(token)
			if err != nil {
				t.Fatalf("issued token does not verify: %v", err)
			}

			wantSubject := "alice" + auth.SubjectDelimiter + alice.ID.String()
			if claims.Subject != wantSubject {
				t.Fatalf("got subject %q, want %q", claims.Subject, wantSubject)
			}
		})
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h, _ := newAuthFixture(newFakeUserStore())
	r := setupRouter(http.MethodPost, "/auth/logout", h.Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	if w.Code != http.StatusNoContent {
		t.Fatalf("got status %d", w.Code)
	}

	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			if c.Value != "" || c.MaxAge >= 0 {
				t.Fatalf("cookie not cleared: %+v", c)
			}
			return
		}
	}

	t.Fatal("no auth cookie in response")
}

func TestMe(t *testing.T) {
	store := newFakeUserStore()

	hash, err := security.HashPassword("hunter2-long")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	alice := user.User{
		ID:           uuid.New(),
		Email:        "a@b.com",
		Username:     "alice",
		Name:         "Alice",
		IsActive:     true,
		Role:         user.RoleUser,
		PasswordHash: hash,
	}
	store.add(alice)

	h, manager := newAuthFixture(store)

	r := gin.New()
	r.Use(middlewares.Identity(manager))
	r.GET("/me", h.Me)

	authedGet := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if token != "" {
			req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
		}

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("anonymous", func(t *testing.T) {
		if w := authedGet(""); w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d", w.Code)
		}
	})

	t.Run("garbage_token", func(t *testing.T) {
		if w := authedGet("not-a-jwt"); w.Code != http.StatusUnauthorized {
			t.Fatalf("got status %d", w.Code)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		token, err := manager.Generate(alice.ID, alice.Username, alice.Role)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		w := authedGet(token)

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		var got user.User
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("bad response body: %v", err)
		}

		if got.ID != alice.ID || got.Username != "alice" {
			t.Fatalf("wrong user returned: %+v", got)
		}
	})

	t.Run("identity_without_row", func(t *testing.T) {
		token, err := manager.Generate(uuid.New(), "ghost", user.RoleUser)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		if w := authedGet(token); w.Code != http.StatusNotFound {
			t.Fatalf("got status %d", w.Code)
		}
	})
}
