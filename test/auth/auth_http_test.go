package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authhttp "github.com/mkravtsov/taskdeck/internal/auth/http"
	"github.com/mkravtsov/taskdeck/internal/common/config"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
	userdomain "github.com/mkravtsov/taskdeck/internal/user/domain"
	userrepo "github.com/mkravtsov/taskdeck/internal/user/repository"
)

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newAuthHandler(t *testing.T, users *mockUserRepo, hasher *mockHasher) http.Handler {
	t.Helper()
	svc := newAuthService(t, users, hasher)
	log, _ := logger.New("", "test", "ERROR")
	cfg := config.AppConfig{RequestTimeout: 30 * time.Second}
	return authhttp.NewHandler(svc, cfg, log)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return env
}

func TestAuthHTTP_Register_Success(t *testing.T) {
	users := &mockUserRepo{}
	h := newAuthHandler(t, users, &mockHasher{})

	rec := postJSON(t, h, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "pw123",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Message != "user registered" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
}

func TestAuthHTTP_Register_InvalidJSON(t *testing.T) {
	h := newAuthHandler(t, &mockUserRepo{}, &mockHasher{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "INVALID_JSON" {
		t.Errorf("expected code INVALID_JSON, got %s", env.Code)
	}
}

func TestAuthHTTP_Register_MissingFields(t *testing.T) {
	h := newAuthHandler(t, &mockUserRepo{}, &mockHasher{})

	rec := postJSON(t, h, "/api/auth/register", map[string]string{"username": "alice"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "VALIDATION_FAILED" {
		t.Errorf("expected code VALIDATION_FAILED, got %s", env.Code)
	}
}

func TestAuthHTTP_Register_DuplicateUsername(t *testing.T) {
	users := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			return userrepo.ErrUsernameAlreadyExists
		},
	}
	h := newAuthHandler(t, users, &mockHasher{})

	rec := postJSON(t, h, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "pw123",
	})

	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "USERNAME_TAKEN" {
		t.Errorf("expected code USERNAME_TAKEN, got %s", env.Code)
	}
}

func TestAuthHTTP_Register_MethodNotAllowed(t *testing.T) {
	h := newAuthHandler(t, &mockUserRepo{}, &mockHasher{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/register", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestAuthHTTP_Login_Success(t *testing.T) {
	users := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{ID: "user-1", Username: "alice", PasswordHash: "hashed:pw123"}, nil
		},
	}
	h := newAuthHandler(t, users, &mockHasher{})

	rec := postJSON(t, h, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "pw123",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected a non-empty access_token")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("expected token_type bearer, got %q", resp.TokenType)
	}
}

func TestAuthHTTP_Login_InvalidCredentials(t *testing.T) {
	users := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{}, userrepo.ErrUserNotFound
		},
	}
	h := newAuthHandler(t, users, &mockHasher{})

	rec := postJSON(t, h, "/api/auth/login", map[string]string{
		"username": "nobody",
		"password": "pw123",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if env := decodeEnvelope(t, rec); env.Code != "INVALID_CREDENTIALS" {
		t.Errorf("expected code INVALID_CREDENTIALS, got %s", env.Code)
	}
}
