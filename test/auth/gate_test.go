package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mkravtsov/taskdeck/internal/auth/gate"
	"github.com/mkravtsov/taskdeck/internal/common/clock"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
	userdomain "github.com/mkravtsov/taskdeck/internal/user/domain"
	userrepo "github.com/mkravtsov/taskdeck/internal/user/repository"
)

func newGate(t *testing.T, users *mockUserRepo, clk clock.Clock) func(http.Handler) http.Handler {
	t.Helper()
	issuer := newTestIssuer(t, testSecret, "HS256", 30*time.Minute, clk)
	log, _ := logger.New("", "test", "ERROR")
	return gate.Middleware(issuer, users, log)
}

func runGate(middleware func(http.Handler) http.Handler, authorization string) (*httptest.ResponseRecorder, userdomain.User, bool) {
	var seen userdomain.User
	var ok bool

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, ok = gate.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec, seen, ok
}

func TestGate_MissingAuthorizationHeader(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	middleware := newGate(t, &mockUserRepo{}, clk)

	rec, _, ok := runGate(middleware, "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if ok {
		t.Error("handler must not run without authorization")
	}
}

func TestGate_NonBearerScheme(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	middleware := newGate(t, &mockUserRepo{}, clk)

	rec, _, _ := runGate(middleware, "Basic dXNlcjpwYXNz")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestGate_InvalidToken(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	middleware := newGate(t, &mockUserRepo{}, clk)

	rec, _, ok := runGate(middleware, "Bearer garbage")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if ok {
		t.Error("handler must not run with an invalid token")
	}
}

func TestGate_ExpiredToken(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(start)
	issuer := newTestIssuer(t, testSecret, "HS256", 30*time.Minute, clk)
	log, _ := logger.New("", "test", "ERROR")
	middleware := gate.Middleware(issuer, &mockUserRepo{}, log)

	tokenString, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clk.Advance(31 * time.Minute)
	rec, _, _ := runGate(middleware, "Bearer "+tokenString)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for expired token, got %d", rec.Code)
	}
}

// A token whose subject was deleted after issuance must produce the exact
// same response as a forged token, so a caller cannot probe which accounts
// exist.
func TestGate_VanishedSubjectMatchesInvalidTokenResponse(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", 30*time.Minute, clk)
	log, _ := logger.New("", "test", "ERROR")

	users := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{}, userrepo.ErrUserNotFound
		},
	}
	middleware := gate.Middleware(issuer, users, log)

	tokenString, err := issuer.Issue("ghost")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	vanished, _, _ := runGate(middleware, "Bearer "+tokenString)
	forged, _, _ := runGate(middleware, "Bearer garbage")

	if vanished.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for vanished subject, got %d", vanished.Code)
	}
	if vanished.Code != forged.Code || vanished.Body.String() != forged.Body.String() {
		t.Errorf("responses differ:\nvanished: %d %s\nforged:   %d %s",
			vanished.Code, vanished.Body.String(), forged.Code, forged.Body.String())
	}
}

func TestGate_ValidTokenResolvesUser(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", 30*time.Minute, clk)
	log, _ := logger.New("", "test", "ERROR")

	users := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			if username != "alice" {
				return userdomain.User{}, userrepo.ErrUserNotFound
			}
			return userdomain.User{ID: "user-1", Username: "alice"}, nil
		},
	}
	middleware := gate.Middleware(issuer, users, log)

	tokenString, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec, seen, ok := runGate(middleware, "Bearer "+tokenString)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !ok {
		t.Fatal("expected user in request context")
	}
	if seen.ID != "user-1" || seen.Username != "alice" {
		t.Errorf("unexpected user in context: %+v", seen)
	}
}

func TestGate_UserLookupFailure(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", 30*time.Minute, clk)
	log, _ := logger.New("", "test", "ERROR")

	users := &mockUserRepo{
		findByUsernameFunc: func(ctx context.Context, username string) (userdomain.User, error) {
			return userdomain.User{}, context.DeadlineExceeded
		},
	}
	middleware := gate.Middleware(issuer, users, log)

	tokenString, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	rec, _, _ := runGate(middleware, "Bearer "+tokenString)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 for lookup failure, got %d", rec.Code)
	}
}
