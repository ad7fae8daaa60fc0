package auth

import (
	"context"
	"testing"
	"time"

	"github.com/mkravtsov/taskdeck/internal/auth/service"
	"github.com/mkravtsov/taskdeck/internal/common/clock"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
	userdomain "github.com/mkravtsov/taskdeck/internal/user/domain"
	userrepo "github.com/mkravtsov/taskdeck/internal/user/repository"
)

func newAuthService(t *testing.T, users *mockUserRepo, hasher *mockHasher) *service.AuthService {
	t.Helper()

	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", 30*time.Minute, clk)
	log, _ := logger.New("", "test", "ERROR")

	return service.NewAuthService(users, hasher, &mockIDGenerator{}, issuer, log)
}

func TestAuthService_Register_Success(t *testing.T) {
	var created userdomain.User
	users := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			created = user
			return nil
		},
	}
	svc := newAuthService(t, users, &mockHasher{})

	err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "pw123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if created.Username != "alice" {
		t.Errorf("expected username alice, got %s", created.Username)
	}
	if created.ID != "test-id" {
		t.Errorf("expected generated id, got %s", created.ID)
	}
	if created.PasswordHash == "pw123" || created.PasswordHash == "" {
		t.Errorf("password must be stored hashed, got %q", created.PasswordHash)
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	users := &mockUserRepo{
		createFunc: func(ctx context.Context, user userdomain.User) error {
			return userrepo.ErrUsernameAlreadyExists
		},
	}
	svc := newAuthService(t, users, &mockHasher{})

	err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: "pw123",
	})
	if err != service.ErrUsernameTaken {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthService_Register_ValidationFailures(t *testing.T) {
	cases := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"short username", "ab", "pw123", service.ErrValidationUsernameLength},
		{"long username", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "pw123", service.ErrValidationUsernameLength},
		{"invalid chars", "alice!", "pw123", service.ErrValidationUsernameChars},
		{"empty password", "alice", "", service.ErrValidationPasswordLength},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			users := &mockUserRepo{
				createFunc: func(ctx context.Context, user userdomain.User) error {
					called = true
					return nil
				},
			}
			svc := newAuthService(t, users, &mockHasher{})

			err := svc.Register(context.Background(), service.RegisterInput{
				Username: tc.username,
				Password: tc.password,
			})
			if err != tc.want {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if called {
				t.Error("repository must not be called on validation failure")
			}
		})
	}
}

func TestAuthService_Register_OverlongPasswordRejected(t *testing.T) {
	users := &mockUserRepo{}
	svc := newAuthService(t, users, &mockHasher{})

	long := make([]byte, 73)
	for i := range long {
		long[i] = 'x'
	}

	err := svc.Register(context.Background(), service.RegisterInput{
		Username: "alice",
		Password: string(long),
	})
	if err != service.ErrValidationPasswordLength {
		t.Errorf("expected ErrValidationPasswordLength, got %v", err)
	}
}
