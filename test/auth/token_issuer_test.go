package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkravtsov/taskdeck/internal/auth/token"
	"github.com/mkravtsov/taskdeck/internal/common/clock"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func newTestIssuer(t *testing.T, secret string, algorithm string, ttl time.Duration, clk clock.Clock) *token.Issuer {
	t.Helper()
	issuer, err := token.NewIssuer(secret, algorithm, ttl, &mockIDGenerator{}, clk)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return issuer
}

func TestTokenIssuer_RejectsNonHMACAlgorithm(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	for _, algorithm := range []string{"RS256", "ES256", "none", "bogus"} {
		_, err := token.NewIssuer(testSecret, algorithm, time.Hour, &mockIDGenerator{}, clk)
		if !errors.Is(err, token.ErrUnsupportedAlgorithm) {
			t.Errorf("algorithm %q: expected ErrUnsupportedAlgorithm, got %v", algorithm, err)
		}
	}
}

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", 30*time.Minute, clk)

	tokenString, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	username, err := issuer.Validate(tokenString)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if username != "alice" {
		t.Errorf("expected subject alice, got %s", username)
	}
}

func TestTokenIssuer_ExpiryBoundary(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ttl := 30 * time.Minute
	clk := clock.NewMockClock(start)
	issuer := newTestIssuer(t, testSecret, "HS256", ttl, clk)

	tokenString, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clk.SetTime(start.Add(ttl - time.Second))
	if _, err := issuer.Validate(tokenString); err != nil {
		t.Errorf("token should still be valid just before expiry, got %v", err)
	}

	clk.SetTime(start.Add(ttl + time.Second))
	if _, err := issuer.Validate(tokenString); !errors.Is(err, token.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired after expiry, got %v", err)
	}
}

func TestTokenIssuer_ZeroTTLExpiresImmediately(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMockClock(start)
	issuer := newTestIssuer(t, testSecret, "HS256", 0, clk)

	tokenString, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	clk.Advance(time.Second)
	if _, err := issuer.Validate(tokenString); !errors.Is(err, token.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_TamperedPayloadRejected(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", time.Hour, clk)

	tokenString, err := issuer.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		t.Fatalf("expected 3 token segments, got %d", len(parts))
	}

	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := issuer.Validate(tampered); !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature for tampered payload, got %v", err)
	}
}

func TestTokenIssuer_WrongSecretRejected(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", time.Hour, clk)
	other := newTestIssuer(t, "another-secret-also-32-bytes-long!!!", "HS256", time.Hour, clk)

	tokenString, err := other.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Validate(tokenString); !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature for foreign secret, got %v", err)
	}
}

func TestTokenIssuer_WrongMethodRejected(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", time.Hour, clk)
	hs512 := newTestIssuer(t, testSecret, "HS512", time.Hour, clk)

	tokenString, err := hs512.Issue("alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issuer.Validate(tokenString); !errors.Is(err, token.ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature for mismatched method, got %v", err)
	}
}

func TestTokenIssuer_MissingSubjectRejected(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", time.Hour, clk)

	claims := jwt.MapClaims{
		"jti": "no-subject",
		"exp": clk.Now().Add(time.Hour).Unix(),
		"iat": clk.Now().Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := issuer.Validate(tokenString); !errors.Is(err, token.ErrMalformedSubject) {
		t.Errorf("expected ErrMalformedSubject, got %v", err)
	}
}

func TestTokenIssuer_GarbageRejected(t *testing.T) {
	clk := clock.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	issuer := newTestIssuer(t, testSecret, "HS256", time.Hour, clk)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Validate(input); !errors.Is(err, token.ErrInvalidSignature) {
			t.Errorf("input %q: expected ErrInvalidSignature, got %v", input, err)
		}
	}
}
