package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mkravtsov/taskdeck/internal/common/clock"
	commoncrypto "github.com/mkravtsov/taskdeck/internal/common/crypto"
	"github.com/mkravtsov/taskdeck/internal/observability/metrics"
)

var (
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")

	// Validation failures. Validate returns exactly one of these; callers
	// must not surface anything more specific to the client.
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformedSubject = errors.New("missing or malformed subject claim")
)

// Issuer mints and validates stateless bearer tokens. Validation is a pure
// function of the token, the secret and the clock; there is no revocation
// state.
type Issuer struct {
	secret      []byte
	method      jwt.SigningMethod
	ttl         time.Duration
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
}

func NewIssuer(
	secret string,
	algorithm string,
	ttl time.Duration,
	idGenerator commoncrypto.IDGenerator,
	clk clock.Clock,
) (*Issuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}

	return &Issuer{
		secret:      []byte(secret),
		method:      method,
		ttl:         ttl,
		idGenerator: idGenerator,
		clock:       clk,
	}, nil
}

func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token whose subject is the username; expiry is absolute
// (now + ttl).
func (i *Issuer) Issue(username string) (string, error) {
	jti, err := i.idGenerator.NewID()
	if err != nil {
		return "", err
	}

	now := i.clock.Now()
	claims := jwt.MapClaims{
		"sub": username,
		"jti": jti,
		"exp": now.Add(i.ttl).Unix(),
		"iat": now.Unix(),
	}

	t := jwt.NewWithClaims(i.method, claims)
	tokenString, err := t.SignedString(i.secret)
	if err != nil {
		return "", err
	}

	metrics.AccessTokensIssued.Inc()
	return tokenString, nil
}

// Validate verifies signature and expiry and returns the subject username.
// Tokens signed with a method other than the configured one are rejected
// as invalid signatures.
func (i *Issuer) Validate(tokenString string) (string, error) {
	metrics.JWTValidationsTotal.Inc()

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithTimeFunc(i.clock.Now),
	)

	parsed, err := parser.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return i.secret, nil
	})
	if err != nil || !parsed.Valid {
		metrics.JWTValidationsFailed.Inc()
		switch {
		case err != nil && errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		case err != nil && errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrInvalidSignature
		}
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.JWTValidationsFailed.Inc()
		return "", ErrInvalidSignature
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		metrics.JWTValidationsFailed.Inc()
		return "", ErrMalformedSubject
	}

	return sub, nil
}
