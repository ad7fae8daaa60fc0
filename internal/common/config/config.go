package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mkravtsov/taskdeck/internal/common/constants"
	commonerrors "github.com/mkravtsov/taskdeck/internal/common/errors"
)

// AppConfig is built once at startup and treated as immutable afterwards.
// Components receive it (or individual values) through their constructors.
type AppConfig struct {
	HTTPPort       string
	DatabaseURL    string
	JWTSecret      string
	JWTAlgorithm   string
	AccessTokenTTL time.Duration
	RequestTimeout time.Duration
	LogDir         string
	LogLevel       string
}

func Load() (AppConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return AppConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return AppConfig{}, err
	}

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return AppConfig{}, err
	}

	return AppConfig{
		HTTPPort:       getEnv("HTTP_PORT", constants.DefaultHTTPPort),
		DatabaseURL:    databaseURL,
		JWTSecret:      jwtSecret,
		JWTAlgorithm:   getEnv("JWT_ALGORITHM", "HS256"),
		AccessTokenTTL: getMinutesEnv("ACCESS_TOKEN_TTL_MINUTES", constants.DefaultAccessTokenTTL),
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", constants.DefaultRequestTimeout),
		LogDir:         os.Getenv("LOG_DIR"),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getMinutesEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	m, err := strconv.Atoi(v)
	if err != nil || m <= 0 {
		return fallback
	}
	return time.Duration(m) * time.Minute
}
