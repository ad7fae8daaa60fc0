package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkravtsov/taskdeck/internal/auth/gate"
	authhttp "github.com/mkravtsov/taskdeck/internal/auth/http"
	authservice "github.com/mkravtsov/taskdeck/internal/auth/service"
	"github.com/mkravtsov/taskdeck/internal/auth/token"
	"github.com/mkravtsov/taskdeck/internal/common/clock"
	"github.com/mkravtsov/taskdeck/internal/common/config"
	commoncrypto "github.com/mkravtsov/taskdeck/internal/common/crypto"
	"github.com/mkravtsov/taskdeck/internal/common/db"
	commonhttp "github.com/mkravtsov/taskdeck/internal/common/http"
	"github.com/mkravtsov/taskdeck/internal/common/logger"
	srv "github.com/mkravtsov/taskdeck/internal/common/server"
	taskhttp "github.com/mkravtsov/taskdeck/internal/task/http"
	taskrepo "github.com/mkravtsov/taskdeck/internal/task/repository"
	taskservice "github.com/mkravtsov/taskdeck/internal/task/service"
	userrepo "github.com/mkravtsov/taskdeck/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to load config: %v\n", err))
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogDir, "api", cfg.LogLevel)
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	if err := db.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	userRepo := userrepo.NewPgRepository(pool)
	taskRepo := taskrepo.NewPgRepository(pool)
	hasher := &commoncrypto.BcryptHasher{}
	idGenerator := commoncrypto.NewUUIDGenerator()

	issuer, err := token.NewIssuer(
		cfg.JWTSecret,
		cfg.JWTAlgorithm,
		cfg.AccessTokenTTL,
		idGenerator,
		clock.NewRealClock(),
	)
	if err != nil {
		log.Fatalf("failed to build token issuer: %v", err)
	}

	authSvc := authservice.NewAuthService(userRepo, hasher, idGenerator, issuer, log)
	taskSvc := taskservice.NewService(taskRepo, log)

	gateMiddleware := gate.Middleware(issuer, userRepo, log)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authhttp.NewHandler(authSvc, cfg, log))
	mux.Handle("/api/", taskhttp.NewHandler(taskSvc, gateMiddleware, cfg, log))
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())

	handler := commonhttp.BuildBaseHandler(log, mux)

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort)
	server := srv.NewServer(serverConfig, handler)

	srv.StartWithGracefulShutdown(server, log, "api")
}
