package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	boardhttp "github.com/boardsync/backend/internal/board/http"
	boardrepo "github.com/boardsync/backend/internal/board/repository"
	boardservice "github.com/boardsync/backend/internal/board/service"
	"github.com/boardsync/backend/internal/common/clock"
	"github.com/boardsync/backend/internal/common/config"
	"github.com/boardsync/backend/internal/common/db"
	commonhttp "github.com/boardsync/backend/internal/common/http"
	"github.com/boardsync/backend/internal/common/httpmetrics"
	"github.com/boardsync/backend/internal/common/jwtverify"
	"github.com/boardsync/backend/internal/common/logger"
	srv "github.com/boardsync/backend/internal/common/server"
	"github.com/boardsync/backend/internal/session"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "board", os.Getenv("LOG_LEVEL"))
	if err != nil {
		panic(err)
	}

	cfg, err := config.LoadBoardConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	verifier, err := jwtverify.New(cfg.KeycloakPublicKey, cfg.TokenAudience)
	if err != nil {
		log.Fatalf("failed to build token verifier: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	repo := boardrepo.NewPgRepository(pool)

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := repo.EnsureSchema(schemaCtx); err != nil {
		schemaCancel()
		log.Fatalf("failed to ensure schema: %v", err)
	}
	schemaCancel()

	boards := boardservice.NewBoardService(repo, clock.NewRealClock(), log)
	hub := session.NewHub(log)

	boardHandler := boardhttp.NewHandler(boards, cfg, log)
	wsHandler := session.NewHandler(hub, verifier, cfg, log)

	jwtMw := jwtverify.Middleware(verifier, log)

	restMux := http.NewServeMux()
	restMux.HandleFunc("/health", commonhttp.HealthHandler(log))
	restMux.Handle("/metrics", promhttp.Handler())
	restMux.Handle("/api/user", jwtMw(boardHandler))
	restMux.Handle("/api/whiteboards", jwtMw(boardHandler))
	restMux.Handle("/api/whiteboards/", jwtMw(boardHandler))

	metricsMw := httpmetrics.New()
	recovery := commonhttp.RecoveryMiddleware(log)
	traceID := commonhttp.TraceIDMiddleware
	cors := commonhttp.CORSMiddleware(cfg.AllowedOrigin)
	maxSize := commonhttp.MaxRequestSizeMiddleware(commonhttp.DefaultMaxRequestSize)
	wrappedRestMux := recovery(traceID(cors(maxSize(metricsMw.Wrap(restMux)))))

	mainMux := http.NewServeMux()
	mainMux.Handle("/whiteboard/", wsHandler)
	mainMux.Handle("/", wrappedRestMux)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), mainMux)

	srv.StartWithGracefulShutdown(server, log, "board")
}
