package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"grimoires/internal/auth"
	"grimoires/internal/config"
	"grimoires/internal/handler"
	"grimoires/internal/handler/sse"
	"grimoires/internal/middleware"
	"grimoires/internal/repository"
	"grimoires/internal/service"
	"grimoires/internal/telemetry"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"storage", cfg.StorageDriver,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTelEndpoint, cfg.OTelServiceName, cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to set up tracing: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	// JWT verification is skipped in dev when no JWKS endpoint is configured
	var jwtVerifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		jwtVerifier, err = auth.NewJWTVerifier(ctx, cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	} else if cfg.IsDev() {
		logger.Warn("DEV MODE: authentication disabled, requests run as the dev user",
			"dev_user_id", cfg.DevUserID,
		)
	} else {
		log.Fatalf("AUTH_JWKS_URL is required outside the dev environment")
	}

	repos, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer repos.Close()

	registry, err := service.SetupRules(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}

	images, err := service.SetupImageStore(cfg, registry)
	if err != nil {
		log.Fatalf("Failed to set up image store: %v", err)
	}

	services := service.SetupServices(repos, registry, images, cfg, logger)
	logger.Info("services initialized")

	handlers := &handler.Handlers{
		Game:      handler.NewGameHandler(services.Games, logger),
		Structure: handler.NewStructureHandler(services.Structures, logger),
		Note:      handler.NewNoteHandler(services.Notes, logger),
		Reference: handler.NewReferenceHandler(services.References, logger),
		Character: handler.NewCharacterHandler(services.Characters, services.Images, logger),
		Image:     handler.NewImageHandler(services.Images, logger),
		Chat:      handler.NewChatHandler(services.Chat, sse.DefaultConfig(), logger),
		Rules:     handler.NewRulesHandler(registry),
	}

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handlers)

	// Uploaded pictures are public
	imageRoute := cfg.ImageRoutePrefix()
	mux.Handle("GET "+imageRoute, http.StripPrefix(imageRoute, http.FileServer(http.Dir(images.Root()))))

	// Build middleware chain
	var h http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Tracing → Recovery → Logging → Auth → Routes
	h = middleware.AuthMiddleware(jwtVerifier, cfg.DevUserID, logger, imageRoute)(h)
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Tracing()(h)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", "Last-Event-ID", middleware.DevUserHeader},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		BaseContext:  func(net.Listener) context.Context { return ctx },
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", "error", err)
	}
}
