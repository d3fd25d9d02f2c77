package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"draftdeck/internal/auth"
	"draftdeck/internal/config"
	"draftdeck/internal/export"
	"draftdeck/internal/handler"
	"draftdeck/internal/middleware"
	"draftdeck/internal/prompts"
	"draftdeck/internal/repository/postgres"
	"draftdeck/internal/service"
	serviceLLM "draftdeck/internal/service/llm"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier: JWKS against the identity provider when
	// configured, HS256 shared secret otherwise
	var jwtVerifier auth.JWTVerifier
	var err error
	if cfg.JWKSURL != "" {
		jwtVerifier, err = auth.NewJWKSVerifier(cfg.JWKSURL, logger)
	} else {
		jwtVerifier, err = auth.NewLocalVerifier(cfg.JWTSecret, logger)
	}
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	sectionRepo := postgres.NewSectionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Initialize prompt registry
	promptRegistry, err := prompts.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize prompt registry: %v", err)
	}

	// Setup text provider
	provider, err := serviceLLM.SetupProvider(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup text provider: %v", err)
	}

	// Create services
	docService := service.NewDocumentService(docRepo, sectionRepo, provider, promptRegistry, txManager, logger)
	sectionService := service.NewSectionService(sectionRepo, docRepo, provider, promptRegistry, txManager, logger)
	exportService := service.NewExportService(docRepo, sectionRepo, export.NewRegistry(), logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	sectionHandler := handler.NewSectionHandler(sectionService, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)
	mux.HandleFunc("POST /api/documents/{id}/generate", docHandler.GenerateDocument)
	mux.HandleFunc("GET /api/documents/{id}/export", exportHandler.ExportDocument)

	// Section routes
	mux.HandleFunc("PATCH /api/sections/{id}", sectionHandler.UpdateSection)
	mux.HandleFunc("POST /api/sections/{id}/refine", sectionHandler.RefineSection)
	mux.HandleFunc("POST /api/sections/{id}/regenerate", sectionHandler.RegenerateSection)
	mux.HandleFunc("POST /api/sections/{id}/feedback", sectionHandler.SetFeedback)
	mux.HandleFunc("POST /api/sections/{id}/comment", sectionHandler.AddComment)

	// Build middleware chain
	var root http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	root = middleware.AuthMiddleware(jwtVerifier)(root)
	root = middleware.Recovery(logger)(root)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	// Create HTTP server. Write timeout covers the slowest path, a 50-page
	// generation with a sequential provider call per page.
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
