package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BROKENGroupe/soundmap/internal/api"
	"github.com/BROKENGroupe/soundmap/internal/api/handlers"
	"github.com/BROKENGroupe/soundmap/internal/config"
	"github.com/BROKENGroupe/soundmap/internal/leakage"
	"github.com/BROKENGroupe/soundmap/internal/materials"
	"github.com/BROKENGroupe/soundmap/internal/metrics"
	"github.com/BROKENGroupe/soundmap/internal/processing"
	"github.com/BROKENGroupe/soundmap/internal/repository/postgres"
	"github.com/BROKENGroupe/soundmap/internal/storage"
	"github.com/BROKENGroupe/soundmap/pkg/models"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	version := config.GetStringOrDefault("APP_VERSION", "1.0.0")

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()
	if err := postgres.MigrateUp(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	sceneRepo := postgres.NewPostgresSceneRepository(db)
	renderRepo := postgres.NewPostgresRenderRepository(db)

	// Object storage
	store, err := storage.New(storage.Config{
		Driver:    cfg.AWS.StorageDriver,
		Bucket:    cfg.AWS.S3Bucket,
		Endpoint:  cfg.AWS.S3Endpoint,
		Region:    cfg.AWS.Region,
		AccessKey: cfg.AWS.AccessKeyID,
		SecretKey: cfg.AWS.SecretAccessKey,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create object store")
	}
	ensureCtx, cancelEnsure := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.EnsureBucket(ensureCtx); err != nil {
		log.Warn().Err(err).Str("bucket", cfg.AWS.S3Bucket).Msg("Could not verify bucket; renders will fail until it exists")
	}
	cancelEnsure()

	// Material catalog
	catalog := materials.Default()
	if cfg.Acoustic.MaterialsFile != "" {
		catalog, err = materials.LoadFile(cfg.Acoustic.MaterialsFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Acoustic.MaterialsFile).Msg("Failed to load material catalog")
		}
	}
	log.Info().Int("materials", len(catalog.List())).Msg("Material catalog ready")

	settings := processing.Settings{
		Leakage: leakage.Config{
			Margin: cfg.Acoustic.LeakMargin,
			Offset: cfg.Acoustic.LeakOffset,
			MinDB:  leakage.DefaultConfig().MinDB,
		},
		Power:           cfg.Acoustic.IDWPower,
		ThresholdNormal: cfg.Acoustic.ThresholdNormal,
		ThresholdHigh:   cfg.Acoustic.ThresholdHigh,
		Alpha:           255,
	}

	// Metrics and background renders
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	renderSvc := processing.NewRenderService(store, sceneRepo, renderRepo, catalog, settings)
	scheduler := processing.NewScheduler(renderSvc, cfg.Render.Timeout, m)

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(m.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Handle("/metrics", metrics.Handler(registry))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Soundmap API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Database = "ok"
		resp.Body.Time = time.Now()

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			log.Warn().Err(err).Msg("Database ping failed")
			resp.Body.Status = "degraded"
			resp.Body.Database = "unreachable"
		}
		return resp, nil
	})

	api.RegisterRoutes(humaAPI, api.Handlers{
		Acoustics:  handlers.NewAcousticsHandler(catalog, settings),
		Scenes:     handlers.NewSceneHandler(sceneRepo, catalog, settings),
		Renders:    handlers.NewRenderHandler(sceneRepo, renderRepo, store, scheduler, cfg.Acoustic.GridResolution),
		Simulation: handlers.NewSimulationHandler(catalog),
	})

	// Start server
	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", addr).Str("environment", cfg.Server.Env).Msg("Starting Soundmap API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	scheduler.Shutdown()

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
