package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/trialdash/patient-api/internal/config"
	"github.com/trialdash/patient-api/internal/handler"
	noteHandler "github.com/trialdash/patient-api/internal/handler/note"
	patientHandler "github.com/trialdash/patient-api/internal/handler/patient"
	preferenceHandler "github.com/trialdash/patient-api/internal/handler/preference"
	sessionHandler "github.com/trialdash/patient-api/internal/handler/session"
	"github.com/trialdash/patient-api/internal/middleware"
	"github.com/trialdash/patient-api/internal/repository/postgres"
	"github.com/trialdash/patient-api/internal/router"
	adherenceService "github.com/trialdash/patient-api/internal/service/adherence"
	noteService "github.com/trialdash/patient-api/internal/service/note"
	patientService "github.com/trialdash/patient-api/internal/service/patient"
	preferenceService "github.com/trialdash/patient-api/internal/service/preference"
	sessionService "github.com/trialdash/patient-api/internal/service/session"
	"github.com/trialdash/patient-api/internal/storage"
	"github.com/trialdash/patient-api/internal/worker"
	"github.com/trialdash/patient-api/pkg/logger"
	"github.com/trialdash/patient-api/pkg/metrics"
	"github.com/trialdash/patient-api/pkg/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level: logger.ParseLevel(cfg.Logging.Level),
	})

	if err := validator.RegisterValidations(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize Redis for UI preferences
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()

	appMetrics := metrics.NewMetrics("trialdash", "api")

	// Initialize session file storage
	store, err := storage.NewS3Store(context.Background(), cfg.Storage, appMetrics)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize session file storage")
	}

	// Initialize repositories
	patientRepo := postgres.NewPatientRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	noteRepo := postgres.NewNoteRepository(db)

	// Initialize services
	adherenceSvc := adherenceService.NewService(sessionRepo, cfg.Trial, appMetrics, appLogger)
	patientSvc := patientService.NewService(patientRepo, adherenceSvc, appLogger)
	sessionSvc := sessionService.NewService(store, sessionRepo, cfg.Trial, appLogger)
	noteSvc := noteService.NewService(noteRepo)
	preferenceSvc := preferenceService.NewService(preferenceService.NewRedisStore(redisClient), appMetrics)

	// Initialize handlers
	h := handler.NewHandler(db, redisClient)
	r := router.NewRouter(h,
		router.Config{
			RequestTimeout: cfg.Server.RequestTimeout,
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "trialdash",
		},
		patientHandler.NewHandler(patientSvc),
		sessionHandler.NewHandler(sessionSvc, patientSvc),
		noteHandler.NewHandler(noteSvc),
		preferenceHandler.NewHandler(preferenceSvc),
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start session counter refresher
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	refresher := worker.NewSessionRefreshWorker(patientRepo, cfg.Trial.RefreshInterval, appMetrics, appLogger)
	go refresher.Start(workerCtx)

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
