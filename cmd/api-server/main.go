package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	_ "github.com/aerolinkhq/aerolink-api/api/swagger"
	"github.com/aerolinkhq/aerolink-api/internal/handler"
	"github.com/aerolinkhq/aerolink-api/internal/middleware"
	"github.com/aerolinkhq/aerolink-api/internal/repository"
	"github.com/aerolinkhq/aerolink-api/internal/service"
	"github.com/aerolinkhq/aerolink-api/pkg/cache"
	"github.com/aerolinkhq/aerolink-api/pkg/config"
	"github.com/aerolinkhq/aerolink-api/pkg/database"
	"github.com/aerolinkhq/aerolink-api/pkg/logger"
	corsmiddleware "github.com/aerolinkhq/aerolink-api/pkg/middleware/cors"
	reqidmiddleware "github.com/aerolinkhq/aerolink-api/pkg/middleware/requestid"
	"github.com/aerolinkhq/aerolink-api/pkg/storage"
)

// @title AeroLink API
// @version 1.0.0
// @description Flight operations API: airports, fleet, flights, crew rostering and bookings
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(redisClient)
		}
	}

	uploads, err := storage.NewLocalStorage(cfg.Uploads.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	exportsStore, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)

	// Repositories.
	userRepo := repository.NewUserRepository(db)
	airportRepo := repository.NewAirportRepository(db)
	aircraftRepo := repository.NewAircraftRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	crewRepo := repository.NewCrewRepository(db)
	passengerRepo := repository.NewPassengerRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	exportRepo := repository.NewExportRepository(db)

	// Services.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := service.NewMetricsService(registry)

	authService := service.NewAuthService(userRepo, crewRepo, passengerRepo, cfg.JWT, logr)
	userService := service.NewUserService(userRepo, logr)
	airportService := service.NewAirportService(airportRepo, logr)
	aircraftService := service.NewAircraftService(aircraftRepo, logr)

	var flightCache service.FlightCache
	if cacheRepo != nil {
		flightCache = cacheRepo
	}
	flightService := service.NewFlightService(flightRepo, airportRepo, aircraftRepo, flightCache, cfg.Cache, logr)
	crewService := service.NewCrewService(crewRepo, userRepo, logr)
	passengerService := service.NewPassengerService(passengerRepo, userRepo, logr)
	adminService := service.NewAdminService(adminRepo, userRepo, logr)
	assignmentService := service.NewAssignmentService(assignmentRepo, flightRepo, crewRepo, logr)
	bookingService := service.NewBookingService(bookingRepo, flightRepo, userRepo, cfg.Booking, logr)
	exportService := service.NewExportService(exportRepo, flightRepo, exportsStore, signer, cfg.Exports, logr)

	exportService.Start(ctx)
	defer exportService.Stop()

	// HTTP layer.
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(reqidmiddleware.Middleware())
	engine.Use(logger.GinMiddleware(logr))
	engine.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	engine.Use(middleware.Metrics(metrics))

	router := &handler.Router{
		Auth:        handler.NewAuthHandler(authService),
		Airports:    handler.NewAirportHandler(airportService),
		Aircraft:    handler.NewAircraftHandler(aircraftService),
		Flights:     handler.NewFlightHandler(flightService, uploads, cfg.Uploads),
		Crew:        handler.NewCrewHandler(crewService),
		Passengers:  handler.NewPassengerHandler(passengerService),
		Admins:      handler.NewAdminHandler(adminService, userService),
		Assignments: handler.NewAssignmentHandler(assignmentService),
		Bookings:    handler.NewBookingHandler(bookingService, metrics),
		Exports:     handler.NewExportHandler(exportService, metrics),
		AuthService: authService,
		Registry:    registry,
		EnableDocs:  cfg.Env != config.EnvProduction,
	}
	router.Register(engine, cfg.APIPrefix)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
