package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/docs"
	"github.com/Hillarymukuka/ancestrabusiness/internal/application/pos"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/apiclient"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/config"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/logger"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/metrics"
	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/telemetry"
	"github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/handler"
	"github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/middleware"
	"github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Ancestra POS Console API
//	@version		1.0
//	@description	Point-of-sale console over the Ancestra business API: catalog, cart, stock guard, sale submission, receipts and history.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Business API access token. Format: "Bearer {token}"

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting point-of-sale console",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("api", cfg.API.APIRoot()),
		zap.String("version", version),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServerAddress,
		ApplicationName:   cfg.Telemetry.ServiceName,
		BasicAuthUser:     cfg.Telemetry.ProfilingBasicAuthUser,
		BasicAuthPassword: cfg.Telemetry.ProfilingBasicAuthPass,
		ProfileTypes:      cfg.Telemetry.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	// The profiler must be running before spans are labelled.
	if profiler.IsEnabled() && cfg.Telemetry.SpanProfiles {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	recorder := metrics.NewRecorder(metrics.DefaultConfig())

	client, err := apiclient.NewClient(apiclient.Config{
		BaseURL:       cfg.API.APIRoot(),
		Timeout:       cfg.API.Timeout,
		TLSSkipVerify: cfg.API.TLSSkipVerify,
		UserAgent:     cfg.API.UserAgent,
		Retry: apiclient.RetryConfig{
			MaxRetries: cfg.API.MaxRetries,
			RetryDelay: cfg.API.RetryDelay,
		},
	}, apiclient.WithObserver(recorder))
	if err != nil {
		log.Fatal("Failed to create business API client", zap.Error(err))
	}
	if cfg.API.TLSSkipVerify {
		log.Warn("TLS verification of the business API is disabled")
	}

	registry := pos.NewSessionRegistry(client, recorder, log, pos.RegistryConfig{
		IdleTTL:       cfg.Session.IdleTTL,
		SweepInterval: cfg.Session.SweepInterval,
		Terminal: pos.TerminalConfig{
			SearchLimit: cfg.Catalog.SearchLimit,
		},
	})
	go registry.Run(ctx)

	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to configure request validation", zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	// Middleware order matters:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Open the server span (if enabled)
	// 3. Logger - Log requests with the request and trace IDs
	// 4. Recovery - Catch panics
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. BodyLimit - Limit request body size
	// 9. Metrics - Count requests by route
	// 10. Profiling - Label profile samples by route (if profiling)
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tracerProvider.IsEnabled(),
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure(cfg.IsProduction()))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORS(corsConfig))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, 10*time.Minute)
		go limiter.Run(ctx)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.Metrics.Enabled {
		engine.Use(recorder.GinMiddleware())
	}
	if profiler.IsEnabled() {
		profilingConfig := middleware.DefaultProfilingConfig()
		profilingConfig.SkipPaths = append(profilingConfig.SkipPaths, cfg.Metrics.Path)
		engine.Use(middleware.Profiling(profilingConfig))
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, registry)
	session := middleware.Session(middleware.SessionConfig{Registry: registry})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.RegisterRoot(router.NewHealthRoutes(systemHandler))
	if cfg.Metrics.Enabled {
		r.RegisterRoot(router.NewMetricsRoutes(cfg.Metrics.Path, recorder.Handler()))
	}
	docs.SwaggerInfo.Version = version
	r.RegisterRoot(router.NewSwaggerRoutes(
		middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	))
	r.Register(router.NewSystemRoutes(systemHandler)).
		Register(router.NewPOSRoutes(handler.NewPOSHandler(), session))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Stop the sweepers first; in-flight sales keep running until Shutdown returns.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Failed to flush profiles", zap.Error(err))
	}

	log.Info("Server exited gracefully", zap.Int("open_sessions", registry.Len()))
}
