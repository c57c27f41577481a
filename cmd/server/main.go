package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	alertapp "github.com/sellerdesk/panel/internal/application/alerting"
	panelapp "github.com/sellerdesk/panel/internal/application/panel"
	"github.com/sellerdesk/panel/internal/infrastructure/audio"
	"github.com/sellerdesk/panel/internal/infrastructure/auth"
	"github.com/sellerdesk/panel/internal/infrastructure/config"
	"github.com/sellerdesk/panel/internal/infrastructure/dedup"
	"github.com/sellerdesk/panel/internal/infrastructure/logger"
	"github.com/sellerdesk/panel/internal/infrastructure/storage"
	"github.com/sellerdesk/panel/internal/infrastructure/telemetry"
	"github.com/sellerdesk/panel/internal/infrastructure/upstream"
	"github.com/sellerdesk/panel/internal/interfaces/http/handler"
	"github.com/sellerdesk/panel/internal/interfaces/http/middleware"
	"github.com/sellerdesk/panel/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting seller panel",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Upstream commerce-backend client
	upstreamClient, err := upstream.NewClient(&upstream.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		Token:          cfg.Upstream.Token,
		TimeoutSeconds: cfg.Upstream.TimeoutSeconds,
	}, log)
	if err != nil {
		log.Fatal("Failed to create upstream client", zap.Error(err))
	}

	// Alarm playback
	player := audio.NewExecPlayer(cfg.Audio.Command, nil, cfg.Audio.Source)
	alarm := audio.NewAlarm(player, log)
	if err := alarm.Initialize(); err != nil {
		// Playback stays locked until the first user interaction; the
		// alert pipeline itself keeps working.
		log.Warn("Alarm initialization failed, audio deferred until first interaction", zap.Error(err))
	}

	// Dedup registry
	var registry dedup.Registry
	switch cfg.Dedup.Backend {
	case "redis":
		redisRegistry, err := dedup.NewRedisRegistry(dedup.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis for dedup registry", zap.Error(err))
		}
		registry = redisRegistry
		log.Info("Dedup registry using Redis",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
	default:
		registry = dedup.NewInMemoryRegistry()
		log.Info("Dedup registry using in-process memory")
	}

	// Alert gate and notification poller
	gate := alertapp.NewAlertGate(alertapp.GateConfig{
		CloseDelay:    cfg.Alert.CloseDelay,
		DetailTimeout: cfg.Alert.DetailTimeout,
	}, alarm, upstreamClient, log)

	poller := alertapp.NewNotificationPoller(alertapp.PollerConfig{
		Interval:     cfg.Alert.PollInterval,
		FetchTimeout: cfg.Alert.FetchTimeout,
	}, upstreamClient, registry, gate, log)

	// Attachment storage
	var attachmentStore storage.AttachmentStore
	if cfg.Storage.Backend == "s3" {
		s3Store, err := storage.NewS3AttachmentStore(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 attachment store", zap.Error(err))
		}
		attachmentStore = s3Store
		log.Info("Attachment storage using S3", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		attachmentStore = storage.NewStubAttachmentStore()
		log.Info("Attachment storage using in-memory stub")
	}

	// Application services
	productService := panelapp.NewProductService(upstreamClient, log)
	attachmentService := panelapp.NewAttachmentService(attachmentStore, log)
	ticketService := panelapp.NewTicketService(upstreamClient, log)
	settingsService := panelapp.NewSettingsService(upstreamClient, log)
	withdrawalService := panelapp.NewWithdrawalService(upstreamClient, log)

	// Session token validation
	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	alertHandler := handler.NewAlertHandler(gate)
	streamHandler := handler.NewAlertStreamHandler(gate, handler.WithSSELogger(log))
	productHandler := handler.NewProductHandler(productService, attachmentService)
	ticketHandler := handler.NewTicketHandler(ticketService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler())

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Any authenticated request counts as the user gesture that unlocks
	// audio playback, so this runs after JWT validation.
	r.Use(middleware.UserInteraction(alarm))

	// Alert decision flow. There is no close or dismiss route: an open
	// alert leaves only through accept or reject.
	alertRoutes := router.NewDomainGroup("alerts", "/alerts")
	alertRoutes.GET("/current", alertHandler.Current)
	alertRoutes.GET("/stream", streamHandler.Stream)
	alertRoutes.POST("/accept", alertHandler.Accept)
	alertRoutes.POST("/reject", alertHandler.Reject)
	alertRoutes.POST("/reject/cancel", alertHandler.CancelReject)
	alertRoutes.POST("/reject/confirm", alertHandler.ConfirmReject)

	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.GET("", productHandler.List)
	productRoutes.POST("", productHandler.Create)
	productRoutes.GET("/:id", productHandler.Get)
	productRoutes.PUT("/:id", productHandler.Update)
	productRoutes.POST("/:id/images", productHandler.UploadImage)

	ticketRoutes := router.NewDomainGroup("tickets", "/tickets")
	ticketRoutes.GET("", ticketHandler.List)
	ticketRoutes.POST("", ticketHandler.Create)
	ticketRoutes.GET("/categories", ticketHandler.Categories)

	settingsRoutes := router.NewDomainGroup("settings", "/settings")
	settingsRoutes.GET("", settingsHandler.Get)
	settingsRoutes.PUT("", settingsHandler.Update)

	withdrawalRoutes := router.NewDomainGroup("withdrawals", "/withdrawals")
	withdrawalRoutes.GET("", withdrawalHandler.List)
	withdrawalRoutes.POST("", withdrawalHandler.Create)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(alertRoutes).
		Register(productRoutes).
		Register(ticketRoutes).
		Register(settingsRoutes).
		Register(withdrawalRoutes).
		Register(systemRoutes)

	r.Setup()

	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Start the SSE fan-out before the poller so the first opened alert
	// already reaches connected clients.
	if err := streamHandler.Start(); err != nil {
		log.Fatal("Failed to start alert stream handler", zap.Error(err))
	}

	pollCtx, stopPolling := context.WithCancel(context.Background())
	poller.Start(pollCtx)
	log.Info("Notification poller started",
		zap.Duration("interval", cfg.Alert.PollInterval),
		zap.String("dedup_backend", cfg.Dedup.Backend),
	)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Drain HTTP first so in-flight decisions finish, then stop the
	// pipeline from the outside in: poller, SSE fan-out, gate.
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	stopPolling()
	poller.Stop()
	streamHandler.Stop()
	gate.Close()

	if err := registry.Close(); err != nil {
		log.Error("Error closing dedup registry", zap.Error(err))
	}

	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process liveness. The panel holds no state of
// its own; upstream reachability surfaces through the alert endpoints
// instead of failing the health probe.
func healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
