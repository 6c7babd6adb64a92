package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	brandapp "github.com/brandcert/backend/internal/application/brand"
	certapp "github.com/brandcert/backend/internal/application/certificate"
	identityapp "github.com/brandcert/backend/internal/application/identity"
	manufacturerapp "github.com/brandcert/backend/internal/application/manufacturer"
	mediaapp "github.com/brandcert/backend/internal/application/media"
	notificationapp "github.com/brandcert/backend/internal/application/notification"
	securityapp "github.com/brandcert/backend/internal/application/security"
	"github.com/brandcert/backend/internal/domain/certificate"
	"github.com/brandcert/backend/internal/infrastructure/auth"
	"github.com/brandcert/backend/internal/infrastructure/blockchain"
	"github.com/brandcert/backend/internal/infrastructure/cache"
	"github.com/brandcert/backend/internal/infrastructure/captcha"
	"github.com/brandcert/backend/internal/infrastructure/config"
	"github.com/brandcert/backend/internal/infrastructure/email"
	"github.com/brandcert/backend/internal/infrastructure/event"
	"github.com/brandcert/backend/internal/infrastructure/logger"
	"github.com/brandcert/backend/internal/infrastructure/persistence"
	"github.com/brandcert/backend/internal/infrastructure/qrcode"
	"github.com/brandcert/backend/internal/infrastructure/render"
	"github.com/brandcert/backend/internal/infrastructure/storage"
	"github.com/brandcert/backend/internal/infrastructure/telemetry"
	"github.com/brandcert/backend/internal/interfaces/http/handler"
	"github.com/brandcert/backend/internal/interfaces/http/middleware"
	"github.com/brandcert/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/brandcert/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			BrandCert API
//	@version		1.0
//	@description	Brand authenticity platform API - NFT-backed product certificates, manufacturer matching, and brand security auditing

//	@contact.name	API Support
//	@contact.url	https://github.com/brandcert/backend
//	@contact.email	support@brandcert.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

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

	log.Info("Starting BrandCert Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize OpenTelemetry providers (no-ops when disabled)
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
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Business metrics stay nil when telemetry is off; the record methods
	// tolerate a nil receiver so services don't need to care.
	var businessMetrics *telemetry.BusinessMetrics
	if cfg.Telemetry.Enabled {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:               meterProvider.Meter("brandcert"),
			Logger:              log,
			CertificateProvider: telemetry.NewGormCertificateMetricsProvider(db.DB),
			MediaProvider:       telemetry.NewGormMediaMetricsProvider(db.DB),
		})
		if err != nil {
			log.Fatal("Failed to initialize business metrics", zap.Error(err))
		}
		defer businessMetrics.Stop()
	}

	// Database query tracing
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Continuous profiler (no-op when disabled)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Profiling.Enabled,
		ServerAddress:       cfg.Profiling.ServerAddress,
		ApplicationName:     cfg.App.Name,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Initialize repositories
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	manufacturerRepo := persistence.NewGormManufacturerRepository(db.DB)
	partnershipRepo := persistence.NewGormPartnershipRepository(db.DB)
	certRepo := persistence.NewGormCertificateRepository(db.DB)
	mediaRepo := persistence.NewGormMediaRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	securityEventRepo := persistence.NewGormSecurityEventRepository(db.DB)
	sessionRepo := persistence.NewGormSessionRepository(db.DB)
	blacklistedTokenRepo := persistence.NewGormBlacklistedTokenRepository(db.DB)

	// Cache: Redis when reachable, in-memory otherwise
	var cacheClient cache.Cache
	redisCache, err := cache.NewRedisCache(cfg.Redis, cache.WithCacheLogger(log))
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		cacheClient = cache.NewInMemoryCache()
	} else {
		cacheClient = redisCache
		log.Info("Redis cache connected", zap.String("addr", cfg.Redis.RedisAddr()))
	}
	defer func() {
		if err := cacheClient.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()

	// Token blacklist follows the same fallback. The blacklisted_tokens
	// table remains the audit source of truth either way.
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Object storage: S3-compatible when credentials are configured,
	// local stub for development
	var objectStorage mediaapp.ObjectStorageService
	if cfg.Storage.AccessKey != "" {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		objectStorage = s3Storage
		log.Info("Object storage connected", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		log.Warn("No storage credentials configured, using stub object storage")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Blockchain minting gateway: real token service when configured,
	// in-memory stub for development
	var blockchainClient certificate.BlockchainClient
	if cfg.Blockchain.BaseURL != "" {
		gatewayClient, err := blockchain.NewClient(&cfg.Blockchain, blockchain.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize blockchain client", zap.Error(err))
		}
		blockchainClient = gatewayClient
		log.Info("Blockchain gateway connected", zap.String("base_url", cfg.Blockchain.BaseURL))
	} else {
		log.Warn("No blockchain gateway configured, using stub token client")
		blockchainClient = blockchain.NewStubClient(log)
	}

	// Captcha verification
	var captchaVerifier identityapp.CaptchaVerifier
	if cfg.Captcha.Enabled {
		captchaVerifier, err = captcha.NewVerifier(&cfg.Captcha, captcha.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize captcha verifier", zap.Error(err))
		}
		log.Info("Captcha verification enabled", zap.String("provider", cfg.Captcha.Provider))
	} else {
		captchaVerifier = captcha.Noop{}
	}

	// Email delivery
	var emailSender notificationapp.EmailSender
	if cfg.Mail.Enabled {
		mailgunSender, err := email.NewMailgunSender(&cfg.Mail, email.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize mail sender", zap.Error(err))
		}
		emailSender = mailgunSender
		log.Info("Mail delivery enabled", zap.String("domain", cfg.Mail.Domain))
	} else {
		emailSender = email.NewNoopSender(log)
	}

	// Certificate rendering pipeline: QR links, HTML sheet, headless PDF
	qrGenerator := qrcode.NewGenerator(cfg.App.BaseURL)
	sheetTemplate, err := render.NewSheetTemplate()
	if err != nil {
		log.Fatal("Failed to load certificate sheet template", zap.Error(err))
	}
	pdfRenderer, err := render.NewChromedpRenderer(&render.ChromedpConfig{
		DefaultTimeout: 30 * time.Second,
		Headless:       true,
		DisableGPU:     true,
		NoSandbox:      true,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}

	// Initialize event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Initialize application services
	notificationService := notificationapp.NewService(notificationRepo, userRepo, emailSender, log)
	securityService := securityapp.NewService(
		securityEventRepo,
		sessionRepo,
		blacklistedTokenRepo,
		tokenBlacklist,
		userRepo,
		cacheClient,
		notificationService,
		securityapp.ServiceConfig{
			SuspiciousFailedLogins:  cfg.Security.SuspiciousFailedLogins,
			SuspiciousDistinctIPs:   cfg.Security.SuspiciousDistinctIPs,
			SuspiciousWarningEvents: cfg.Security.SuspiciousWarningEvents,
			SessionTTL:              cfg.Security.SessionTTL,
		},
		log,
	)
	authService := identityapp.NewAuthService(
		userRepo,
		brandRepo,
		jwtService,
		tokenBlacklist,
		securityService,
		captchaVerifier,
		businessMetrics,
		eventBus,
		identityapp.AuthServiceConfig{
			MaxLoginAttempts: cfg.Security.MaxLoginAttempts,
			LockDuration:     cfg.Security.LockDuration,
		},
		log,
	)
	userService := identityapp.NewUserService(userRepo, brandRepo, securityService, eventBus, log)
	brandService := brandapp.NewService(brandRepo, userRepo, certRepo, mediaRepo, cacheClient, eventBus, log)
	manufacturerService := manufacturerapp.NewService(manufacturerRepo, partnershipRepo, brandRepo, cacheClient, eventBus, log)
	matchingService := manufacturerapp.NewMatchingService(manufacturerRepo, partnershipRepo, brandRepo, cacheClient, log)
	mediaService := mediaapp.NewService(
		mediaRepo,
		brandRepo,
		objectStorage,
		mediaapp.ServiceConfig{PresignExpiration: cfg.Storage.PresignExpiration},
		eventBus,
		log,
	)
	certService := certapp.NewService(
		certRepo,
		brandRepo,
		mediaService,
		blockchainClient,
		qrGenerator,
		sheetTemplate,
		pdfRenderer,
		cacheClient,
		businessMetrics,
		eventBus,
		certapp.ServiceConfig{
			MintRetryBackoff: cfg.Blockchain.RetryBackoff,
			MaxMintAttempts:  cfg.Blockchain.MaxMintAttempts,
		},
		log,
	)

	// Register event handlers for cross-context notifications
	certificateEventHandler := notificationapp.NewCertificateEventHandler(notificationService, certRepo, log)
	eventBus.Subscribe(certificateEventHandler)

	partnershipEventHandler := notificationapp.NewPartnershipEventHandler(notificationService, partnershipRepo, manufacturerRepo, log)
	eventBus.Subscribe(partnershipEventHandler)

	log.Info("Event handlers registered",
		zap.Strings("certificate_events", certificateEventHandler.EventTypes()),
		zap.Strings("partnership_events", partnershipEventHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Background maintenance: gauge collection and expired session purging
	maintenanceCtx, stopMaintenance := context.WithCancel(context.Background())
	defer stopMaintenance()

	businessMetrics.StartPeriodicCollection(maintenanceCtx, telemetry.NewGormBrandProvider(db.DB), 0)

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-maintenanceCtx.Done():
				return
			case <-ticker.C:
				sessions, tokens, err := securityService.PurgeExpired(maintenanceCtx)
				if err != nil {
					log.Warn("Session purge failed", zap.Error(err))
					continue
				}
				if sessions > 0 || tokens > 0 {
					log.Info("Purged expired security records",
						zap.Int64("sessions", sessions),
						zap.Int64("blacklisted_tokens", tokens),
					)
				}
			}
		}
	}()

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService, securityService)
	userHandler := handler.NewUserHandler(userService)
	brandHandler := handler.NewBrandHandler(brandService)
	manufacturerHandler := handler.NewManufacturerHandler(manufacturerService, matchingService)
	certificateHandler := handler.NewCertificateHandler(certService)
	mediaHandler := handler.NewMediaHandler(mediaService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	securityHandler := handler.NewSecurityHandler(securityService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - OpenTelemetry instrumentation (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("brandcert/http"), true))
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Swagger documentation endpoint, optionally gated by IP and JWT
	if cfg.Swagger.Enabled {
		swaggerGuard := middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, middleware.JWTAuthMiddleware(jwtService))
		engine.GET("/swagger/*any", swaggerGuard, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes.
	// Registration, login, refresh and public certificate verification
	// skip authentication; everything else carries brand context from
	// the token. Valid tokens also touch their server-side session.
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		Sessions:       securityService,
		SkipPaths: []string{
			"/api/v1/auth/register",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/verify",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth domain (register, login, token refresh, sessions)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
	}
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/sessions", authHandler.ListSessions)
	authRoutes.DELETE("/sessions", authHandler.RevokeAllSessions)
	authRoutes.DELETE("/sessions/:id", authHandler.RevokeSession)

	// Brand domain: self-service for the authenticated brand, platform
	// administration for the rest
	brandRoutes := router.NewDomainGroup("brand", "/brands")
	brandRoutes.GET("/me", brandHandler.GetMe)
	brandRoutes.PUT("/me", brandHandler.UpdateMe)
	brandRoutes.POST("/me/plan", brandHandler.ChangePlan)
	brandRoutes.GET("/me/usage", brandHandler.Usage)
	brandRoutes.GET("", middleware.RequirePlatformAdmin(), brandHandler.List)
	brandRoutes.GET("/stats", middleware.RequirePlatformAdmin(), brandHandler.Stats)
	brandRoutes.GET("/:id", middleware.RequirePlatformAdmin(), brandHandler.GetByID)
	brandRoutes.POST("/:id/activate", middleware.RequirePlatformAdmin(), brandHandler.Activate)
	brandRoutes.POST("/:id/suspend", middleware.RequirePlatformAdmin(), brandHandler.Suspend)
	brandRoutes.POST("/:id/deactivate", middleware.RequirePlatformAdmin(), brandHandler.Deactivate)
	brandRoutes.DELETE("/:id", middleware.RequirePlatformAdmin(), brandHandler.Delete)

	// User domain: own profile plus team management
	userRoutes := router.NewDomainGroup("user", "/users")
	userRoutes.GET("/me", authHandler.GetCurrentUser)
	userRoutes.PUT("/me", userHandler.UpdateMe)
	userRoutes.POST("/me/password", authHandler.ChangePassword)
	userRoutes.POST("", middleware.RequireRole("owner", "admin"), userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.GetByID)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.PUT("/:id/role", middleware.RequireRole("owner", "admin"), userHandler.ChangeRole)
	userRoutes.POST("/:id/activate", middleware.RequireRole("owner", "admin"), userHandler.Activate)
	userRoutes.POST("/:id/deactivate", middleware.RequireRole("owner", "admin"), userHandler.Deactivate)
	userRoutes.POST("/:id/unlock", middleware.RequireRole("owner", "admin"), userHandler.Unlock)
	userRoutes.POST("/:id/reset-password", middleware.RequireRole("owner", "admin"), userHandler.ResetPassword)

	// Manufacturer domain: read-only directory and matching for brands
	manufacturerRoutes := router.NewDomainGroup("manufacturer", "/manufacturers")
	manufacturerRoutes.GET("", manufacturerHandler.List)
	manufacturerRoutes.GET("/matches", manufacturerHandler.Match)
	manufacturerRoutes.GET("/:id", manufacturerHandler.GetByID)

	// Directory management is platform-admin only
	manufacturerRoutes.POST("", middleware.RequirePlatformAdmin(), manufacturerHandler.Create)
	manufacturerRoutes.PUT("/:id", middleware.RequirePlatformAdmin(), manufacturerHandler.Update)
	manufacturerRoutes.DELETE("/:id", middleware.RequirePlatformAdmin(), manufacturerHandler.Delete)
	manufacturerRoutes.POST("/:id/verify", middleware.RequirePlatformAdmin(), manufacturerHandler.Verify)
	manufacturerRoutes.POST("/:id/activate", middleware.RequirePlatformAdmin(), manufacturerHandler.Activate)
	manufacturerRoutes.POST("/:id/deactivate", middleware.RequirePlatformAdmin(), manufacturerHandler.Deactivate)

	// Partnership lifecycle between brands and manufacturers
	partnershipRoutes := router.NewDomainGroup("partnership", "/partnerships")
	partnershipRoutes.POST("", middleware.RequireRole("owner", "admin"), manufacturerHandler.RequestPartnership)
	partnershipRoutes.GET("", manufacturerHandler.ListPartnerships)
	partnershipRoutes.GET("/:id", manufacturerHandler.GetPartnership)
	partnershipRoutes.POST("/:id/accept", middleware.RequireRole("owner", "admin"), manufacturerHandler.AcceptPartnership)
	partnershipRoutes.POST("/:id/end", middleware.RequireRole("owner", "admin"), manufacturerHandler.EndPartnership)
	partnershipRoutes.DELETE("/:id", middleware.RequireRole("owner", "admin"), manufacturerHandler.EndPartnership)

	// Certificate domain (issuing, minting, transfers, rendering)
	certificateRoutes := router.NewDomainGroup("certificate", "/certificates")
	certificateRoutes.POST("", certificateHandler.Issue)
	certificateRoutes.GET("", certificateHandler.List)
	certificateRoutes.GET("/stats", certificateHandler.Stats)
	certificateRoutes.GET("/:id", certificateHandler.GetByID)
	certificateRoutes.PUT("/:id", certificateHandler.Update)
	certificateRoutes.DELETE("/:id", certificateHandler.Delete)
	certificateRoutes.POST("/:id/mint", certificateHandler.Mint)
	certificateRoutes.POST("/:id/retry", certificateHandler.RetryMint)
	certificateRoutes.POST("/:id/transfer", certificateHandler.Transfer)
	certificateRoutes.POST("/:id/revoke", middleware.RequireRole("owner", "admin"), certificateHandler.Revoke)
	certificateRoutes.GET("/:id/qr", certificateHandler.QRCode)
	certificateRoutes.GET("/:id/pdf", certificateHandler.PDF)

	// Public verification by serial number (no authentication)
	verifyRoutes := router.NewDomainGroup("verify", "/verify")
	verifyRoutes.GET("/:serial", certificateHandler.PublicVerify)

	// Media domain (presigned uploads and downloads)
	mediaRoutes := router.NewDomainGroup("media", "/media")
	mediaRoutes.POST("/uploads", mediaHandler.CreateUpload)
	mediaRoutes.GET("", mediaHandler.List)
	mediaRoutes.GET("/:id", mediaHandler.GetByID)
	mediaRoutes.POST("/:id/confirm", mediaHandler.ConfirmUpload)
	mediaRoutes.GET("/:id/download", mediaHandler.Download)
	mediaRoutes.DELETE("/:id", mediaHandler.Delete)

	// Notification domain
	notificationRoutes := router.NewDomainGroup("notification", "/notifications")
	notificationRoutes.GET("", notificationHandler.List)
	notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
	notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
	notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)

	// Security domain (audit log and summaries)
	securityRoutes := router.NewDomainGroup("security", "/security")
	securityRoutes.GET("/events", securityHandler.ListEvents)
	securityRoutes.GET("/summary", securityHandler.Summary)

	// Register all domain groups
	r.Register(authRoutes).
		Register(brandRoutes).
		Register(userRoutes).
		Register(manufacturerRoutes).
		Register(partnershipRoutes).
		Register(certificateRoutes).
		Register(verifyRoutes).
		Register(mediaRoutes).
		Register(notificationRoutes).
		Register(securityRoutes)

	// Register system routes with swagger-documented handlers
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	r.Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	stopMaintenance()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
