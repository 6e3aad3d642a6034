package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/ims/backend/internal/application/catalog"
	identityapp "github.com/ims/backend/internal/application/identity"
	inventoryapp "github.com/ims/backend/internal/application/inventory"
	notificationapp "github.com/ims/backend/internal/application/notification"
	partnerapp "github.com/ims/backend/internal/application/partner"
	reportapp "github.com/ims/backend/internal/application/report"
	"github.com/ims/backend/internal/domain/notification"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/infrastructure/auth"
	"github.com/ims/backend/internal/infrastructure/cache"
	"github.com/ims/backend/internal/infrastructure/config"
	"github.com/ims/backend/internal/infrastructure/event"
	"github.com/ims/backend/internal/infrastructure/export"
	"github.com/ims/backend/internal/infrastructure/i18n"
	"github.com/ims/backend/internal/infrastructure/logger"
	"github.com/ims/backend/internal/infrastructure/mail"
	"github.com/ims/backend/internal/infrastructure/persistence"
	"github.com/ims/backend/internal/infrastructure/scheduler"
	"github.com/ims/backend/internal/infrastructure/storage"
	"github.com/ims/backend/internal/infrastructure/telemetry"
	"github.com/ims/backend/internal/interfaces/http/handler"
	"github.com/ims/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			IMS Backend API
//	@version		1.0
//	@description	Inventory management API: catalog, stock transactions, low-stock alerts and reports

//	@contact.name	API Support

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.ISO8601Millis,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
		DBTracing:         cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh:   cfg.Telemetry.DBSlowQueryThresh,
	}

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	if loggerProvider.IsEnabled() {
		level, lerr := zapcore.ParseLevel(cfg.Log.Level)
		if lerr != nil {
			level = zapcore.InfoLevel
		}
		log = telemetry.NewBridgedLogger(log.Core(), telemetry.NewZapOTELCore(telCfg.ServiceName, loggerProvider, level))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting IMS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithLogger(log, logger.MapGormLogLevel(cfg.Log.Level)),
		persistence.WithSlowThreshold(200*time.Millisecond),
		persistence.WithPlugin(dbTracing),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Redis is optional; both stores fall back to process memory
	cacheFactory := cache.NewFactory(cfg.Redis, cache.WithLogger(log))
	redisClient, err := cacheFactory.Connect(ctx)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}
	idempotencyStore := cacheFactory.IdempotencyStore(redisClient)
	var revocations auth.RevocationList = auth.NewInMemoryRevocationList()
	if redisClient != nil {
		revocations = auth.NewRedisRevocationList(redisClient)
	}

	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	transactionRepo := persistence.NewGormInventoryTransactionRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)
	reportRepo := persistence.NewGormReportRepository(db.DB)

	inventoryMetrics, err := telemetry.NewInventoryMetrics(telemetry.InventoryMetricsConfig{
		Meter:    meterProvider.Meter("ims-backend/inventory"),
		Logger:   log,
		Provider: telemetry.NewGormLowStockCounter(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize inventory metrics", zap.Error(err))
	}
	if meterProvider.IsEnabled() {
		inventoryMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	}

	formatter, err := i18n.NewFormatter(cfg.Report.Locale, cfg.Report.Currency)
	if err != nil {
		log.Fatal("Invalid report locale or currency", zap.Error(err))
	}

	var objectStorage catalogapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3Storage, serr := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if serr != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(serr))
		}
		if serr = s3Storage.EnsureBucket(ctx); serr != nil {
			log.Fatal("Failed to prepare image bucket", zap.Error(serr))
		}
		objectStorage = s3Storage
	} else {
		log.Info("Object storage disabled, product image uploads are rejected")
	}

	var (
		mailer        notification.Mailer
		renderer      notificationapp.AlertRenderer
		resetRenderer identityapp.ResetMailRenderer
	)
	if cfg.Mail.Enabled {
		smtpMailer, merr := mail.NewSMTPMailer(&cfg.Mail, log)
		if merr != nil {
			log.Fatal("Failed to initialize mailer", zap.Error(merr))
		}
		alertRenderer, merr := mail.NewAlertRenderer(cfg.App.Name, formatter)
		if merr != nil {
			log.Fatal("Failed to parse alert templates", zap.Error(merr))
		}
		mailer, renderer, resetRenderer = smtpMailer, alertRenderer, alertRenderer
	} else {
		log.Info("Mail disabled, low-stock alerts go to the inbox only and password reset emails are not sent")
	}

	lowStockNotifier := notificationapp.NewLowStockNotifier(
		productRepo, profileRepo, notificationRepo, mailer, renderer,
		notificationapp.NotifierConfig{Sender: cfg.Mail.From, DashboardURL: cfg.App.DashboardURL},
		log,
	).WithMetrics(inventoryMetrics)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(profileRepo, jwtService, revocations, log)
	authService.SetPasswordReset(mailer, resetRenderer, identityapp.PasswordResetConfig{
		BaseURL:   cfg.App.DashboardURL,
		RevokeTTL: cfg.JWT.RefreshTokenExpiration,
	})
	userService := identityapp.NewUserService(profileRepo, revocations, cfg.JWT.RefreshTokenExpiration, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, supplierRepo, objectStorage, log)
	supplierService := partnerapp.NewSupplierService(supplierRepo, log)
	inboxService := notificationapp.NewInboxService(notificationRepo, log)

	processor := inventoryapp.NewStockTransactionProcessor(persistence.NewGormTransactionScope(db.DB), log).
		WithMetrics(inventoryMetrics)
	inventoryService := inventoryapp.NewInventoryService(processor, transactionRepo, log)
	inventoryService.SetIdempotencyStore(idempotencyStore, shared.IdempotencyConfig{
		TTL:     cfg.Redis.IdempotencyTTL,
		Enabled: true,
	})

	pdfRenderer := export.NewChromedpRenderer(export.ChromedpConfig{
		Timeout:  cfg.Report.PDFTimeout,
		ExecPath: cfg.Report.ChromePath,
		// containers run the server as root
		NoSandbox: true,
		Logger:    log,
	})
	defer func() { _ = pdfRenderer.Close() }()
	pdfExporter, err := export.NewPDFExporter(pdfRenderer, formatter)
	if err != nil {
		log.Fatal("Failed to parse report template", zap.Error(err))
	}
	reportService := reportapp.NewReportService(reportRepo, log,
		export.NewCSVExporter(),
		export.NewXLSXExporter(),
		pdfExporter,
	)

	// Low-stock alerts run after the stock-out commits
	eventBus := event.NewInMemoryEventBus(log)
	alertHandler := inventoryapp.NewLowStockAlertHandler(log).
		WithNotifier(lowStockNotifier).
		WithTimeout(cfg.Alert.Timeout)
	var dispatcher *event.PoolDispatcher
	if cfg.Alert.Async {
		dispatcher, err = event.NewPoolDispatcher(cfg.Alert.PoolSize, log)
		if err != nil {
			log.Fatal("Failed to create alert worker pool", zap.Error(err))
		}
		alertHandler.WithDispatcher(dispatcher)
	}
	eventBus.Subscribe(alertHandler, alertHandler.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	inventoryService.SetEventPublisher(eventBus)

	var digest *scheduler.DigestScheduler
	if cfg.Scheduler.DigestEnabled {
		digest, err = scheduler.NewDigestScheduler(scheduler.DigestSchedulerConfig{
			Schedule:   cfg.Scheduler.DigestSchedule,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, lowStockNotifier, log)
		if err != nil {
			log.Fatal("Invalid digest schedule", zap.Error(err))
		}
		digest.Start()
		log.Info("Low-stock digest scheduled", zap.Time("next_run", digest.NextRun()))
	}

	engine := router.NewAPI(router.APIConfig{
		HTTP:           cfg.HTTP,
		Logger:         log,
		Authenticator:  authService,
		MeterProvider:  meterProvider,
		TracingEnabled: cfg.Telemetry.Enabled,
		ServiceName:    telCfg.ServiceName,
	}, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Product:      handler.NewProductHandler(productService),
		Category:     handler.NewCategoryHandler(categoryService),
		Supplier:     handler.NewSupplierHandler(supplierService),
		Inventory:    handler.NewInventoryHandler(inventoryService),
		Report:       handler.NewReportHandler(reportService),
		Notification: handler.NewNotificationHandler(inboxService),
		User:         handler.NewUserHandler(userService),
		Health:       handler.NewHealthHandler(db, version),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if digest != nil {
		if err := digest.Stop(shutdownCtx); err != nil {
			log.Warn("Digest job still running at shutdown", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop event bus", zap.Error(err))
	}
	if dispatcher != nil {
		if err := dispatcher.Release(cfg.Alert.Timeout); err != nil {
			log.Warn("Alert workers still running at shutdown", zap.Error(err))
		}
	}
	inventoryMetrics.Stop()

	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logger": loggerProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shut down telemetry provider", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited")
}
