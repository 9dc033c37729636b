package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/joho/godotenv"

	_ "github.com/haanaihang/server/docs"
	"github.com/haanaihang/server/internal/cache"
	"github.com/haanaihang/server/internal/config"
	"github.com/haanaihang/server/internal/database"
	"github.com/haanaihang/server/internal/handlers"
	"github.com/haanaihang/server/internal/logger"
	"github.com/haanaihang/server/internal/middleware"
	"github.com/haanaihang/server/internal/services"
	"github.com/haanaihang/server/internal/telemetry"
	"github.com/haanaihang/server/pkg/storage"
)

// @title HaaNaiHang API
// @version 1.0.0
// @description ค้นหาร้านในห้าง - mall and store directory search API
// @host api.haanaihang.app
// @BasePath /v1
// @schemes https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file; absent in k8s where real environment variables win.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.ServerEnv)
	defer logger.Sync()
	log := logger.Named("main")

	// OpenTelemetry tracer and meter
	ctx := context.Background()
	tracerShutdown, err := telemetry.InitTracer(ctx, "haanaihang-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Warnw("failed to initialize tracer", "error", err)
	}
	defer func() {
		if err := tracerShutdown(ctx); err != nil {
			log.Warnw("error shutting down tracer", "error", err)
		}
	}()

	meterShutdown, err := telemetry.InitMeter(ctx, "haanaihang-api", cfg.SigNozEndpoint)
	if err != nil {
		log.Warnw("failed to initialize metrics", "error", err)
	}
	defer func() {
		if err := meterShutdown(ctx); err != nil {
			log.Warnw("error shutting down metrics", "error", err)
		}
	}()

	// Firestore
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to connect to Firestore", "error", err)
	}
	defer db.Close()

	// Firebase Auth for the admin surface
	authClient, err := db.App().Auth(ctx)
	if err != nil {
		log.Fatalw("failed to initialize Firebase Auth", "error", err)
	}

	// Cloud Storage for mall logos; optional when no bucket is configured
	var uploader *storage.Uploader
	if cfg.StorageBucket != "" {
		uploader, err = storage.NewUploader(ctx, db.App(), cfg.StorageBucket)
		if err != nil {
			log.Fatalw("failed to open storage bucket", "bucket", cfg.StorageBucket, "error", err)
		}
	} else {
		log.Info("FIREBASE_STORAGE_BUCKET not set, logo uploads disabled")
	}

	// Service wiring: one shared cache in front of Firestore, the search
	// and suggestion engines on top.
	dir := services.NewCachedDirectory(db, cache.New(), cfg)
	engine := services.NewSearchEngine(dir, cfg)
	suggestions := services.NewSuggestionEngine()
	resolver := services.NewStoreResolver(dir)

	app := fiber.New(fiber.Config{
		AppName:      "HaaNaiHang API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     `{"time":"${time}","status":${status},"latency":"${latency}","ip":"${ip}","method":"${method}","path":"${path}","user_agent":"${ua}","error":"${error}"}` + "\n",
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		TimeZone:   "Asia/Bangkok",
	}))
	app.Use(telemetry.New(telemetry.Config{
		ServiceName: "haanaihang-api",
	}))
	app.Use(middleware.PrometheusMiddleware())
	// Mobile and web clients call from any origin.
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowHeaders:     "Accept, Accept-Encoding, Authorization, Content-Type, DNT, Origin, User-Agent, X-Requested-With, X-API-Key",
		AllowCredentials: false,
		ExposeHeaders:    "Content-Length, Content-Type",
		MaxAge:           86400,
	}))

	setupRoutes(app, db, cfg, dir, engine, suggestions, resolver, authClient, uploader)

	port := cfg.ServerPort
	if port == "" {
		port = "3000"
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			log.Warnw("error shutting down server", "error", err)
		}
	}()

	log.Infow("server starting", "port", port, "env", cfg.ServerEnv)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalw("failed to start server", "error", err)
	}
}

func setupRoutes(
	app *fiber.App,
	db *database.DB,
	cfg *config.Config,
	dir *services.CachedDirectory,
	engine *services.SearchEngine,
	suggestions *services.SuggestionEngine,
	resolver *services.StoreResolver,
	authClient *fbauth.Client,
	uploader *storage.Uploader,
) {
	// Swagger UI
	app.Get("/v1/docs/*", swagger.HandlerDefault)

	// Prometheus scrape endpoint, private network only
	app.Get("/metrics", middleware.InternalOnly(), middleware.PrometheusHandler())

	// Health check endpoints for k8s probes
	app.Get("/healthz", handlers.HealthCheck)
	app.Get("/v1/healthz", handlers.HealthCheck)
	app.Get("/v1/readiness", handlers.ReadinessCheck(db))
	app.Get("/v1/liveness", handlers.LivenessCheck)

	// API v1 group
	v1 := app.Group("/v1")

	// Search and suggestions (public)
	search := v1.Group("/search")
	handlers.SetupSearchRoutes(search, engine, suggestions, db)

	suggest := v1.Group("/suggestions")
	handlers.SetupSuggestRoutes(suggest, suggestions)

	// Directory reads (public)
	malls := v1.Group("/malls")
	handlers.SetupMallRoutes(malls, db, dir, uploader)

	stores := v1.Group("/malls/:id/stores")
	handlers.SetupStoreRoutes(stores, db, dir, resolver)

	allStores := v1.Group("/stores")
	handlers.SetupGlobalStoreRoutes(allStores, db, dir, resolver)

	categories := v1.Group("/categories")
	handlers.SetupCategoryRoutes(categories)

	// Admin mutations (Firebase Auth, admin claim)
	admin := v1.Group("/admin", middleware.AuthRequired(authClient), middleware.AdminRequired())
	handlers.SetupMallAdminRoutes(admin.Group("/malls"), db, dir, uploader)
	handlers.SetupStoreAdminRoutes(admin.Group("/malls/:id/stores"), db, dir, resolver)

	// Internal analytics export (API key)
	internal := v1.Group("/internal")
	handlers.SetupInternalRoutes(internal, db, cfg)
}
