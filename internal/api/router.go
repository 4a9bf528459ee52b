package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/neuroscan/scan-api/internal/api/handler"
	"github.com/neuroscan/scan-api/internal/api/middleware"
	"github.com/neuroscan/scan-api/internal/core/ports"
	"github.com/neuroscan/scan-api/internal/core/service"
	"github.com/neuroscan/scan-api/internal/infrastructure/config"
	mongostore "github.com/neuroscan/scan-api/internal/infrastructure/db/mongo"
	redisstore "github.com/neuroscan/scan-api/internal/infrastructure/db/redis"
	"github.com/neuroscan/scan-api/internal/infrastructure/worker"
)

// Deps carries the process-wide singletons the router wires into handlers.
// They are constructed once in main and injected here, never reached for as
// ambient globals.
type Deps struct {
	Config   *config.Config
	Mongo    *mongo.Database
	Redis    *redis.Client // nil disables the result cache
	Verifier ports.IdentityVerifier
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("scanapi"))

	// --- Auth wiring ---
	userRepo := mongostore.NewUserRepository(d.Mongo)
	codec := service.NewTokenCodec(d.Config.SessionSecret())
	directory := service.NewUserDirectory(userRepo, d.Logger)
	authService := service.NewAuthService(d.Verifier, directory, codec, d.Logger)
	authHandler := handler.NewAuthHandler(authService)
	session := middleware.Session(authService)

	// --- Inference wiring ---
	ingester := service.NewUploadService(d.Config.Upload.Dir, d.Config.Upload.MaxBytes, d.Logger)
	invoker := worker.NewInvoker(worker.Config{
		PythonBin:      d.Config.Worker.Python,
		ScriptPath:     d.Config.Worker.Script,
		ExtractorPath:  d.Config.Worker.Extractor,
		ClassifierPath: d.Config.Worker.Classifier,
		Timeout:        d.Config.Worker.Timeout,
		MaxConcurrent:  d.Config.Worker.MaxConcurrent,
	}, d.Logger)
	var cache ports.ResultCache
	if d.Redis != nil {
		cache = redisstore.NewResultCache(d.Redis)
	}
	inferenceService := service.NewInferenceService(ingester, invoker, cache, d.Logger)
	inferenceHandler := handler.NewInferenceHandler(inferenceService)

	// --- Routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/session", authHandler.Session, session)
	e.POST("/inference/classify", inferenceHandler.Classify)

	// Stored uploads are served back verbatim by their stored name.
	e.Static("/uploads", d.Config.Upload.Dir)

	// --- Health probes and operational endpoints (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Mongo, d.Redis).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
