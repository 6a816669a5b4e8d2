package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/bioclust/gene-cluster-predictor/internal/cache"
	"github.com/bioclust/gene-cluster-predictor/internal/encoding"
	"github.com/bioclust/gene-cluster-predictor/internal/errors"
	"github.com/bioclust/gene-cluster-predictor/internal/frontend"
	"github.com/bioclust/gene-cluster-predictor/internal/genes"
	"github.com/bioclust/gene-cluster-predictor/internal/middleware"
	"github.com/bioclust/gene-cluster-predictor/internal/model"
	"github.com/bioclust/gene-cluster-predictor/internal/monitoring"
	"github.com/bioclust/gene-cluster-predictor/internal/predict"
	"github.com/bioclust/gene-cluster-predictor/internal/ratelimit"
	"github.com/bioclust/gene-cluster-predictor/internal/security"
	"github.com/bioclust/gene-cluster-predictor/internal/types"
)

const version = "1.0.0"

// serverDeps bundles everything the router needs so tests can assemble a
// fully wired engine without touching the environment.
type serverDeps struct {
	predictor   *predict.Service
	metrics     *monitoring.Metrics
	logger      *monitoring.Logger
	limiter     *ratelimit.RateLimiter
	cache       *cache.Cache
	compression *middleware.CompressionMiddleware
	memory      *monitoring.MemoryMonitor
	encoder     *encoding.JSONEncoder
}

func main() {
	// Structured logging setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Configuration from environment with defaults
	artifactDir := getEnvOrDefault("ARTIFACT_DIR", "./artifacts")
	port := getEnvOrDefault("PORT", "8080")
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	appLogger := monitoring.NewLogger()
	appMetrics := monitoring.NewMetrics()

	// Load the scaler and classifier artifacts. The service cannot give a
	// meaningful verdict without them, so a missing or corrupt artifact is
	// fatal before the listener ever opens.
	store := model.NewStore(artifactDir)
	scaler, forest, err := store.Load()
	if err != nil {
		slog.Error("Model or scaler artifact not found. Please provide the necessary files.",
			"dir", artifactDir, "error", err)
		os.Exit(1)
	}
	appLogger.ArtifactLogger("scaler", store.ScalerPath(), scaler.Dim())
	appLogger.ArtifactLogger("classifier", store.ClassifierPath(), forest.NumFeatures)

	predictor := predict.NewService(scaler, forest)

	// Redis is optional; without it rate limiting degrades to in-memory
	// token buckets.
	redisClient, err := ratelimit.NewRedisClient(redisAddr, redisPassword, 0)
	if err != nil {
		slog.Warn("Redis unavailable, continuing with in-memory rate limiting", "error", err)
	}
	limiter := ratelimit.NewRateLimiter(redisClient, ratelimit.DefaultConfig(), appMetrics)

	memoryMonitor := monitoring.NewMemoryMonitor(5*time.Second, 50*1024*1024, appLogger)
	memoryMonitor.Start()

	deps := serverDeps{
		predictor:   predictor,
		metrics:     appMetrics,
		logger:      appLogger,
		limiter:     limiter,
		cache:       cache.New(15 * time.Minute),
		compression: middleware.NewCompressionMiddleware(middleware.DefaultCompressionConfig()),
		memory:      memoryMonitor,
		encoder:     encoding.NewJSONEncoder(),
	}

	r, err := setupRouter(deps)
	if err != nil {
		slog.Error("Failed to set up router", "error", err)
		os.Exit(1)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		slog.Info("Starting server", "port", port, "artifact_dir", artifactDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	memoryMonitor.Stop()
	errors.SafeClose(limiter, "rate limiter")

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited")
}

func setupRouter(d serverDeps) (*gin.Engine, error) {
	r := gin.New()

	// Monitoring first so every request is counted
	r.Use(monitoring.MonitoringMiddleware(d.metrics, d.logger))

	r.Use(errors.ErrorHandler())
	r.Use(errors.RecoveryHandler())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	r.Use(cors.New(corsConfig))

	r.Use(security.SecurityHeadersMiddleware())
	r.Use(security.CSPMiddleware())
	r.Use(security.RequestTimeout(security.DefaultRequestConfig().RequestTimeout))
	r.Use(security.ValidateContentType())

	r.Use(d.limiter.IPRateLimitMiddleware())
	r.Use(d.compression.Handler())

	// Identical payloads produce identical verdicts, so successful
	// predictions are cached by request body.
	r.Use(d.cache.Middleware("/api/predict", d.metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
			"cluster":   "E1",
			"metrics":   d.metrics.GetStats(),
		})
	})

	r.GET("/api/genes", func(c *gin.Context) {
		c.JSON(http.StatusOK, types.GenesResponse{
			Cluster: "E1",
			Genes:   genes.Importances(),
		})
	})

	r.POST("/api/predict", func(c *gin.Context) {
		start := time.Now()

		var req types.PredictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			d.metrics.IncrementValidationFailure()
			appErr := errors.NewValidationError("invalid JSON format")
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		res, err := d.predictor.Predict(predict.GeneInput(req.Expressions))
		if err != nil {
			appErr := mapPredictError(err, d.metrics)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		d.metrics.RecordPrediction(res.Member)
		d.logger.PredictionLogger(res.Member, int(res.Label), time.Since(start), c.GetBool("cache_hit"))

		body, err := d.encoder.Marshal(types.PredictResponse{
			Label:   int(res.Label),
			Member:  res.Member,
			Message: res.Message,
		})
		if err != nil {
			appErr := errors.NewInternalError("failed to encode prediction", err)
			errors.LogError(c, appErr)
			c.JSON(appErr.HTTPStatus, appErr)
			return
		}

		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	})

	// Swagger documentation routes
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Operational endpoints
	r.GET("/metrics", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.metrics.GetStats())
	})

	r.GET("/cache/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.cache.Stats())
	})

	r.GET("/ratelimit/status", d.limiter.StatusHandler())

	r.GET("/pools/compression", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pool": "compression", "stats": d.compression.GetStats()})
	})

	r.GET("/pools/json", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"pool": "json", "stats": d.encoder.GetStats()})
	})

	r.GET("/memory", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.memory.GetStats())
	})

	r.POST("/memory/optimize", func(c *gin.Context) {
		d.memory.OptimizeMemory()
		c.JSON(http.StatusOK, gin.H{"message": "memory optimization triggered"})
	})

	if os.Getenv("ENABLE_GC_CONTROL") == "true" {
		r.POST("/memory/gc", func(c *gin.Context) {
			d.memory.ForceGC()
			c.JSON(http.StatusOK, gin.H{"message": "garbage collection triggered"})
		})
	}

	if os.Getenv("ENABLE_PROFILING") == "true" {
		slog.Info("Enabling performance profiling endpoints")
		r.GET("/debug/pprof/*filepath", gin.WrapF(pprof.Index))
		r.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
		r.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
		r.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
		r.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	}

	// The prediction page is embedded and served for everything that is
	// not an API route.
	dist, err := frontend.GetDistFS()
	if err != nil {
		return nil, err
	}
	indexTemplate, err := frontend.LoadIndexTemplate(dist)
	if err != nil {
		return nil, err
	}
	r.NoRoute(frontend.NewPageHandler(dist, indexTemplate))

	return r, nil
}

// mapPredictError converts prediction pipeline failures into the error
// taxonomy the API exposes. Validation problems are the caller's fault;
// scaling and classification failures abort only the current action.
func mapPredictError(err error, metrics *monitoring.Metrics) *errors.AppError {
	var validationErr *predict.ValidationError
	var scalingErr *predict.ScalingError
	var classificationErr *predict.ClassificationError

	switch {
	case stderrors.As(err, &validationErr):
		metrics.IncrementValidationFailure()
		return errors.NewValidationErrorWithMap(validationErr.Fields)
	case stderrors.As(err, &scalingErr):
		metrics.IncrementScalingFailure()
		return errors.NewScalingError("error during data scaling", scalingErr.Err)
	case stderrors.As(err, &classificationErr):
		metrics.IncrementClassificationFailure()
		return errors.NewClassificationError("error during prediction", classificationErr.Err)
	default:
		return errors.ToAppError(err)
	}
}

// Helper function for environment variables with defaults
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
