package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/obra-studio/obra-api/docs" // Swagger docs
	"github.com/obra-studio/obra-api/internal/config"
	"github.com/obra-studio/obra-api/internal/database"
	"github.com/obra-studio/obra-api/internal/handlers"
	"github.com/obra-studio/obra-api/internal/jobs"
	"github.com/obra-studio/obra-api/internal/middleware"
	"github.com/obra-studio/obra-api/internal/repository"
	"github.com/obra-studio/obra-api/internal/services"
	"github.com/obra-studio/obra-api/internal/storage"
	"github.com/obra-studio/obra-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Obra API
// @version 1.0
// @description REST API for the studio's project accounting: dual cash ledgers, installment schedules, contractor payments and administrator fees.

// @contact.name API Support

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	if cfg.ResendAPIKey == "" || cfg.FromEmail == "" {
		logger.Warn("Resend email disabled: RESEND_API_KEY or FROM_EMAIL not set")
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	// Initialize storage
	store, err := storage.NewLocalStorage(cfg.StoragePath, cfg.StorageSecret)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	logger.Info("Initialized local storage")

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, worker, cfg, db)

	// Schedule recurring jobs
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, repos, store)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	// Shutdown background worker
	worker.Shutdown()
	logger.Info("Background worker stopped")

	// Flush Sentry events before exit
	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", h.Health.Index)

		// Clients
		clients := v1.Group("/clients")
		{
			clients.GET("", h.Client.Index)
			clients.POST("", h.Client.Create)
			clients.GET("/:id", h.Client.Show)
			clients.PUT("/:id", h.Client.Update)
			clients.DELETE("/:id", h.Client.Delete)
		}

		// Projects
		projects := v1.Group("/projects")
		{
			projects.GET("", h.Project.Index)
			projects.POST("", h.Project.Create)
			projects.GET("/:id", h.Project.Show)
			projects.DELETE("/:id", h.Project.Delete)
			projects.PATCH("/:id/status", h.Project.UpdateStatus)
			projects.GET("/:id/progress", h.Project.Progress)
			projects.GET("/:id/installments", h.Project.Installments)
			projects.POST("/:id/installments/:number/confirm", h.Project.ConfirmInstallment)
			projects.POST("/:id/down_payment/confirm", h.Project.ConfirmDownPayment)
			projects.GET("/:id/movements", h.Project.Movements)
			projects.GET("/:id/movements/export", h.Project.ExportMovements)
			projects.POST("/:id/documents", h.Project.UploadDocument)
			projects.POST("/:id/exchange", h.Exchange.Convert)

			// Contractors nested under projects
			projects.GET("/:id/contractors", h.Contractor.Index)
			projects.POST("/:id/contractors", h.Contractor.Create)
		}

		// Contractors and their payments
		contractors := v1.Group("/contractors")
		{
			contractors.GET("/:id", h.Contractor.Show)
			contractors.GET("/:id/progress", h.Contractor.Progress)
			contractors.POST("/:id/payments", h.Contractor.CreatePayment)
		}
		v1.POST("/contractor_payments/:id/pay", h.Contractor.Pay)
		v1.POST("/contractor_payments/:id/cancel", h.Contractor.CancelPayment)

		// Cash ledgers and reports
		cash := v1.Group("/cash")
		{
			cash.GET("/dashboard", h.Cash.Dashboard)
			cash.GET("/dashboard/export", h.Cash.ExportDashboard)
			cash.GET("/movements", h.Cash.Movements)
			cash.GET("/master", h.Cash.Master)
			cash.GET("/admin", h.Cash.Admin)
		}

		// Exchange rates
		exchange := v1.Group("/exchange")
		{
			exchange.GET("/latest", h.Exchange.Latest)
			exchange.GET("/history", h.Exchange.History)
			exchange.POST("/refresh", h.Exchange.Refresh)
		}

		// Signed document downloads
		v1.GET("/documents/download", h.Document.Download)

		// Background jobs
		v1.GET("/jobs/status", h.Job.Status)
		v1.POST("/jobs/outbox/drain", h.Job.DrainOutbox)
	}

	return router
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Drain the outbox every minute: fee collections and other deferred
	// side effects retry here until done
	worker.ScheduleEveryImmediate(1*time.Minute, func(ctx context.Context) error {
		_, err := svcs.Outbox.ProcessPending(ctx)
		return err
	})

	// Daily overdue sweep: mark installments overdue and apply late fees
	worker.ScheduleEvery(24*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Sweeping overdue installments...")
		if _, err := svcs.Overdue.Sweep(ctx); err != nil {
			return err
		}
		return svcs.Overdue.SendReminders(ctx)
	})

	// Refresh the exchange rate every 6 hours
	worker.ScheduleEveryImmediate(6*time.Hour, func(ctx context.Context) error {
		logger.Info("[Job] Refreshing exchange rate...")
		_, err := svcs.Exchange.Refresh(ctx)
		return err
	})

	logger.Info("Scheduled recurring jobs")
}
