package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"treasury/internal/config"
	"treasury/internal/database"
	"treasury/internal/handlers"
	"treasury/internal/logger"
	"treasury/internal/metrics"
	"treasury/internal/middleware"
	"treasury/internal/services"
	"treasury/internal/validator"

	_ "treasury/internal/docs" // Import swagger docs
)

// @title           Treasury Ledger API
// @version         1.0
// @description     Bank accounts and financial documents with role-gated approval workflows. Every posting settles exactly once.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.FromAppConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("closing database", "error", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Core services
	db := dbManager.DB()
	m := metrics.New()
	locks := services.NewLockManager(appConfig.LockTimeout, m)
	accounts := services.NewAccountStore(db, locks, services.NewAuditService(), m)

	wellKnown, err := services.ResolveWellKnownAccounts(ctx, accounts, appConfig.OperatingAccount, appConfig.DisbursementAccount)
	if err != nil {
		return fmt.Errorf("failed to resolve well-known accounts: %w", err)
	}
	ledger := services.NewLedgerService(db, accounts, locks, m, wellKnown)

	validator.Register()
	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(appConfig, ledger, m)

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting treasury ledger on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newRouter wires the HTTP surface over ledger.
func newRouter(appConfig *config.Config, ledger services.LedgerServicer, m *metrics.Metrics) *gin.Engine {
	accountHandler := handlers.NewAccountHandler(ledger)
	documentHandler := handlers.NewDocumentHandler(ledger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics",
		middleware.MetricsKeyAuth(appConfig.MetricsAPIKey),
		gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	v1.Use(middleware.ActorAuth([]byte(appConfig.JWTSecret)))

	accounts := v1.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("/:id/balance", accountHandler.GetBalance)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	documents := v1.Group("/documents/:variant")
	documents.POST("", documentHandler.CreateDocument)
	documents.GET("", documentHandler.ListDocuments)
	documents.GET("/:id", documentHandler.GetDocument)
	documents.POST("/:id/transitions", documentHandler.RequestTransition)
	documents.DELETE("/:id", documentHandler.DeleteDocument)

	return router
}
