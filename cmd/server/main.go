package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mobigrad/teleshop/internal/config"
	"github.com/mobigrad/teleshop/internal/entity"
	"github.com/mobigrad/teleshop/internal/handler"
	"github.com/mobigrad/teleshop/internal/middleware"
	"github.com/mobigrad/teleshop/internal/repository"
	"github.com/mobigrad/teleshop/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting teleshop service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.DictValue{},
		&entity.Staff{},
		&entity.Store{},
		&entity.CatalogEntry{},
		&entity.StockItem{},
		&entity.AccessoryItem{},
		&entity.Sale{},
		&entity.Shift{},
		&entity.PreorderEvent{},
		&entity.DiagnosticRow{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, services)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, svc *service.Services) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)
		v1.GET("/auth/state", h.Auth.State)

		// кассовые операции доступны без входа администратора
		v1.GET("/availability", h.Report.Availability)
		v1.POST("/sales", h.Sale.Create)
		v1.GET("/sales", h.Sale.List)
		v1.POST("/shifts/check-in", h.Shift.CheckIn)
		v1.GET("/shifts/ledger", h.Shift.Ledger)

		v1.GET("/preorders", h.Preorder.List)
		v1.GET("/preorders/:id", h.Preorder.Get)
		v1.POST("/preorders", h.Preorder.Create)
		v1.POST("/preorders/:id/payments", h.Preorder.AddPayment)
		v1.PATCH("/preorders/:id/status", h.Preorder.UpdateStatus)
		v1.POST("/preorders/:id/finalize", h.Preorder.Finalize)
		v1.PUT("/preorders/:id/imei", h.Preorder.UpsertIMEI)

		v1.GET("/diagnostics", h.Diagnostic.List)
		v1.GET("/diagnostics/:id", h.Diagnostic.Get)
		v1.POST("/diagnostics", h.Diagnostic.Create)
		v1.PATCH("/diagnostics/:id/status", h.Diagnostic.UpdateStatus)
		v1.PATCH("/diagnostics/:id/payment", h.Diagnostic.UpdatePayment)

		v1.GET("/reports/daily", h.Report.Daily)

		// админские операции за PIN-входом
		admin := v1.Group("/admin")
		admin.Use(middleware.AdminAuth(svc.Auth.Validate))
		{
			admin.POST("/auth/logout", h.Auth.Logout)
			admin.POST("/stock", h.Stock.Add)
			admin.POST("/stock/batch", h.Stock.AddMany)
			admin.POST("/stock/import", h.Stock.ImportCSV)
			admin.GET("/stock/search", h.Stock.Search)
			admin.PATCH("/stock/:id", h.Stock.Update)
			admin.POST("/stock/sort", h.Stock.Sort)
			admin.GET("/reports/daily/export", h.Report.ExportDaily)
			admin.POST("/reports/daily/archive", h.Report.ArchiveDaily)
		}
	}
}
