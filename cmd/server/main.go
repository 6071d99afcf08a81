// @title           Order Portal Backend API
// @version         1.0.0
// @description     Backend for an order-tracking portal: admins upload client deliverables to Supabase storage, order metadata lives in Postgres, and clients follow a tokenized link to view versions and leave feedback.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"order-portal-backend/internal/config"
	"order-portal-backend/internal/database"
	"order-portal-backend/internal/handlers"
	"order-portal-backend/internal/middleware"
	"order-portal-backend/internal/services"
	"order-portal-backend/internal/supabase"
	"order-portal-backend/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger isn't up yet; this is the one place stderr is used directly.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer logger.Sync()

	// Temp dir for staging uploads before they reach object storage.
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		logger.Fatal("failed to create temp directory", zap.String("dir", cfg.TempDir), zap.Error(err))
	}

	migrator, err := database.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize migrator", zap.Error(err))
	}
	if err := migrator.Run(); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	migrator.Close()

	store, err := database.NewStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer store.Close()

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", zap.Error(err))
	}

	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		logger.Fatal("failed to initialize supabase client", zap.Error(err))
	}
	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	orderService := services.NewOrderService(store, storageClient, realtimeClient, token.NewGenerator(), logger)

	dashboardHandler := handlers.NewDashboardHandler(orderService, logger)
	uploadHandler := handlers.NewUploadHandler(orderService, cfg.TempDir, logger)
	ordersHandler := handlers.NewOrdersHandler(orderService, logger)
	clientHandler := handlers.NewClientHandler(orderService, logger)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin")
	})
	router.GET("/health", handlers.HealthHandler)

	// Admin surface
	admin := router.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg))
	admin.GET("", dashboardHandler.GetDashboard)
	admin.POST("/upload", uploadHandler.CreateOrder)
	admin.POST("/orders/:order_id/versions", uploadHandler.AppendVersion)
	admin.POST("/orders/:order_id/feedback/ack", ordersHandler.AcknowledgeFeedback)
	admin.POST("/orders/:order_id/approve", ordersHandler.ApproveOrder)

	// Client surface: the token in the URL is the credential
	router.GET("/orders/:token", clientHandler.ViewOrder)
	router.POST("/orders/:token/feedback", clientHandler.SubmitFeedback)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
