package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ministore_api/internal/config"
	"github.com/GTDGit/ministore_api/internal/database"
	"github.com/GTDGit/ministore_api/internal/handler"
	"github.com/GTDGit/ministore_api/internal/middleware"
	"github.com/GTDGit/ministore_api/internal/pubsub"
	"github.com/GTDGit/ministore_api/internal/repository"
	"github.com/GTDGit/ministore_api/internal/service"
	"github.com/GTDGit/ministore_api/internal/sse"
	"github.com/GTDGit/ministore_api/internal/utils"
)

// main is the application entrypoint for the MiniStore API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting ministore api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := database.Migrate(db.DB, cfg.MigrationsPath); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Order events: in-process hub, fanned out through Redis when configured
	hub := sse.NewHub()
	var notifier sse.OrderNotifier = sse.NewHubNotifier(hub)
	healthChecks := map[string]handler.HealthCheck{"database": db.PingContext}

	if cfg.Redis.Enabled() {
		broker, err := pubsub.NewRedisBroker(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer broker.Close()
		log.Info().Str("channel", cfg.Redis.Channel).Msg("redis connected successfully")

		go func() {
			if err := broker.Run(ctx, hub.BroadcastRaw); err != nil {
				log.Error().Err(err).Msg("order event subscription stopped")
			}
		}()
		notifier = sse.NewBrokerNotifier(broker, hub)
		healthChecks["redis"] = broker.Ping
	}

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	clientRepo := repository.NewClientRepository(db)
	lookupRepo := repository.NewLookupRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reportRepo := repository.NewReportRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)

	// 6. Initialize services
	var images service.ImageStore
	if cfg.S3.Enabled() {
		s3Svc, err := service.NewS3Service(ctx, &cfg.S3)
		if err != nil {
			log.Error().Err(err).Msg("S3 client initialization failed")
			fmt.Fprintf(os.Stderr, "S3 client initialization failed: %v\n", err)
			os.Exit(1)
		}
		images = s3Svc
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("product image storage enabled")
	}

	productSvc := service.NewProductService(productRepo, lookupRepo, images)
	clientSvc := service.NewClientService(clientRepo)
	commonSvc := service.NewCommonService(lookupRepo, clientRepo)
	orderSvc := service.NewOrderService(orderRepo, notifier)
	reportSvc := service.NewReportService(reportRepo)

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(healthChecks),
		Product: handler.NewProductHandler(productSvc),
		Order:   handler.NewOrderHandler(orderSvc),
		Client:  handler.NewClientHandler(clientSvc),
		Common:  handler.NewCommonHandler(commonSvc),
		Report:  handler.NewReportHandler(reportSvc),
		SSE:     handler.NewSSEHandler(hub),
	}

	// 8. Initialize auth (optional)
	var jwtMw *middleware.JWTMiddleware
	var limiter *middleware.LoginRateLimiter
	if cfg.Auth.Enabled() {
		signer := utils.NewJWTSigner(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		authSvc := service.NewAdminAuthService(adminRepo, signer)
		if cfg.Auth.AdminEmail != "" && cfg.Auth.AdminPassword != "" {
			if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
				log.Error().Err(err).Msg("failed to seed admin user")
			}
		}
		jwtMw = middleware.NewJWTMiddleware(signer)
		limiter = middleware.NewLoginRateLimiter(5, time.Minute)
		handlers.Auth = handler.NewAuthHandler(authSvc, limiter)
		log.Info().Dur("token_ttl", cfg.Auth.TokenTTL).Msg("admin authentication enabled")
	} else {
		log.Warn().Msg("JWT_SECRET not set: API routes are not authenticated")
	}

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	router.MaxMultipartMemory = 8 << 20
	setupRoutes(router, handlers, jwtMw, limiter)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Stop the event subscription
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Client  *handler.ClientHandler
	Common  *handler.CommonHandler
	Report  *handler.ReportHandler
	Auth    *handler.AuthHandler
	SSE     *handler.SSEHandler
}

// setupRoutes registers every route under /api. jwtMw is nil when
// authentication is disabled.
func setupRoutes(r *gin.Engine, h *Handlers, jwtMw *middleware.JWTMiddleware, limiter *middleware.LoginRateLimiter) {
	api := r.Group("/api")
	api.GET("/health", h.Health.GetHealth)

	if h.Auth != nil {
		api.POST("/auth/login", limiter.Handle(), h.Auth.Login)
	}

	protected := api.Group("")
	if jwtMw != nil {
		protected.Use(jwtMw.Handle())
	}

	productos := protected.Group("/productos")
	{
		productos.GET("", h.Product.ListProducts)
		productos.GET("/:id", h.Product.GetProduct)
		productos.POST("", h.Product.CreateProduct)
		productos.PUT("/:id", h.Product.UpdateProduct)
		productos.DELETE("/:id", h.Product.DeleteProduct)
		productos.POST("/:id/imagen", h.Product.UploadImage)
	}

	pedidos := protected.Group("/pedidos")
	{
		pedidos.GET("", h.Order.ListOrders)
		pedidos.GET("/:id", h.Order.GetOrder)
		pedidos.POST("", h.Order.CreateOrder)
		pedidos.PUT("/:id", h.Order.UpdateOrder)
		pedidos.PATCH("/:id/estado", h.Order.UpdateStatus)
	}

	clientes := protected.Group("/clientes")
	{
		clientes.GET("", h.Client.ListClients)
		clientes.GET("/:id", h.Client.GetClient)
		clientes.POST("", h.Client.CreateClient)
		clientes.PUT("/:id", h.Client.UpdateClient)
		clientes.DELETE("/:id", h.Client.DeleteClient)
	}

	common := protected.Group("/common")
	{
		common.GET("/categorias", h.Common.GetCategories)
		common.GET("/clientes", h.Common.GetClients)
		common.GET("/canales", h.Common.GetChannels)
	}

	reportes := protected.Group("/reportes")
	{
		reportes.GET("/ganancias", h.Report.GetProfitSummary)
		reportes.GET("/productos-top", h.Report.GetTopProducts)
		reportes.GET("/ventas-recientes", h.Report.GetRecentSales)
		reportes.GET("/ventas-mensuales", h.Report.GetMonthlySales)
		reportes.GET("/stats", h.Report.GetDashboardStats)
	}

	protected.GET("/eventos", h.SSE.Stream)
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
