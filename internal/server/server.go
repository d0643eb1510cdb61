package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/menucraft/menucraft/internal/cache"
	"github.com/menucraft/menucraft/internal/config"
	"github.com/menucraft/menucraft/internal/handler"
	"github.com/menucraft/menucraft/internal/middleware"
	"github.com/menucraft/menucraft/internal/quota"
	"github.com/menucraft/menucraft/internal/ratelimit"
	"github.com/menucraft/menucraft/internal/repository"
	"github.com/menucraft/menucraft/internal/scan"
	"github.com/menucraft/menucraft/internal/service"
	"github.com/menucraft/menucraft/internal/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

type Server struct {
	router     *gin.Engine
	config     *config.Config
	db         *storage.DB
	redis      *storage.RedisClient
	limiter    *ratelimit.Limiter
	recorder   *scan.Recorder
	cron       *cron.Cron
	httpServer *http.Server

	authService *service.AuthService

	authHandler       *handler.AuthHandler
	restaurantHandler *handler.RestaurantHandler
	menuHandler       *handler.MenuHandler
	qrCodeHandler     *handler.QRCodeHandler
	locationHandler   *handler.LocationHandler
	billingHandler    *handler.BillingHandler
	analyticsHandler  *handler.AnalyticsHandler
	publicHandler     *handler.PublicHandler
}

func New(cfg *config.Config, db *storage.DB, redis *storage.RedisClient) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	menuRepo := repository.NewMenuRepository(db)
	qrCodeRepo := repository.NewQRCodeRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	scanRepo := repository.NewScanRepository(db)

	// Policy components, owned here so tests can build isolated instances
	limiter := ratelimit.New()
	enforcer := quota.NewEnforcer(subscriptionRepo, restaurantRepo, menuRepo, qrCodeRepo, locationRepo)

	// Services and supporting infrastructure
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	analyticsService := service.NewAnalyticsService(scanRepo, qrCodeRepo)
	menuCache := cache.NewMenuCache(redis)
	recorder := scan.NewRecorder(scanRepo, 1024)

	scheduler := cron.New()
	if err := scan.ScheduleRollup(scheduler, scanRepo); err != nil {
		log.Printf("Failed to schedule scan rollup: %v", err)
	}

	s := &Server{
		router:      router,
		config:      cfg,
		db:          db,
		redis:       redis,
		limiter:     limiter,
		recorder:    recorder,
		cron:        scheduler,
		authService: authService,

		authHandler:       handler.NewAuthHandler(authService),
		restaurantHandler: handler.NewRestaurantHandler(restaurantRepo),
		menuHandler:       handler.NewMenuHandler(restaurantRepo, menuRepo, enforcer, menuCache),
		qrCodeHandler:     handler.NewQRCodeHandler(restaurantRepo, menuRepo, qrCodeRepo, enforcer, cfg),
		locationHandler:   handler.NewLocationHandler(restaurantRepo, locationRepo, enforcer),
		billingHandler:    handler.NewBillingHandler(subscriptionRepo, enforcer),
		analyticsHandler:  handler.NewAnalyticsHandler(restaurantRepo, menuRepo, qrCodeRepo, scanRepo, analyticsService),
		publicHandler:     handler.NewPublicHandler(menuRepo, qrCodeRepo, menuCache, recorder),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Metrics())
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Guest-facing routes: no auth, no admission limiting
	s.router.GET("/m/:slug", s.publicHandler.GetMenu)
	s.router.GET("/q/:code", s.publicHandler.Scan)

	// Only /api traffic passes the admission limiter
	api := s.router.Group("/api")
	api.Use(middleware.RateLimit(s.limiter))

	auth := api.Group("/auth")
	{
		auth.POST("/register", s.authHandler.Register)
		auth.POST("/login", s.authHandler.Login)
	}

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(s.authService))
	{
		authed.GET("/auth/me", s.authHandler.Me)

		authed.POST("/restaurants", s.restaurantHandler.Create)
		authed.GET("/restaurants/me", s.restaurantHandler.Get)
		authed.PUT("/restaurants/me", s.restaurantHandler.Update)

		authed.POST("/menus", s.menuHandler.Create)
		authed.GET("/menus", s.menuHandler.List)
		authed.GET("/menus/:id", s.menuHandler.Get)
		authed.PUT("/menus/:id", s.menuHandler.Update)
		authed.DELETE("/menus/:id", s.menuHandler.Delete)
		authed.GET("/menus/:id/export.pdf", s.menuHandler.ExportPDF)
		authed.POST("/menus/:id/categories", s.menuHandler.CreateCategory)
		authed.POST("/categories/:id/items", s.menuHandler.CreateItem)
		authed.PUT("/items/:id", s.menuHandler.UpdateItem)
		authed.DELETE("/items/:id", s.menuHandler.DeleteItem)

		authed.POST("/qrcodes", s.qrCodeHandler.Create)
		authed.GET("/qrcodes", s.qrCodeHandler.List)
		authed.GET("/qrcodes/:id/image", s.qrCodeHandler.Image)
		authed.DELETE("/qrcodes/:id", s.qrCodeHandler.Delete)

		authed.POST("/locations", s.locationHandler.Create)
		authed.GET("/locations", s.locationHandler.List)
		authed.PUT("/locations/:id", s.locationHandler.Update)
		authed.DELETE("/locations/:id", s.locationHandler.Delete)

		authed.GET("/billing/plans", s.billingHandler.Plans)
		authed.GET("/billing/subscription", s.billingHandler.Subscription)
		authed.PUT("/billing/subscription", s.billingHandler.ChangeTier)

		authed.GET("/analytics/summary", s.analyticsHandler.GetSummary)
		authed.GET("/analytics/timeseries", s.analyticsHandler.GetTimeSeries)
		authed.GET("/analytics/qrcodes/:id", s.analyticsHandler.GetQRCodeStats)
		authed.GET("/analytics/scans", s.analyticsHandler.GetScans)
		authed.GET("/analytics/export", s.analyticsHandler.Export)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealthy := true
	if err := s.db.Ping(c.Request.Context()); err != nil {
		dbHealthy = false
		log.Printf("Database health check failed: %v", err)
	}

	redisHealthy := true
	if s.redis != nil {
		if err := s.redis.Ping(c.Request.Context()); err != nil {
			redisHealthy = false
			log.Printf("Redis health check failed: %v", err)
		}
	}

	status := "healthy"
	statusCode := http.StatusOK

	if !dbHealthy || !redisHealthy {
		status = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":    status,
		"service":   "menucraft",
		"version":   "1.0.0",
		"timestamp": time.Now().Unix(),
		"checks": gin.H{
			"database": dbHealthy,
			"redis":    redisHealthy,
		},
	})
}

func (s *Server) Run(addr string) error {
	s.cron.Start()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.Printf("Starting menucraft API on %s", addr)
	log.Printf("Environment: %s", s.config.Server.Environment)

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")

	s.cron.Stop()
	s.recorder.Close()

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
