package router

import (
	"time"

	"agencydesk/config"
	"agencydesk/internal/domain"
	"agencydesk/internal/handler"
	"agencydesk/internal/middleware"
	"agencydesk/internal/repository"
	"agencydesk/internal/service"
	"agencydesk/internal/ws"
	"agencydesk/pkg/checkout"
	"agencydesk/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, provider checkout.Provider, sweeper handler.OverdueSweeper) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	hub := ws.NewHub()

	// Services
	notifSvc := service.NewNotificationService(notificationRepo, hub)
	paymentSvc := service.NewPaymentService(paymentRepo, clientRepo, taskRepo, notifSvc, hub, cfg.Server.StoreTimeout)
	checkoutSvc := service.NewCheckoutService(paymentRepo, paymentSvc, provider, cfg.Checkout.PayeeName, cfg.Checkout.Timeout)
	dashboardSvc := service.NewDashboardService(clientRepo, taskRepo, paymentRepo, cfg.Server.StoreTimeout)

	// Handlers
	authHandler := handler.NewAuthHandler(userRepo, &cfg.JWT)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, cloud, sweeper)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo, userRepo)
	clientHandler := handler.NewClientHandler(clientRepo, notifSvc)
	taskHandler := handler.NewTaskHandler(taskRepo, notifSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.GET("/me", authMw, authHandler.Me)
			authGroup.PATCH("/preferences", authMw, authHandler.UpdatePreferences)
		}

		api.GET("/dashboard", authMw, dashboardHandler.Stats)

		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.GET("", paymentHandler.List)
			payments.GET("/reminders", paymentHandler.Reminders)
			payments.POST("", adminOnly, paymentHandler.Create)
			payments.PATCH("/:id", adminOnly, paymentHandler.Update)
			payments.DELETE("/:id", adminOnly, paymentHandler.Delete)
			payments.POST("/sweep-overdue", adminOnly, paymentHandler.SweepOverdue)
			payments.POST("/:id/mark-paid", paymentHandler.MarkPaid)
			payments.POST("/:id/checkout", checkoutHandler.Initiate)
			payments.POST("/verify", checkoutHandler.Verify)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
			notifications.PUT("/read-all", notificationHandler.MarkAllRead)
		}

		clients := api.Group("/clients")
		clients.Use(authMw, adminOnly)
		{
			clients.GET("", clientHandler.List)
			clients.POST("", clientHandler.Create)
			clients.GET("/:id", clientHandler.Get)
			clients.PUT("/:id", clientHandler.Update)
		}

		tasks := api.Group("/tasks")
		tasks.Use(authMw)
		{
			tasks.GET("", taskHandler.List)
			tasks.GET("/:id", taskHandler.Get)
			tasks.POST("", adminOnly, taskHandler.Create)
			tasks.PUT("/:id", adminOnly, taskHandler.Update)
		}
	}

	r.GET("/ws/feed", ws.UpgradeFeedWS(&cfg.JWT, hub))

	return r
}
