package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"payportal.backend/internal/config"
	"payportal.backend/internal/domain/entities"
	domainerrors "payportal.backend/internal/domain/errors"
	"payportal.backend/internal/interfaces/http/handlers"
	"payportal.backend/internal/interfaces/http/middleware"
	"payportal.backend/internal/interfaces/http/response"
	"payportal.backend/pkg/jwt"
	"payportal.backend/pkg/logger"
	"payportal.backend/pkg/metrics"
)

type routeDeps struct {
	authHandler         *handlers.AuthHandler
	employeeHandler     *handlers.EmployeeHandler
	paymentHandler      *handlers.PaymentHandler
	notificationHandler *handlers.NotificationHandler
	healthHandler       *handlers.HealthHandler
	jwtService          *jwt.JWTService
	metrics             *metrics.Registry
	server              config.ServerConfig
	rateLimit           config.RateLimitConfig
	bruteForce          config.BruteForceConfig
}

// newRouter builds the engine with the global middleware chain and every route
func newRouter(d routeDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(recoverPanic))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware(d.metrics))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(d.server.AllowedOrigin))
	r.Use(middleware.MethodAllowList())
	r.Use(middleware.TimeoutMiddleware(d.server.RequestTimeout))
	r.Use(middleware.RateLimit("global", d.rateLimit.GlobalMax, d.rateLimit.GlobalWindow))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, domainerrors.NotFound("Route not found"))
	})

	registerHealthRoutes(r, d)
	registerAccountRoutes(r, d)
	registerPaymentRoutes(r, d)
	return r
}

func recoverPanic(c *gin.Context, recovered interface{}) {
	logger.Error(c.Request.Context(), "Panic recovered",
		zap.String("path", c.Request.URL.Path),
		zap.Any("panic", recovered),
	)
	response.Abort(c, domainerrors.InternalError(fmt.Errorf("panic: %v", recovered)))
}

func registerHealthRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/health", d.healthHandler.Health)
	r.GET("/metrics", gin.WrapH(d.metrics.Handler()))
}

func registerAccountRoutes(r *gin.Engine, d routeDeps) {
	user := r.Group("/user")
	user.Use(middleware.RateLimit("user", d.rateLimit.UserMax, d.rateLimit.UserWindow))
	{
		user.POST("/register", d.authHandler.Register)
		user.POST("/login",
			middleware.BruteForceGuard(entities.RoleCustomer, d.bruteForce.MaxFailures, d.bruteForce.Window, d.metrics),
			d.authHandler.Login,
		)
		user.POST("/forgot-password", d.authHandler.ForgotPassword)
	}

	emp := r.Group("/emp")
	{
		emp.POST("/emplogin",
			middleware.BruteForceGuard(entities.RoleEmployee, d.bruteForce.MaxFailures, d.bruteForce.Window, d.metrics),
			d.employeeHandler.Login,
		)
		emp.POST("/forgot-password", d.employeeHandler.ForgotPassword)
	}
}

func registerPaymentRoutes(r *gin.Engine, d routeDeps) {
	customerOnly := middleware.RequireRole(entities.RoleCustomer)
	employeeOnly := middleware.RequireRole(entities.RoleEmployee)

	payments := r.Group("/payment")
	payments.Use(middleware.AuthMiddleware(d.jwtService))
	{
		payments.POST("", customerOnly, middleware.IdempotencyMiddleware(), d.paymentHandler.CreatePayment)
		payments.GET("", customerOnly, d.paymentHandler.ListPayments)
		payments.GET("/pending", employeeOnly, d.paymentHandler.ListPending)
		payments.GET("/status", d.paymentHandler.ListResolved)
		payments.POST("/history", d.notificationHandler.CreateHistory)
		payments.GET("/history", d.notificationHandler.ListHistory)
		payments.GET("/:id", d.paymentHandler.GetPayment)
		payments.PUT("/:id/status", employeeOnly, d.paymentHandler.UpdateStatus)
	}

	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(d.jwtService))
	{
		notifications.POST("", d.notificationHandler.CreateNotification)
		notifications.GET("/:username", d.notificationHandler.ListNotifications)
		notifications.PATCH("/:id/read", customerOnly, d.notificationHandler.MarkRead)
	}
}

