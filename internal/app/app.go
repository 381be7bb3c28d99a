package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-cms/auth-service/internal/config"
	"github.com/inkwell-cms/auth-service/internal/handler"
	"github.com/inkwell-cms/auth-service/internal/repository"
	"github.com/inkwell-cms/auth-service/internal/service"
	"github.com/inkwell-cms/auth-service/internal/utils"
	"github.com/inkwell-cms/auth-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra  Infrastructure
	config *config.Config
	router *gin.Engine
	server *http.Server
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	repos := repository.NewRepositories(infra.Postgres())

	tokenManager := utils.NewTokenManager(
		cfg.JWT.Secret,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.AccessTokenExpiry.Duration,
	)

	rateLimiter := service.NewRateLimiter(infra.Redis())
	healthChecker := NewHealthChecker(infra)
	resetSender := service.NewLogResetSender(infra.Logger(), cfg.Env != "production")

	authService := service.NewAuthService(
		repos,
		tokenManager,
		infra.GoogleVerifier(),
		resetSender,
		infra.Logger(),
		service.Config{
			BCryptCost:                     cfg.Security.BCryptCost,
			RefreshTokenTTL:                cfg.JWT.RefreshTokenExpiry.Duration,
			ResetTokenTTL:                  cfg.Security.ResetTokenExpiry.Duration,
			RevokeSessionsOnPasswordChange: cfg.Security.RevokeSessionsOnPasswordChange,
		},
	)

	authHandler := handler.NewAuthHandler(authService)
	adminHandler := handler.NewAdminHandler(authService)

	authMetrics, err := observability.NewAuthMetrics("auth-service")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth metrics: %w", err)
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("auth-service"))
	router.Use(handler.LoggerMiddleware(infra.Logger()))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, cfg, authHandler, adminHandler, authService, rateLimiter, authMetrics, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:  infra,
		config: cfg,
		router: router,
		server: srv,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	authService service.AuthService,
	rateLimiter *service.RateLimiter,
	authMetrics *observability.AuthMetrics,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	credentialLimit := handler.RateLimitMiddleware(
		rateLimiter,
		cfg.Security.RateLimitRequests,
		cfg.Security.RateLimitWindow.Duration,
		handler.IPBasedKey,
	)

	api := router.Group("/api/v1")
	{
		auth := api.Group("/auth")
		auth.Use(authMetrics.Middleware())
		{
			auth.POST("/register", credentialLimit, authHandler.Register)
			auth.POST("/login", credentialLimit, authHandler.Login)
			auth.POST("/google", credentialLimit, authHandler.Google)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", handler.RequireAuth(authService), authHandler.Logout)
			auth.POST("/forgot-password", credentialLimit, authHandler.ForgotPassword)
			auth.POST("/reset-password", credentialLimit, authHandler.ResetPassword)

			auth.GET("/profile", handler.RequireAuth(authService), authHandler.GetProfile)
			auth.PUT("/profile", handler.RequireAuth(authService), authHandler.UpdateProfile)
			auth.PUT("/change-password", handler.RequireAuth(authService), authHandler.ChangePassword)
		}

		admin := api.Group("/admin/users")
		admin.Use(handler.RequireAuth(authService))
		{
			admin.GET("/:id", handler.RequireAdminOrOwner("id"), adminHandler.GetUser)
			admin.PUT("/:id/role", handler.RequireAdmin(), adminHandler.SetRole)
			admin.PUT("/:id/deactivate", handler.RequireAdmin(), adminHandler.Deactivate)
			admin.POST("/:id/logout-all", handler.RequireAdminOrOwner("id"), adminHandler.LogoutAll)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		a.infra.Logger().Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.infra.Logger().Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		a.infra.Logger().Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		a.infra.Logger().Info("Application stopped by context")
	}

	if err := a.Shutdown(); err != nil {
		a.infra.Logger().Error("Shutdown error", zap.Error(err))
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

func (a *App) Shutdown() error {
	a.infra.Logger().Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := make(chan error, 2)

	go func() {
		errs <- a.server.Shutdown(ctx)
	}()

	go func() {
		errs <- a.infra.Shutdown(ctx)
	}()

	err := errors.Join(<-errs, <-errs)
	if err != nil {
		a.infra.Logger().Error("Shutdown failed", zap.Error(err))
		return err
	}

	a.infra.Logger().Info("Application exited successfully")
	return nil
}
