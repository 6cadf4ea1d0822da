// Package main runs the authentication and membership HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/crewstack/auth-backend/config"
	"github.com/crewstack/auth-backend/internal/auth"
	"github.com/crewstack/auth-backend/internal/emaillogs"
	"github.com/crewstack/auth-backend/internal/members"
	"github.com/crewstack/auth-backend/internal/middleware"
	"github.com/crewstack/auth-backend/internal/stats"
	"github.com/crewstack/auth-backend/pkg/database"
	"github.com/crewstack/auth-backend/pkg/queue"
	"github.com/crewstack/auth-backend/pkg/redis"
	"github.com/crewstack/auth-backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	tokens := auth.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth gateway
	userRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(userRepo, tokens, logger)

	// Membership engine
	memberRepo := members.NewRepository(pool)
	memberSvc := members.NewService(userRepo, memberRepo, jobQueue, cfg.Auth.BcryptCost, logger)
	memberHandler := members.NewHandler(memberSvc, logger)

	// Reporting
	statsRepo := stats.NewRepository(pool)
	statsHandler := stats.NewHandler(statsRepo, logger)

	// Mail delivery audit trail
	emailLogRepo := emaillogs.NewRepository(pool)
	emailLogHandler := emaillogs.NewHandler(emailLogRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signin", authHandler.SignIn)
		authGroup.POST("/signup", memberHandler.SignUp)
		authGroup.POST("/reset-password", memberHandler.ResetPassword)
	}

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(tokens))
	{
		api.GET("/me", authHandler.Me)
		api.DELETE("/users/:id", authHandler.DeleteUser)

		// Membership
		api.POST("/members/invite", memberHandler.Invite)
		api.DELETE("/members/:id", memberHandler.Remove)
		api.PUT("/members/:id/role", memberHandler.ChangeRole)
		api.POST("/organizations/:id/roles", memberHandler.CreateRole)
		api.DELETE("/organizations/:id", memberHandler.DeleteOrganization)

		// Statistics
		api.GET("/stats/role-wise-users", statsHandler.RoleWiseUsers)
		api.GET("/stats/org-wise-members", statsHandler.OrgWiseMembers)
		api.GET("/stats/org-role-wise-users", statsHandler.OrgRoleWiseUsers)

		// Mail delivery audit trail
		api.GET("/emails", emailLogHandler.List)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
