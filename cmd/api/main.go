package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/frescolabs/storefront-api/internal/config"
	"github.com/frescolabs/storefront-api/internal/handler"
	"github.com/frescolabs/storefront-api/internal/kvstore"
	"github.com/frescolabs/storefront-api/internal/middleware"
	"github.com/frescolabs/storefront-api/internal/notify"
	"github.com/frescolabs/storefront-api/internal/repository"
	"github.com/frescolabs/storefront-api/internal/service"
	"github.com/frescolabs/storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis: the durable key-value store behind every storage slot.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ: mail-intent queue.
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Storage slots and repositories
	kv := kvstore.NewRedis(redisClient, cfg.Redis.Prefix)

	var fetch repository.FetchFunc
	if cfg.Catalog.RemoteURL != "" {
		fetch = repository.NewHTTPCatalogFetch(cfg.Catalog.RemoteURL, cfg.Catalog.FetchTimeout)
	}

	userRepo := repository.NewUserRepository(kv)
	catalogRepo := repository.NewCatalogRepository(kv, fetch)
	orderRepo := repository.NewOrderRepository(kv)
	sessionRepo := repository.NewSessionRepository(kv)

	// Services
	notifier := notify.NewAMQP(amqpCh)
	authSvc := service.NewAuthService(userRepo, notifier, cfg.JWT.Secret, cfg.JWT.Expiration, cfg.Store.PhonePrefix)
	accountSvc := service.NewAccountService(userRepo, orderRepo)
	catalogSvc := service.NewCatalogService(catalogRepo)
	sessionSvc := service.NewSessionService(sessionRepo, catalogRepo, orderRepo, notifier)

	// Handlers
	authH := handler.NewAuthHandler(authSvc, sessionSvc)
	accountH := handler.NewAccountHandler(accountSvc, sessionSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc, accountSvc)
	sessionH := handler.NewSessionHandler(sessionSvc)
	orderH := handler.NewOrderHandler(sessionSvc)
	healthH := handler.NewHealthHandler(redisClient, amqpConn)

	// Worker
	mailWorker := worker.NewMailWorker(amqpCh, log, cfg.Store.VerifyBaseURL)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	v1 := router.Group("/api/v1", middleware.Session())
	{
		auth := v1.Group("/auth")
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)
		auth.POST("/logout", authH.Logout)
		auth.POST("/verify", authH.VerifyEmail)
		auth.POST("/resend-verification", authH.ResendVerification)
		auth.POST("/forgot-password", authH.ForgotPassword)
		auth.POST("/reset-password", authH.ResetPassword)

		products := v1.Group("/products")
		products.GET("", catalogH.List)
		products.GET("/:id", catalogH.GetByID)
		products.POST("/:id/reviews", middleware.Auth(cfg.JWT.Secret), catalogH.SubmitReview)

		cart := v1.Group("/cart")
		cart.GET("", sessionH.GetCart)
		cart.POST("/items", sessionH.AddCartItem)
		cart.PUT("/items/:id", sessionH.UpdateCartItem)
		cart.DELETE("/items/:id", sessionH.RemoveCartItem)
		cart.DELETE("", sessionH.ClearCart)

		wishlist := v1.Group("/wishlist")
		wishlist.GET("", sessionH.GetWishlist)
		wishlist.POST("/toggle", sessionH.ToggleWishlist)

		session := v1.Group("/session")
		session.PUT("/theme", sessionH.SetTheme)
		session.PUT("/page", sessionH.SetPage)

		v1.POST("/checkout", orderH.Checkout)
		v1.GET("/orders", orderH.ListOrders)
		v1.POST("/orders/:id/email", orderH.EmailOrder)

		account := v1.Group("/account", middleware.Auth(cfg.JWT.Secret))
		account.GET("", accountH.Get)
		account.PUT("", accountH.UpdateProfile)
		account.DELETE("", accountH.DeleteAccount)
		account.POST("/addresses", accountH.AddAddress)
		account.PUT("/addresses/:id", accountH.UpdateAddress)
		account.DELETE("/addresses/:id", accountH.DeleteAddress)
		account.POST("/payment-methods", accountH.AddPaymentMethod)
		account.DELETE("/payment-methods/:id", accountH.DeletePaymentMethod)
	}

	if err := mailWorker.Start(ctx); err != nil {
		log.Error("start mail worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	mailWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
