package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"sportsstore/internal/auth"
	"sportsstore/internal/cart"
	"sportsstore/internal/categories"
	"sportsstore/internal/config"
	"sportsstore/internal/db"
	"sportsstore/internal/domain/user"
	"sportsstore/internal/events"
	"sportsstore/internal/logger"
	"sportsstore/internal/mail"
	"sportsstore/internal/metrics"
	"sportsstore/internal/orders"
	"sportsstore/internal/products"
	"sportsstore/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.New(logger.Options{
		Service: "sportsstore",
		Env:     cfg.AppEnv,
		Level:   cfg.LogLevel,
	})

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPostgres(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	jwtMgr := auth.NewJWTManager(auth.JWTConfig{
		Issuer:         cfg.JWTIssuer,
		AccessSecret:   cfg.JWTAccessSecret,
		RefreshSecret:  cfg.JWTRefreshSecret,
		AccessTTLMin:   cfg.AccessTokenTTLMin,
		RefreshTTLDays: cfg.RefreshTokenTTLDays,
	})

	// Repos
	userRepo := auth.NewUserRepo(pool)
	refreshRepo := auth.NewRefreshRepo(pool)
	prodRepo := products.NewRepo(pool)
	catRepo := categories.NewRepo(pool)
	cartRepo := cart.NewRepo(pool)
	orderRepo := orders.NewRepo(pool)

	if err := auth.SeedAdmin(ctx, userRepo, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	srvMetrics := metrics.NewServerMetrics("api")

	// Order notifications are optional; each one is enabled by its own config.
	var notifiers []orders.Notifier
	smtpCfg := mail.SMTPConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}
	if smtpCfg.Enabled() && cfg.OrdersNotifyTo != "" {
		notifiers = append(notifiers, mail.NewOrderNotifier(mail.NewSMTPMailer(smtpCfg), cfg.OrdersNotifyTo))
	}
	if kc := events.NewClient(cfg.KafkaBrokers); kc.Enabled() {
		w := kc.NewWriter(cfg.KafkaOrdersTopic)
		defer w.Close()
		notifiers = append(notifiers, events.NewOrderPublisher(w))
	}

	authHandler := auth.NewHandler(auth.Dependencies{
		JWT:     jwtMgr,
		Users:   userRepo,
		Refresh: refreshRepo,
		Log:     log,

		SecureCookie: cfg.IsProd(),
	})
	prodHandler := products.NewHandler(prodRepo, cfg.ProductsPageSize)
	catHandler := categories.NewHandler(catRepo)
	cartHandler := cart.NewHandler(cartRepo)
	orderHandler := orders.NewHandler(orders.Dependencies{
		Service: orders.NewService(orderRepo, log, notifiers...),
		Carts:   cartRepo,
		Orders:  orderRepo,
		Admin:   orderRepo,
		Metrics: srvMetrics,
		Log:     log,
	})

	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(log), srvMetrics.Middleware())

	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/metrics", gin.WrapH(srvMetrics.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	api := r.Group("/api")
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Public catalog routes (no login required)
	api.GET("/categories", catHandler.ListPublic)
	api.GET("/products", prodHandler.ListPublic)
	api.GET("/products/:id", prodHandler.GetPublic)

	protected := api.Group("/")
	protected.Use(auth.AuthMiddleware(jwtMgr))
	{
		protected.GET("/me", authHandler.Me)

		protected.GET("/cart", cartHandler.GetMyCart)
		protected.POST("/cart/items", cartHandler.AddItem)
		protected.PATCH("/cart/items", cartHandler.UpdateQty)
		protected.DELETE("/cart/items", cartHandler.RemoveLine)

		protected.GET("/checkout", orderHandler.CheckoutForm)
		protected.POST("/checkout", orderHandler.Checkout)
		protected.GET("/checkout/completed", orderHandler.Completed)

		adminOnly := protected.Group("/admin")
		adminOnly.Use(auth.RequireRole(user.RoleAdmin))

		adminOnly.POST("/products", prodHandler.AdminCreate)
		adminOnly.PUT("/products/:id", prodHandler.AdminUpdate)
		adminOnly.DELETE("/products/:id", prodHandler.AdminDelete)

		adminOnly.GET("/orders", orderHandler.AdminList)
		adminOnly.POST("/orders/:id/ship", orderHandler.AdminMarkShipped)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
