package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/zurpack/catalog-api/auth"
	"github.com/zurpack/catalog-api/cart"
	"github.com/zurpack/catalog-api/config"
	cartControllers "github.com/zurpack/catalog-api/controllers/cart"
	quotationController "github.com/zurpack/catalog-api/controllers/quotation"
	"github.com/zurpack/catalog-api/database"
	"github.com/zurpack/catalog-api/mail"
	"github.com/zurpack/catalog-api/media"
	"github.com/zurpack/catalog-api/middleware"
	"github.com/zurpack/catalog-api/notify"
	"github.com/zurpack/catalog-api/repository"
	"github.com/zurpack/catalog-api/routes"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	log.Println("✅ Starting application...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	level := logger.Warn
	if cfg.Production() {
		level = logger.Error
		gin.SetMode(gin.ReleaseMode)
	}
	db, err := database.Open(cfg.Database, level)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}

	deps := &routes.Deps{
		Env:            cfg.Env,
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.AllowedOrigins,
		Products:       repository.NewProductRepository(db),
		Categories:     repository.NewCategoryRepository(db),
		Advertisements: repository.NewAdvertisementRepository(db),
		Admins:         repository.NewAdminRepository(db),
		Tokens:         auth.NewTokens(cfg.JWTSecret, 0),
		Hub:            notify.NewHub(middleware.SameOrigin(cfg.AllowedOrigins)),
	}

	// Images: Cloudinary when configured, otherwise the local uploads dir
	ctx, cancelBackground := context.WithCancel(context.Background())
	if cfg.Cloudinary.Enabled() {
		deps.Images, err = media.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Println("☁️ Images stored in Cloudinary")
	} else {
		deps.Images = media.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
		deps.UploadDir = cfg.UploadDir
		log.Printf("📁 Images stored in %s", cfg.UploadDir)

		if cfg.BackupDir != "" {
			// Back up the uploads every day at 2 AM
			go media.RunDailyBackup(ctx, cfg.UploadDir, cfg.BackupDir, cfg.BackupRetention, 2, 0)
		}
	}

	// Carts and rate limits: Redis when configured, otherwise local
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("❌ Invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opts)
		deps.Carts = cartControllers.NewCarts(cart.NewRedisStorage(rdb, "cart:", cfg.CartTTL))
		deps.Limiter = middleware.NewRedisLimiter(rdb, "ratelimit:", cfg.RateLimit, cfg.RateWindow)
		log.Println("🧺 Carts stored in Redis")
	} else {
		deps.Carts = cartControllers.NewCarts(cart.NewFileStorage(cfg.CartDir))
		deps.Limiter = middleware.NewLocalLimiter(cfg.RateLimit, cfg.RateWindow)
		log.Printf("🧺 Carts stored in %s", cfg.CartDir)
	}

	deps.Desk = &quotationController.Desk{
		Sender: mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password),
		To:     cfg.SMTP.To,
		Hub:    deps.Hub,
	}

	// Gin setup
	r := gin.Default()

	// Product and category images (10 MB in memory, the rest spills to disk)
	r.MaxMultipartMemory = 10 << 20

	routes.SetupRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("🚀 Server running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(context.Background(), shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
		"background": func(context.Context) error {
			cancelBackground()
			return nil
		},
		"websocket-hub": func(context.Context) error {
			deps.Hub.Close()
			return nil
		},
		"redis": func(context.Context) error {
			if rdb == nil {
				return nil
			}
			return rdb.Close()
		},
		"database": func(context.Context) error {
			return database.Close(db)
		},
	})
	exitCode := <-wait
	log.Println("👋 Server stopped")
	os.Exit(exitCode)
}
