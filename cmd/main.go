package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-blog-publisher/config"
	"github.com/oksasatya/go-blog-publisher/internal/container"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/metrics"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/search"
	"github.com/oksasatya/go-blog-publisher/internal/infrastructure/store"
	"github.com/oksasatya/go-blog-publisher/internal/router"
	"github.com/oksasatya/go-blog-publisher/pkg/helpers"
	"github.com/oksasatya/go-blog-publisher/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	if cfg.JWTSecret == "devsecret" && cfg.Env == "production" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	ctx := context.Background()

	// Content store (postgres runs migrations first)
	stores, err := store.Open(ctx, cfg, logger, true)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer stores.Close()
	logger.WithField("driver", stores.Driver).Info("content store ready")

	// Redis (optional, rate limiting)
	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	// GCS (optional, image uploads)
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	// Elasticsearch (optional, search). Indexing failures never block writes.
	es, err := helpers.NewESClient(helpers.ESOptions{
		Addrs:      cfg.ESAddrs(),
		Username:   cfg.ElasticsearchUser,
		Password:   cfg.ElasticsearchPass,
		MaxRetries: cfg.ESMaxRetries,
	})
	if err != nil {
		log.Fatalf("failed to init elasticsearch: %v", err)
	}
	if es != nil {
		if err := search.NewBlogIndex(es, cfg.ESBlogsIndex, logger).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index not ready; search may return errors")
		}
		container.SetES(es)
	}

	// RabbitMQ (optional, email jobs)
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		if pub != nil {
			defer pub.Close()
			container.SetRabbitPub(pub)
		} else {
			logger.Warn("MAIL_SEND_ENABLED=true but RABBITMQ_URL is empty; emails are skipped")
		}
	}

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetPGPool(stores.PG)
	container.SetMongo(stores.Mongo)
	container.SetStores(stores.Users, stores.Blogs)
	container.SetRedis(rdb)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL))
	container.SetMetrics(metrics.New("blog"))

	// Gin engine with global middleware, then feature modules
	r := router.NewEngine(cfg, container.GetMetrics())
	reg := router.NewRegistry(r)
	router.InitModules(reg, router.DepsFromContainer())
	reg.RegisterAll()
	logger.WithField("routes", reg.Routes()).Debug("api routes mounted")

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}
