package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"boutique/internal/config"
	"boutique/internal/database"
	"boutique/internal/repositories"
	"boutique/internal/services"
	"boutique/pkg/mailer"
	"boutique/pkg/objectstore"
	"boutique/pkg/rabbitmq"
	"boutique/pkg/stripepay"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	// --- Configuration ---
	cfg, envLoaded := config.Load(viper.New())

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	if !envLoaded {
		log.Info("no .env file found, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("refusing to start with an unsafe configuration", zap.Error(err))
	}

	// --- Database ---
	db, err := database.Open(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStartup()

	deps := Dependencies{
		DB:       db,
		Carts:    newCartStore(startupCtx, cfg, log),
		Payments: stripepay.New(stripepay.Config{SecretKey: cfg.StripeSecretKey, WebhookSecret: cfg.StripeWebhookSecret}),
		Logger:   log,
	}
	if !deps.Payments.CanVerifyWebhooks() {
		log.Warn("stripe keys are not fully configured; checkout and webhooks will answer 500")
	}

	// --- RabbitMQ ---
	mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL}, log)
	if err != nil {
		log.Warn("RabbitMQ unavailable, order events are disabled", zap.Error(err))
	} else {
		defer mqClient.Close()
		deps.Publisher = mqClient
	}

	// --- Object storage ---
	if cfg.MinioEndpoint != "" {
		store, err := objectstore.NewMinioStore(objectstore.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			log.Warn("image storage disabled", zap.Error(err))
		} else {
			if err := store.EnsureBucket(startupCtx); err != nil {
				log.Warn("failed to ensure image bucket", zap.String("bucket", cfg.MinioBucket), zap.Error(err))
			}
			deps.Images = store
		}
	}

	// --- Mail ---
	var mail services.Mailer
	smtp := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	if smtp.Configured() {
		mail = smtp
	}

	application, err := NewApp(cfg, deps, mail)
	if err != nil {
		log.Fatal("failed to build app", zap.Error(err))
	}

	if cfg.AdminUsername != "" {
		if err := application.Auth.EnsureAdmin(startupCtx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Error("failed to seed admin account", zap.Error(err))
		}
	}

	// --- Start RabbitMQ Consumer ---
	if mqClient != nil && application.Notifier != nil {
		notifier := application.Notifier
		err := mqClient.ConsumeOrderEvents(func(eventType string, body []byte) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			return notifier.HandleOrderEvent(ctx, eventType, body)
		})
		if err != nil {
			log.Error("failed to start order event consumer", zap.Error(err))
		}
	}

	// --- Start HTTP Server ---
	go func() {
		log.Info("starting server", zap.String("addr", cfg.AppPort))
		if err := application.Fiber.Listen(cfg.AppPort); err != nil {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	if err := application.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("error during fiber shutdown", zap.Error(err))
	}
	log.Info("server gracefully stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	zcfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = lvl
	}
	return zcfg.Build()
}

// newCartStore uses Redis when it answers and falls back to process memory
// otherwise, which keeps carts only until restart.
func newCartStore(ctx context.Context, cfg *config.Config, log *zap.Logger) repositories.CartSnapshotStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, carts are kept in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		client.Close()
		return repositories.NewMemoryCartSnapshotStore()
	}
	return repositories.NewRedisCartSnapshotStore(client, cfg.CartTTL)
}
