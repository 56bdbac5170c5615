package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gigmile/device-financing/internal/application/service"
	"github.com/gigmile/device-financing/internal/config"
	"github.com/gigmile/device-financing/internal/domain"
	"github.com/gigmile/device-financing/internal/infrastructure/messaging"
	sqlrepository "github.com/gigmile/device-financing/internal/infrastructure/repository/mysql"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local",
		cfg.MySQL.User,
		cfg.MySQL.Password,
		cfg.MySQL.Host,
		cfg.MySQL.Database,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		logger.Fatal("failed to connect to MySQL", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	logger.Info("connected to Redis successfully")

	repos := sqlrepository.NewRepositories(db, redisClient, logger)

	scheduleService := service.NewScheduleService(repos.Loan, repos.Schedule, domain.SystemClock{}, logger)
	gatewayService := service.NewGatewayService(logger)
	notificationService := service.NewNotificationService(logger)

	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("worker-%s-%d", hostname, os.Getpid())
	eventSubscriber := messaging.NewRedisEventSubscriber(redisClient, logger, consumerName)

	subscriptions := map[string]domain.EventHandler{
		domain.EventTypeScheduleRequested:   scheduleService.HandleScheduleRequested,
		domain.EventTypePaymentInitiated:    gatewayService.HandlePaymentInitiated,
		domain.EventTypeDeviceLockRequested: gatewayService.HandleDeviceLockRequested,
		domain.EventTypePaymentSettled:      notificationService.HandlePaymentSettled,
		domain.EventTypeSaleCreated:         notificationService.HandleSaleCreated,
		domain.EventTypeSaleCompleted:       notificationService.HandleSaleCompleted,
		domain.EventTypeCollectionInitiated: notificationService.HandleCollectionInitiated,
	}

	for eventType, eventHandler := range subscriptions {
		if err := eventSubscriber.Subscribe(ctx, eventType, eventHandler); err != nil {
			logger.Fatal("failed to subscribe to events",
				zap.Error(err),
				zap.String("event_type", eventType),
			)
		}
	}

	logger.Info("worker started",
		zap.String("consumer", consumerName),
		zap.Int("subscriptions", len(subscriptions)),
	)

	// Graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down worker...")
		cancel()
	}()

	if err := eventSubscriber.Start(ctx); err != nil {
		logger.Info("worker stopped", zap.Error(err))
	}

	logger.Info("worker exited")
}
