package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-service/internal/config"
	controllers "pos-service/internal/controllers/http"
	"pos-service/internal/domain"
	"pos-service/internal/infra"
	"pos-service/internal/infra/database"
	"pos-service/internal/infra/live"
	"pos-service/internal/infra/rabbitmq"
	"pos-service/internal/logging"
	"pos-service/internal/money"
	mysqlrepo "pos-service/internal/repository/mysql"
	"pos-service/internal/services"
	"pos-service/internal/shift"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logging.New(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("db: connect")
	}
	if err := database.Migrate(db, cfg.DB); err != nil {
		logrus.WithError(err).Fatal("db: migrate")
	}

	orderRepo := mysqlrepo.NewOrderRepository(db)
	tableRepo := mysqlrepo.NewTableRepository(db)
	settlementRepo := mysqlrepo.NewSettlementRepository(db)
	shiftRepo := mysqlrepo.NewShiftRepository(db)
	menuRepo := mysqlrepo.NewMenuRepository(db)

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	var amqp *rabbitmq.Publisher
	if cfg.RabbitMQURL != "" {
		amqp, err = rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.EventsExchange)
		if err != nil {
			logrus.WithError(err).Warn("rabbitmq unavailable, domain events disabled")
		} else {
			publisher = amqp
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DB:           cfg.RedisDB,
			PoolSize:     50,
			MinIdleConns: 5,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logrus.WithError(err).Warn("redis ping failed, caches will retry per request")
		}
		cancel()
	}

	var notifier live.Notifier = live.NopNotifier{}
	var feed *live.Feed
	if redisClient != nil {
		feed = live.NewFeed(redisClient, "pos")
		notifier = feed
	}

	resolver := shift.NewResolver(shiftRepo, shift.WithLocation(cfg.Location()))
	resolver.OnCreated = func(ctx context.Context, s *domain.Shift) {
		evt := domain.ShiftOpenedEvent{ShiftID: s.ID, ShiftType: s.ShiftType, Date: s.Date}
		if err := publisher.Publish(ctx, domain.EventShiftOpened, evt); err != nil {
			logrus.WithError(err).Warn("failed to publish event")
		}
		live.NotifyQuietly(ctx, notifier, live.TopicShifts, evt)
	}

	currency := money.ParseCurrency(cfg.Currency)
	menu := services.NewMenuService(menuRepo)
	identity := infra.NewIdentityClient(cfg.IdentityURL, cfg.IdentityTimeout)
	orderService := services.NewOrderService(orderRepo, tableRepo, settlementRepo, resolver, menu, publisher)
	orderService.SetNotifier(notifier)
	orderService.SetCurrency(currency)
	floorService := services.NewFloorService(tableRepo, orderRepo, resolver)

	handler := controllers.NewHandler(orderService, floorService, menu, resolver)
	handler.SetCurrency(currency)

	if redisClient != nil {
		menu.SetCache(redisClient, cfg.MenuCacheTTL)
		identity.SetCache(redisClient, time.Minute)
		handler.SetLiveSource(feed)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			products, err := menu.ListProducts(ctx)
			if err != nil {
				logrus.WithError(err).Warn("failed to load products for cache warmup")
				return
			}
			ids := make([]uint64, 0, len(products))
			for _, p := range products {
				ids = append(ids, p.ID)
			}
			if err := menu.WarmupProductCache(ctx, ids); err != nil {
				logrus.WithError(err).Warn("failed to warm up cache")
				return
			}
			logrus.WithField("products", len(ids)).Info("product cache warmed up")
		}()
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), controllers.RequestLogger())
	handler.RegisterRoutes(r, controllers.Authenticate(identity))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("starting pos service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server run")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logrus.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var result *multierror.Error
	if err := srv.Shutdown(shutdownCtx); err != nil {
		result = multierror.Append(result, err)
	}
	if amqp != nil {
		if err := amqp.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		logrus.WithError(err).Error("shutdown finished with errors")
		os.Exit(1)
	}
}
