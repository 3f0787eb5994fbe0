package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/beautyshop/internal/config"
	"github.com/nikolayk812/beautyshop/internal/events"
	"github.com/nikolayk812/beautyshop/internal/httpapi"
	"github.com/nikolayk812/beautyshop/internal/logging"
	"github.com/nikolayk812/beautyshop/internal/payment"
	"github.com/nikolayk812/beautyshop/internal/port"
	"github.com/nikolayk812/beautyshop/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config.Load: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logging.New: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("exited with error", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	orders, closeOrders, err := openOrders(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("openOrders: %w", err)
	}
	defer closeOrders()

	var creator port.OrderCreator = orders
	if cfg.RabbitMQ.URL != "" {
		conn, err := events.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue)
		if err != nil {
			return fmt.Errorf("events.Dial: %w", err)
		}
		defer func() {
			if err := conn.Close(); err != nil {
				logger.Warn("rabbitmq close", zap.Error(err))
			}
		}()

		publisher, err := events.NewPublisher(conn.Channel(), cfg.RabbitMQ.Queue, logger)
		if err != nil {
			return fmt.Errorf("events.NewPublisher: %w", err)
		}
		creator = events.PublishingOrderCreator(orders, publisher, logger)

		logger.Info("publishing order events", zap.String("queue", cfg.RabbitMQ.Queue))
	}

	payments := payment.NewMpesaSimulator(logger,
		payment.WithDelays(cfg.Payment.ProcessingDelay, cfg.Payment.SettleDelay),
		payment.WithSuccessRate(cfg.Payment.SuccessRate),
	)

	api := httpapi.NewServer(httpapi.Deps{
		Orders:         orders,
		Creator:        creator,
		Payments:       payments,
		Currency:       cfg.CurrencyUnit(),
		Logger:         logger,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		SubmitTimeout:  cfg.HTTP.SubmitTimeout,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           api.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server starting", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("srv.ListenAndServe: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("srv.Shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func openOrders(ctx context.Context, cfg config.Config, logger *zap.Logger) (port.OrderRepository, func(), error) {
	if cfg.Database.URL == "" {
		logger.Warn("database.url is empty, orders are kept in memory")
		return repository.NewOrderMemory(), func() {}, nil
	}

	if err := repository.Migrate(cfg.Database.URL); err != nil {
		return nil, nil, fmt.Errorf("repository.Migrate: %w", err)
	}

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pool.Ping: %w", err)
	}

	orders, err := repository.NewOrder(pool)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("repository.NewOrder: %w", err)
	}

	return orders, pool.Close, nil
}
