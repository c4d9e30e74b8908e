package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/sqlcart/internal/config"
	carthttp "github.com/nikolayk812/sqlcart/internal/http"
	httpH "github.com/nikolayk812/sqlcart/internal/http/handlers"
	httpMW "github.com/nikolayk812/sqlcart/internal/http/middleware"
	"github.com/nikolayk812/sqlcart/internal/logger"
	"github.com/nikolayk812/sqlcart/internal/metrics"
	"github.com/nikolayk812/sqlcart/internal/outbox"
	"github.com/nikolayk812/sqlcart/internal/repository"
	"github.com/nikolayk812/sqlcart/internal/service"
	"github.com/nikolayk812/sqlcart/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", os.Getenv("CART_CONFIG"), "path to a YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "cartd: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return fmt.Errorf("logger.New: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("pgxpool.New: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool.Ping: %w", err)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("rdb.Ping: %w", err)
	}

	cartRepo, err := repository.NewCart(pool)
	if err != nil {
		return fmt.Errorf("repository.NewCart: %w", err)
	}

	sessions, err := session.NewRedisStore(rdb, cfg.Redis.SessionPrefix, cfg.Redis.SessionTTL)
	if err != nil {
		return fmt.Errorf("session.NewRedisStore: %w", err)
	}

	svcCfg, err := cfg.Cart.Service()
	if err != nil {
		return fmt.Errorf("cfg.Cart.Service: %w", err)
	}

	carts, err := service.NewCart(cartRepo, sessions, svcCfg, log)
	if err != nil {
		return fmt.Errorf("service.NewCart: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	srvMetrics, err := metrics.NewServerMetrics(reg, "cart")
	if err != nil {
		return fmt.Errorf("metrics.NewServerMetrics: %w", err)
	}

	server := carthttp.NewServer(cfg.HTTP.Addr, carthttp.RouterConfig{
		CartHandler: httpH.NewCartHandler(log, carts, httpH.CookieConfig{
			MaxAge: int(cfg.Redis.SessionTTL / time.Second),
			Secure: cfg.HTTP.CookieSecure,
		}),
		IdentityMiddleware: httpMW.NewIdentityMiddleware(log),
		HealthHandler: httpH.NewHealthHandler(map[string]httpH.Pinger{
			"postgres": pool,
			"redis": httpH.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}),
		}),
		Metrics:  srvMetrics,
		Gatherer: reg,
	})

	var relay *outbox.Relay
	if cfg.Kafka.Brokers != "" {
		outboxRepo, err := repository.NewOutbox(pool)
		if err != nil {
			return fmt.Errorf("repository.NewOutbox: %w", err)
		}

		publisher := outbox.NewKafkaPublisher(cfg.Kafka.Brokers)
		defer publisher.Close()

		relay, err = outbox.NewRelay(outboxRepo, publisher, log, cfg.Outbox.Interval, cfg.Outbox.BatchSize)
		if err != nil {
			return fmt.Errorf("outbox.NewRelay: %w", err)
		}
	} else {
		log.Warn("kafka brokers not configured, checkout events stay in the outbox")
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("cartd listening", "addr", cfg.HTTP.Addr)
		return server.Run()
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		log.Info("cartd shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if relay != nil {
		g.Go(func() error {
			return relay.Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	return nil
}
