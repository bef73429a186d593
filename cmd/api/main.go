package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-campus-orders/internal/board"
	"github.com/ariefcatur/go-campus-orders/internal/cart"
	"github.com/ariefcatur/go-campus-orders/internal/catalog"
	"github.com/ariefcatur/go-campus-orders/internal/config"
	"github.com/ariefcatur/go-campus-orders/internal/errs"
	"github.com/ariefcatur/go-campus-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-campus-orders/internal/kafka"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/orders"
	"github.com/ariefcatur/go-campus-orders/internal/postgres"
	"github.com/ariefcatur/go-campus-orders/internal/redisx"
	"github.com/ariefcatur/go-campus-orders/internal/store"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "yrush-api"}).Error(context.Background(), "config", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		ServiceName: cfg.ServiceName,
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fatal := func(msg string, err error) {
		log.Error(ctx, msg, err)
		os.Exit(1)
	}

	// Redis backs the status board and, optionally, the document itself.
	var rdb *redis.Client
	if cfg.Store.Backend == config.BackendRedis || len(cfg.KafkaBrokers) > 0 {
		rdb = redisx.New(cfg.RedisAddr)
		defer rdb.Close()
	}

	backend, closeBackend, err := openBackend(ctx, cfg, rdb)
	if err != nil {
		fatal("open store backend", err)
	}
	defer closeBackend()

	st := store.New(backend,
		store.WithRetry(cfg.Store.SaveAttempts, cfg.Store.SaveBackoff),
		store.WithLogger(log),
	)
	if _, err := st.Load(ctx); err != nil {
		if !errs.Is(err, errs.CodeCorruptStore) {
			fatal("load document", err)
		}
		log.Warn(log.WithField(ctx, "details", errs.As(err).Details()), "serving seed data after unreadable document")
	}

	// Kafka producer, only with brokers configured
	publisher := orders.NopPublisher()
	var prod *kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
		prod.Start(ctx)
		publisher = &orders.KafkaPublisher{Producer: prod}
	}

	fee, _ := cfg.Orders.Fee()
	mode, err := orders.ParseStatusMode(cfg.Orders.StatusMode)
	if err != nil {
		fatal("status mode", err)
	}

	cat, err := catalog.NewManager(st, log)
	if err != nil {
		fatal("catalog", err)
	}
	engine, err := orders.NewEngine(st,
		orders.WithDeliveryFee(fee),
		orders.WithPublisher(publisher, cfg.ServiceName),
		orders.WithEngineLogger(log),
	)
	if err != nil {
		fatal("order engine", err)
	}
	svc, err := orders.NewService(st,
		orders.WithStatusMode(mode),
		orders.WithStatusPublisher(publisher, cfg.ServiceName),
		orders.WithServiceLogger(log),
	)
	if err != nil {
		fatal("order service", err)
	}

	ownerHash, err := httpx.OwnerHash(cfg.Owner.PasswordHash, cfg.Owner.Password)
	if err != nil {
		fatal("owner secret", err)
	}

	carts := cart.NewSessions(cat, cfg.Orders.CartIdle)
	api := &httpx.API{
		Catalog: cat,
		Carts:   carts,
		Engine:  engine,
		Orders:  svc,
		Log:     log,
	}
	if rdb != nil && prod != nil {
		api.Board = &board.Service{Redis: rdb, Log: log}
	}
	router := httpx.NewRouter(log)
	api.Register(router, ownerHash)

	go sweepCarts(ctx, log, carts, cfg.Orders.CartIdle)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Info(log.WithField(ctx, "addr", cfg.HTTPAddr), "HTTP listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("listen", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info(ctx, "shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	if prod != nil {
		prod.Close()
		prod.WaitClosed()
	}
	cancel()
}

func openBackend(ctx context.Context, cfg *config.Config, rdb *redis.Client) (store.Backend, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		return &store.PostgresBackend{DB: db, Key: cfg.Store.DocumentKey}, db.Close, nil
	case config.BackendRedis:
		return &store.RedisBackend{Client: rdb, Key: cfg.Store.DocumentKey}, func() {}, nil
	default:
		return store.NewFileBackend(cfg.Store.DataFile), func() {}, nil
	}
}

func sweepCarts(ctx context.Context, log *logger.Logger, carts *cart.Sessions, idle time.Duration) {
	if idle <= 0 {
		return
	}
	t := time.NewTicker(idle / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := carts.Sweep(); n > 0 {
				log.Info(log.WithField(ctx, "dropped", n), "idle carts swept")
			}
		}
	}
}
