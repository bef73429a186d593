package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-campus-orders/internal/board"
	"github.com/ariefcatur/go-campus-orders/internal/config"
	kafkax "github.com/ariefcatur/go-campus-orders/internal/kafka"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/orders"
	"github.com/ariefcatur/go-campus-orders/internal/redisx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Options{ServiceName: "yrush-orderboard"}).Error(context.Background(), "config", err)
		os.Exit(1)
	}
	log := logger.New(logger.Options{
		ServiceName: cfg.ServiceName + "-orderboard",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.KafkaBrokers) == 0 {
		log.Error(ctx, "orderboard needs kafka", errors.New("YRUSH_KAFKA_BROKERS is empty"))
		os.Exit(1)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &board.Service{
		Redis:       rdb,
		Log:         log,
		ServiceName: cfg.ServiceName + "-orderboard",
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.Board.Group, orders.Topics(), cfg.Board.Workers, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.Info(log.WithFields(ctx, map[string]any{
			"group":   cfg.Board.Group,
			"topics":  orders.Topics(),
			"workers": cfg.Board.Workers,
		}), "orderboard consumer started")
		if err := cons.Start(ctx, svc.HandleMessage); err != nil {
			log.Error(ctx, "consumer exit", err)
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info(ctx, "shutting down consumer")
	cancel()
	<-done
}
