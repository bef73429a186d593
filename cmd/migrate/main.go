package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ariefcatur/go-campus-orders/internal/config"
	"github.com/ariefcatur/go-campus-orders/internal/logger"
	"github.com/ariefcatur/go-campus-orders/internal/postgres"
	"github.com/ariefcatur/go-campus-orders/internal/redisx"
	"github.com/ariefcatur/go-campus-orders/internal/store"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	cmd := flag.String("cmd", "check", "migration command: check|import|schema")
	from := flag.String("from", "", "legacy JSON document (defaults to the configured data file)")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.LogLevel),
		Format:      cfg.LogFormat,
	})
	src := *from
	if src == "" {
		src = cfg.Store.DataFile
	}
	ctx = logg.WithFields(ctx, map[string]any{
		"cmd":     *cmd,
		"from":    src,
		"backend": cfg.Store.Backend,
	})

	switch *cmd {
	case "schema":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		requireResource(ctx, logg, "database", err)
		defer db.Close()
		requireResource(ctx, logg, "schema", postgres.EnsureSchema(ctx, db))
		logg.Info(ctx, "schema ready")
		return

	case "check", "import":
	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}

	body, err := store.NewFileBackend(src).Read(ctx)
	requireResource(ctx, logg, "legacy document", err)

	doc, migrated, notes, err := store.Decode(body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "document unreadable: %v\n", err)
		os.Exit(1)
	}
	for _, n := range notes {
		logg.Warn(logg.WithField(ctx, "migration", n), "value defaulted")
	}
	fmt.Printf("canteen=%d suvidha=%d orders=%d migrated=%t defaulted=%d\n",
		len(doc.CanteenItems), len(doc.SuvidhaItems), len(doc.Orders), migrated, len(notes))
	if *cmd == "check" {
		return
	}

	out, err := store.Encode(doc)
	requireResource(ctx, logg, "encode", err)

	target, closeTarget := openTarget(ctx, logg, cfg)
	defer closeTarget()

	// keep whatever the target held before overwriting it
	if prev, err := target.Read(ctx); err == nil {
		where, err := target.Preserve(ctx, prev)
		requireResource(ctx, logg, "preserve previous document", err)
		logg.Info(logg.WithField(ctx, "preserved_at", where), "previous document kept")
	}
	requireResource(ctx, logg, "write document", target.Write(ctx, out))
	logg.Info(ctx, "document imported")
}

func openTarget(ctx context.Context, logg *logger.Logger, cfg *config.Config) (store.Backend, func()) {
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		requireResource(ctx, logg, "database", err)
		requireResource(ctx, logg, "schema", postgres.EnsureSchema(ctx, db))
		return &store.PostgresBackend{DB: db, Key: cfg.Store.DocumentKey}, db.Close
	case config.BackendRedis:
		rdb := redisx.New(cfg.RedisAddr)
		return &store.RedisBackend{Client: rdb, Key: cfg.Store.DocumentKey}, func() { _ = rdb.Close() }
	default:
		return store.NewFileBackend(cfg.Store.DataFile), func() {}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(ctx, "resource", resource), "migrate failed", err)
	os.Exit(1)
}
