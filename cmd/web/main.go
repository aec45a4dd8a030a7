// cmd/web/main.go
//
// objview – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Bootstrap console logger so config errors are visible.
//
//  2. Vault client (only when VAULT_ADDR is set), then config.Load, which
//     resolves `vault:` references through it.
//
//  3. Daily rotating file logger (tees to console when running in a TTY).
//
//  4. Content store: sqlstore when database.dsn is set, else the YAML tree.
//     Either is wrapped in resource.CachedManager.
//
//  5. Service locator, define-objects binder, view engine, alias cache.
//
//  6. chi router behind server.New timeouts; SIGINT/SIGTERM drain
//     in-flight requests.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
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

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/objview/internal/config"
	"github.com/yanizio/objview/internal/database"
	"github.com/yanizio/objview/internal/defineobjects"
	"github.com/yanizio/objview/internal/logger"
	"github.com/yanizio/objview/internal/request"
	"github.com/yanizio/objview/internal/resource"
	"github.com/yanizio/objview/internal/resource/memstore"
	"github.com/yanizio/objview/internal/resource/sqlstore"
	"github.com/yanizio/objview/internal/routing"
	"github.com/yanizio/objview/internal/server"
	"github.com/yanizio/objview/internal/service"
	"github.com/yanizio/objview/internal/vault"
	"github.com/yanizio/objview/internal/view"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// contentStore is what both stores offer.
type contentStore interface {
	resource.Manager
	routing.Source
}

func main() {
	boot, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("bootstrap logger: %v", err)
	}
	zap.ReplaceGlobals(boot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Secrets and config ──────────────────────────────────────────
	//
	var (
		vc      *vault.Client
		secrets config.SecretResolver
	)
	if os.Getenv("VAULT_ADDR") != "" {
		if vc, err = vault.New(ctx); err != nil {
			zap.S().Fatalw("vault init failed", "err", err)
		}
		secrets = vc
	}

	cfg, err := config.Load(ctx, secrets)
	if err != nil {
		zap.S().Fatalw("config load failed", "err", err)
	}

	logOut, err := logger.New(cfg.Paths.Root, logger.Options{Level: cfg.Log.Level, Tee: runningInTTY()})
	if err != nil {
		zap.S().Fatalw("start logger", "err", err)
	}
	defer func() { _ = logOut.Sync() }()

	if cfg.Geo.DB != "" {
		if err := request.OpenGeo(cfg.Geo.DB); err != nil {
			logOut.Warnw("geoip disabled", "db", cfg.Geo.DB, "err", err)
		}
		defer request.CloseGeo()
	}

	//
	// ── 2.  Content store ───────────────────────────────────────────────
	//
	mappers := resource.NewMappers()
	registerMappers(mappers)
	store, closeStore, err := openStore(ctx, cfg, mappers)
	if err != nil {
		logOut.Fatalw("content store", "err", err)
	}
	defer closeStore()
	mgr := resource.NewCached(store, cfg.Content.CacheSize)

	//
	// ── 3.  Locator, binder, views ──────────────────────────────────────
	//
	loc := service.NewLocator()
	loc.Register("config", cfg)
	loc.Register("resourceManager", mgr)
	if vc != nil {
		loc.Register("vault", vc)
	}

	binder, err := defineobjects.New(cfg.Objects)
	if err != nil {
		logOut.Fatalw("define-objects names", "err", err)
	}
	views := view.New(cfg.Content.Templates, binder, cfg.Content.CacheSize)

	handler := server.Router(server.Deps{
		Manager:     mgr,
		Locator:     loc,
		Views:       views,
		Aliases:     routing.NewAliasCache(store, cfg.Content.AliasTTL),
		RoutingMode: cfg.Content.RoutingMode,
		ForceHTTPS:  cfg.HTTP.ForceHTTPS,
		Debug:       cfg.HTTP.Debug,
	})

	//
	// ── 4.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, handler, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	go func() {
		logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logOut.Fatalw("http server", "err", err)
		}
	}()

	<-ctx.Done()
	logOut.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logOut.Warnw("graceful shutdown failed", "err", err)
	}
}

// openStore picks the SQL store when a DSN is configured, else the YAML
// tree.  The returned func releases the store.
func openStore(ctx context.Context, cfg *config.Config, mappers *resource.Mappers) (contentStore, func(), error) {
	if !cfg.Database.UsesSQL() {
		s, err := memstore.Load(cfg.Content.Tree, mappers)
		if err != nil {
			return nil, nil, err
		}
		zap.S().Infow("content tree loaded", "file", cfg.Content.Tree, "paths", len(s.Paths()))
		return s, func() {}, nil
	}

	dsn, err := database.WithPassword(cfg.Database.DSN, cfg.Database.Password)
	if err != nil {
		return nil, nil, err
	}
	opts := database.DefaultOptions()
	opts.MaxOpenConns = cfg.Database.MaxOpenConns
	opts.MaxIdleConns = cfg.Database.MaxIdleConns
	opts.ConnMaxLifetime = cfg.Database.ConnMaxLifetime

	var db *sqlx.DB
	if db, err = database.OpenWithOptions(ctx, dsn, opts); err != nil {
		return nil, nil, err
	}
	zap.S().Infow("content database online")
	return sqlstore.New(db, mappers), func() { _ = db.Close() }, nil
}
