// README: Entry point; loads config, wires storage and services, starts the HTTP server.
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

	"go.uber.org/zap"

	"canteen/internal/config"
	"canteen/internal/events"
	httptransport "canteen/internal/http"
	"canteen/internal/infra"
	"canteen/internal/modules/backup"
	"canteen/internal/modules/menu"
	"canteen/internal/modules/order"
	"canteen/internal/modules/settings"
	"canteen/internal/modules/student"
	firestorestorage "canteen/internal/storage/firestore"
	"canteen/internal/storage/memory"
	"canteen/internal/storage/postgres"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// catalogAdapter exposes the menu to the order flow. Unavailable items are
// not orderable.
type catalogAdapter struct {
	menu *menu.Service
}

func (a catalogAdapter) Item(ctx context.Context, id string) (order.CatalogItem, error) {
	it, err := a.menu.Item(ctx, id)
	if err != nil {
		return order.CatalogItem{}, err
	}
	if !it.Available {
		return order.CatalogItem{}, menu.ErrNotFound
	}
	return order.CatalogItem{ID: it.ID, Name: it.Name, Price: it.Price}, nil
}

type stores struct {
	orders   order.Store
	students student.Store
	menu     menu.Store
	settings settings.Store
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		db, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := db.Migrate(cfg.DatabaseDSN); err != nil {
			db.Close()
			return nil, err
		}
		return &stores{
			orders:   postgres.NewOrderStore(db),
			students: postgres.NewStudentStore(db),
			menu:     postgres.NewMenuStore(db),
			settings: postgres.NewSettingsStore(db),
			close:    db.Close,
		}, nil
	case config.StorageFirestore:
		client, err := firestorestorage.NewClient(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentials)
		if err != nil {
			return nil, err
		}
		return &stores{
			orders:   firestorestorage.NewOrderStore(client),
			students: firestorestorage.NewStudentStore(client),
			menu:     firestorestorage.NewMenuStore(client),
			settings: firestorestorage.NewSettingsStore(client),
			close:    func() { _ = client.Close() },
		}, nil
	default:
		mem := memory.New()
		return &stores{
			orders:   mem.Orders(),
			students: mem.Students(),
			menu:     mem.Menu(),
			settings: mem.Settings(),
			close:    func() {},
		}, nil
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("storage init", zap.Error(err))
	}
	defer st.close()

	var notifier events.Notifier = events.Nop{}
	if cfg.RedisAddr != "" {
		redisClient, err := infra.NewRedis(cfg.RedisAddr)
		if err != nil {
			logger.Fatal("redis init", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
		notifier = events.NewRedisNotifier(redisClient, "canteen-api", logger)
	}

	settingsSvc := settings.NewService(st.settings, notifier)
	menuSvc := menu.NewService(st.menu, notifier)
	studentSvc := student.NewService(st.students, settingsSvc, notifier, logger)
	orderSvc := order.NewService(st.orders, catalogAdapter{menu: menuSvc}, studentSvc, notifier, logger)
	backupSvc := backup.NewService(st.orders, st.students, st.menu, st.settings, notifier, logger)

	if err := backupSvc.Bootstrap(ctx); err != nil {
		logger.Fatal("bootstrap", zap.Error(err))
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Orders:     orderSvc,
		Students:   studentSvc,
		Menu:       menuSvc,
		Settings:   settingsSvc,
		Backup:     backupSvc,
		StaffToken: cfg.StaffToken,
		Logger:     logger,
	})

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.Storage))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
