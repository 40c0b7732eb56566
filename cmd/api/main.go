package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/pennywise/internal/categorize"
	"github.com/MrJamesThe3rd/pennywise/internal/config"
	"github.com/MrJamesThe3rd/pennywise/internal/database"
	"github.com/MrJamesThe3rd/pennywise/internal/events"
	"github.com/MrJamesThe3rd/pennywise/internal/export"
	pennywiseHttp "github.com/MrJamesThe3rd/pennywise/internal/http"
	categoryHandler "github.com/MrJamesThe3rd/pennywise/internal/http/category"
	exportHandler "github.com/MrJamesThe3rd/pennywise/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/pennywise/internal/http/importcsv"
	txHandler "github.com/MrJamesThe3rd/pennywise/internal/http/transaction"
	"github.com/MrJamesThe3rd/pennywise/internal/importer"
	"github.com/MrJamesThe3rd/pennywise/internal/logging"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction/memstore"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction/mongostore"
	txStore "github.com/MrJamesThe3rd/pennywise/internal/transaction/store"
)

type repository interface {
	transaction.Repository
	categorize.Store
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logging.New(os.Stdout, cfg.Log.Level, cfg.Log.Format))

	if err := run(cfg); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	publisher, closePublisher, err := openPublisher(cfg)
	if err != nil {
		return err
	}
	defer closePublisher()

	var (
		transactionService = transaction.NewService(repo, transaction.WithPublisher(publisher))
		categorizeService  = categorize.NewService(repo)
		importService      = importer.NewService(transactionService, categorizeService)
		exportService      = export.NewService(transactionService)
	)

	var (
		transactionH = txHandler.NewHandler(transactionService)
		categoryH    = categoryHandler.NewHandler(categorizeService)
		importH      = importHandler.NewHandler(importService)
		exportH      = exportHandler.NewHandler(exportService)
	)

	router := pennywiseHttp.New(cfg.CORS.AllowedOrigins, transactionH, categoryH, importH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "name", cfg.App.Name, "addr", srv.Addr, "store", cfg.Store.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped")

	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (repository, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := database.NewMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, nil, err
		}

		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				slog.Error("failed to disconnect from mongodb", "error", err)
			}
		}

		coll := client.Database(cfg.Mongo.Database).Collection(mongostore.CollectionName)
		if err := mongostore.EnsureIndexes(ctx, coll); err != nil {
			closeFn()
			return nil, nil, err
		}

		return mongostore.New(coll), closeFn, nil

	case config.DriverMemory:
		slog.Warn("using in-memory store, data is lost on exit")
		return memstore.New(), func() {}, nil

	default:
		db, err := database.New(cfg.ConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}

		if cfg.DB.Migrate {
			if err := database.Migrate(db); err != nil {
				db.Close()
				return nil, nil, fmt.Errorf("migrating database: %w", err)
			}
		}

		return txStore.New(db), func() { db.Close() }, nil
	}
}

func openPublisher(cfg *config.Config) (transaction.EventPublisher, func(), error) {
	if cfg.AMQP.URL == "" {
		return events.Nop{}, func() {}, nil
	}

	p, err := events.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
	if err != nil {
		return nil, nil, err
	}

	return p, func() {
		if err := p.Close(); err != nil {
			slog.Error("failed to close amqp publisher", "error", err)
		}
	}, nil
}
