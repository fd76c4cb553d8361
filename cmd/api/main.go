package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"procurement/internal/board"
	"procurement/internal/httpapi"
	"procurement/internal/kvstore"
	"procurement/internal/order"
	"procurement/internal/status"
	"procurement/pkg/config"
	"procurement/pkg/db"
	"procurement/pkg/logger"
	"procurement/pkg/orderapi"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, logger.ParseFormat(cfg.LogFormat))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store kvstore.Store
	switch cfg.StorageBackend {
	case "postgres":
		if cfg.MigrationsPath != "" {
			if err := db.Migrate(cfg.MigrationsPath, cfg, db.Up); err != nil {
				log.Fatal("migrate", zap.Error(err))
			}
		}
		conn, err := db.Open(ctx, cfg)
		if err != nil {
			log.Fatal("db open", zap.Error(err))
		}
		defer conn.Close()
		store = kvstore.NewPostgres(conn)
	case "memory":
		store = kvstore.NewMemory()
	default:
		log.Fatal("unknown storage backend", zap.String("backend", cfg.StorageBackend))
	}

	md := status.DefaultMetadata()
	if cfg.StatusMetadataFile != "" {
		loaded, err := status.LoadMetadata(cfg.StatusMetadataFile)
		if err != nil {
			log.Fatal("status metadata", zap.String("path", cfg.StatusMetadataFile), zap.Error(err))
		}
		md = loaded
	}

	client := orderapi.New(cfg.OrderAPI.BaseURL, cfg.OrderAPI.Token, cfg.OrderAPI.Timeout)
	boards := board.NewRegistry(board.Deps{
		Orders:   client,
		Catalog:  client,
		Resolver: order.NewResolver(client, md, log.Named("resolver")),
		Store:    store,
		Metadata: md,
		Config:   cfg.Board,
		Logger:   log.Named("board"),
	})
	defer boards.Close()

	graph := status.NewGraphCache(board.GraphLoader(client.LoadTransitionGraph), log.Named("graph"))
	progress := board.NewProgressTracker(client, graph, status.NewProjector(md), log.Named("progress"))

	router := httpapi.NewRouter(httpapi.Dependencies{
		Cfg:      cfg,
		Boards:   boards,
		Progress: progress,
		Log:      log.Named("http"),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(shutdownCtx)
}
