package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/audit"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/catalog"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/config"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/db"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/events"
	httpapi "github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/http"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/inventory"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/order"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/sequence"
	"github.com/muhammadarkanfauzi9-pixel/Lumera-Shop-sub000/internal/sweeper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
		logger.Warnf("invalid LOG_LEVEL %q, using %s", cfg.LogLevel, level)
	}
	logger.SetLevel(level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Fatalf("db migrate: %v", err)
		}
	}

	catalogRepo := catalog.NewRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)
	ledger := inventory.NewLedger()
	seqRepo := sequence.NewRepository()

	// --- AMQP (optional: audit and lifecycle events are best-effort) ---
	var auditRec order.AuditRecorder = audit.Nop{}
	var publisher order.EventPublisher
	if cfg.RabbitURL != "" {
		conn, err := events.DialRabbit(cfg.RabbitURL)
		if err != nil {
			logger.Fatalf("rabbitmq connect: %v", err)
		}
		defer conn.Close()

		auditPub, err := audit.NewPublisher(conn, logger)
		if err != nil {
			logger.Fatalf("audit publisher: %v", err)
		}
		defer auditPub.Close()
		auditRec = auditPub

		eventPub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Fatalf("event publisher: %v", err)
		}
		defer eventPub.Close()
		publisher = eventPub
	} else {
		logger.Warn("RABBITMQ_URL not set, audit and lifecycle events disabled")
	}

	engine := order.NewService(pool, orderRepo, catalogRepo, ledger, seqRepo, auditRec, publisher, logger, cfg.OrderTTL)

	// --- sweeper ---
	sw := sweeper.New(engine, cfg.SweepInterval, logger)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sw.Run(ctx)
	}()

	// --- HTTP ---
	h := httpapi.NewHandler(engine, catalogRepo, sw, cfg.ContactNumber)
	r := httpapi.NewRouter(h)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("http listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Infof("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Errorf("fatal error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)
	cancel()
	wg.Wait()

	logger.Info("shutdown complete")
}
