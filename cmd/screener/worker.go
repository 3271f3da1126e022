package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-screener/internal/logger"
	"github.com/jonathan/applicant-screener/internal/queue"
	"github.com/jonathan/applicant-screener/internal/screening"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume applications from RabbitMQ and publish decisions",
	Long:  "Run a pool of queue consumers. Each application message is evaluated, the report is stored when a database is configured, and a decision event is published to the decisions exchange.",
	RunE:  runWorker,
}

var workerCount int

func init() {
	workerCmd.Flags().IntVar(&workerCount, "workers", 0, "Number of consumers (overrides queue.workers)")
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Queue.Workers = workerCount
	}
	if cfg.Queue.URL == "" {
		return errors.New("queue is not configured (set SCREENER_QUEUE_URL or queue.url)")
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var parseCache screening.ParseCache
	if c := connectCache(ctx, cfg, log); c != nil {
		defer func() { _ = c.Close() }()
		parseCache = c
	}
	svc, err := newService(cfg, log, parseCache)
	if err != nil {
		return err
	}

	var store queue.ReportStore
	if cfg.Database.URL != "" {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare database schema: %w", err)
		}
		store = database
	}

	conn, err := queue.Dial(cfg.Queue.URL)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	w := queue.NewWorker(conn, svc, store, cfg.Queue, log)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("worker stopped: %w", err)
	}
	log.Info("worker stopped", zap.String("queue", cfg.Queue.Queue))
	return nil
}
