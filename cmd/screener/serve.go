package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/logger"
	"github.com/jonathan/applicant-screener/internal/postings"
	"github.com/jonathan/applicant-screener/internal/screening"
	"github.com/jonathan/applicant-screener/internal/server"
	"github.com/jonathan/applicant-screener/internal/storage"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing document parsing, evaluation, recommendations and job import. Database, Redis and object storage are used when configured.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cleanup, err := buildServerDeps(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := server.New(cfg, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}

// buildServerDeps connects the optional backends. Each one stays nil when it
// is not configured.
func buildServerDeps(ctx context.Context, cfg *config.Config, log *zap.Logger) (server.Deps, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := server.Deps{
		Postings: postings.NewImporter(cfg.Postings, log),
		Logger:   log,
	}

	var parseCache screening.ParseCache
	if c := connectCache(ctx, cfg, log); c != nil {
		closers = append(closers, func() { _ = c.Close() })
		parseCache = c
	}
	svc, err := newService(cfg, log, parseCache)
	if err != nil {
		cleanup()
		return server.Deps{}, nil, err
	}
	deps.Service = svc

	if cfg.Database.URL != "" {
		database, err := connectDB(ctx, cfg)
		if err != nil {
			cleanup()
			return server.Deps{}, nil, err
		}
		closers = append(closers, database.Close)
		if err := database.EnsureSchema(ctx); err != nil {
			cleanup()
			return server.Deps{}, nil, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		deps.Store = database
	} else {
		log.Info("database not configured; reports are not persisted")
	}

	if cfg.Storage.Bucket != "" {
		client, err := storage.NewS3Client(ctx, cfg.Storage)
		if err != nil {
			cleanup()
			return server.Deps{}, nil, err
		}
		deps.Documents = storage.NewDownloader(client, cfg.Storage.Bucket, cfg.Storage.MaxAttempts, log)
	}

	return deps, cleanup, nil
}
