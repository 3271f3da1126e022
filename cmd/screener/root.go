package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-screener/internal/cache"
	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/db"
	"github.com/jonathan/applicant-screener/internal/decision"
	"github.com/jonathan/applicant-screener/internal/schemas"
	"github.com/jonathan/applicant-screener/internal/screening"
)

var rootCmd = &cobra.Command{
	Use:           "screener",
	Short:         "Applicant screening engine",
	Long:          "Screener parses resumes, scores candidates against job requirements and recommends an approve, review or reject decision with feedback.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (YAML or JSON); SCREENER_* env vars override it")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newService builds the screening service. log may be nil for one-shot
// commands whose stdout carries JSON.
func newService(cfg *config.Config, log *zap.Logger, parseCache screening.ParseCache) (*screening.Service, error) {
	engine, err := decision.NewEngine(cfg.Scoring)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision engine: %w", err)
	}
	return screening.NewService(engine, screening.Options{Logger: log, Cache: parseCache}), nil
}

// connectCache returns nil when Redis is not configured. A configured but
// unreachable Redis is logged and skipped.
func connectCache(ctx context.Context, cfg *config.Config, log *zap.Logger) *cache.ParseCache {
	if cfg.Redis.Addr == "" {
		return nil
	}
	c, err := cache.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Warn("parse cache disabled", zap.Error(err))
		return nil
	}
	return c
}

func connectDB(ctx context.Context, cfg *config.Config) (*db.DB, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("database is not configured (set SCREENER_DATABASE_URL or database.url)")
	}
	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database, nil
}

// readJSON loads path into v after validating it against schemaFile. A schema
// that cannot be found or loaded only produces a warning.
func readJSON(path, schemaFile string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if schemaFile != "" {
		if schemaPath := schemas.ResolveSchemaPath(schemaFile); schemaPath != "" {
			if err := schemas.ValidateBytes(schemaPath, data); err != nil {
				var validationErr *schemas.ValidationError
				if errors.As(err, &validationErr) {
					return fmt.Errorf("%s does not validate against schema: %w", path, err)
				}
				_, _ = fmt.Fprintf(os.Stderr, "Warning: Could not validate %s against schema: %v\n", path, err)
			}
		}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(w, string(jsonBytes))
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// status prints a progress line to stderr when the JSON result goes to stdout.
func status(cmd *cobra.Command, out, format string, args ...any) {
	w := cmd.OutOrStdout()
	if out == "" {
		w = cmd.ErrOrStderr()
	}
	_, _ = fmt.Fprintf(w, format+"\n", args...)
}
