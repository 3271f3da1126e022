// Package screening wires extraction, signal detection, ATS scoring and the
// decision engine into the two entry points used by collaborators: parsing an
// uploaded document and evaluating an application.
package screening

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/applicant-screener/internal/decision"
	"github.com/jonathan/applicant-screener/internal/extraction"
	"github.com/jonathan/applicant-screener/internal/logger"
	"github.com/jonathan/applicant-screener/internal/types"
)

// DefaultConcurrency bounds RankApplicants when Options.Concurrency is unset.
const DefaultConcurrency = 8

// ParseCache stores parse results by document hash. Get returns nil, nil on a miss.
type ParseCache interface {
	Get(ctx context.Context, hash string) (*types.ParseResult, error)
	Set(ctx context.Context, hash string, result *types.ParseResult) error
}

// Options configures a Service.
type Options struct {
	Logger      *zap.Logger
	Cache       ParseCache
	Concurrency int
}

// Service is safe for concurrent use.
type Service struct {
	engine      *decision.Engine
	extractor   *extraction.Extractor
	cache       ParseCache
	logger      *zap.Logger
	concurrency int
}

// NewService returns a Service evaluating with engine.
func NewService(engine *decision.Engine, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Service{
		engine:      engine,
		extractor:   extraction.New(log),
		cache:       opts.Cache,
		logger:      logger.ForComponent(log, "screening"),
		concurrency: concurrency,
	}
}

// ParseDocument reads and parses the document at path. Read failures produce
// an unsuccessful result rather than an error.
func (s *Service) ParseDocument(ctx context.Context, path string) types.ParseResult {
	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("failed to read document",
			zap.String(logger.FieldDocument, path),
			zap.Error(err),
		)
		return emptyParse("")
	}
	return s.ParseBytes(ctx, filepath.Base(path), data)
}

// ParseBytes parses an uploaded document, consulting the cache first when one
// is configured. Cache errors are logged and otherwise ignored.
func (s *Service) ParseBytes(ctx context.Context, name string, data []byte) types.ParseResult {
	hash := extraction.Hash(data)

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, hash)
		switch {
		case err != nil:
			s.logger.Warn("parse cache lookup failed", zap.String("hash", hash), zap.Error(err))
		case cached != nil:
			s.logger.Debug("parse cache hit", zap.String(logger.FieldDocument, name), zap.String("hash", hash))
			return *cached
		}
	}

	result := Parse(s.extractor.FromBytes(name, data))
	s.logger.Info("parsed document",
		zap.String(logger.FieldDocument, name),
		zap.Bool("success", result.Success),
		zap.Int(logger.FieldScore, result.ATSScore),
		zap.Int("skills", len(result.Skills)),
	)

	if s.cache != nil && result.Success {
		if err := s.cache.Set(ctx, hash, &result); err != nil {
			s.logger.Warn("parse cache store failed", zap.String("hash", hash), zap.Error(err))
		}
	}
	return result
}

// Evaluate validates both inputs and runs the decision engine.
func (s *Service) Evaluate(ctx context.Context, profile types.CandidateProfile, job types.JobRequirement) (types.DecisionReport, error) {
	if err := ctx.Err(); err != nil {
		return types.DecisionReport{}, err
	}
	if err := profile.Validate(); err != nil {
		return types.DecisionReport{}, &InputError{Field: "profile", Cause: err}
	}
	if err := job.Validate(); err != nil {
		return types.DecisionReport{}, &InputError{Field: "job", Cause: err}
	}

	report := s.engine.Decide(profile, job)
	s.logger.Info("evaluated application",
		zap.String("job_id", job.ID),
		zap.Int(logger.FieldScore, report.OverallScore),
		zap.String(logger.FieldDecision, string(report.Decision)),
	)
	return report, nil
}

// Applicant is one candidate competing for a job.
type Applicant struct {
	ID      string                 `json:"id"`
	Profile types.CandidateProfile `json:"profile"`
}

// RankedReport pairs an applicant with their decision.
type RankedReport struct {
	ApplicantID string               `json:"applicant_id"`
	Report      types.DecisionReport `json:"report"`
}

// RankApplicants evaluates every applicant for job concurrently and returns
// the reports ordered by overall score, highest first. Ties keep input order.
// The first invalid applicant aborts the batch.
func (s *Service) RankApplicants(ctx context.Context, job types.JobRequirement, applicants []Applicant) ([]RankedReport, error) {
	ranked := make([]RankedReport, len(applicants))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, applicant := range applicants {
		g.Go(func() error {
			report, err := s.Evaluate(gCtx, applicant.Profile, job)
			if err != nil {
				return fmt.Errorf("applicant %s: %w", applicant.ID, err)
			}
			ranked[i] = RankedReport{ApplicantID: applicant.ID, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Report.OverallScore > ranked[j].Report.OverallScore
	})
	return ranked, nil
}
