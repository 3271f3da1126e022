package postings

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/applicant-screener/internal/config"
	"github.com/jonathan/applicant-screener/internal/logger"
	"github.com/jonathan/applicant-screener/internal/signals"
	"github.com/jonathan/applicant-screener/internal/types"
)

// Posting is an imported job posting.
type Posting struct {
	URL         string               `json:"url"`
	Platform    Platform             `json:"platform"`
	Rendered    bool                 `json:"rendered"`
	Text        string               `json:"text"`
	Requirement types.JobRequirement `json:"requirement"`
}

// Importer fetches postings. It is safe for concurrent use.
type Importer struct {
	client         *http.Client
	render         Renderer
	useBrowser     bool
	browserTimeout time.Duration
	logger         *zap.Logger
}

// NewImporter returns an Importer configured from cfg.
func NewImporter(cfg config.PostingsConfig, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	browserTimeout := cfg.BrowserTimeout
	if browserTimeout <= 0 {
		browserTimeout = DefaultBrowserTimeout
	}
	return &Importer{
		client:         &http.Client{Timeout: timeout},
		render:         RenderWithChrome,
		useBrowser:     cfg.UseBrowser,
		browserTimeout: browserTimeout,
		logger:         logger.ForComponent(log, "postings"),
	}
}

// Import fetches the posting at rawURL and derives its requirement: skills are
// the known skills mentioned in the text, and the minimum experience is the
// largest "N years" figure. useBrowser forces the headless fallback on for this
// call even when the importer default is off.
func (im *Importer) Import(ctx context.Context, rawURL string, useBrowser bool) (*Posting, error) {
	if _, err := ValidateURL(rawURL); err != nil {
		return nil, err
	}
	platform := DetectPlatform(rawURL)
	log := im.logger.With(zap.String("url", rawURL), zap.String("platform", string(platform)))

	html, err := fetchHTML(ctx, im.client, rawURL)
	if err != nil {
		return nil, err
	}
	pg, err := extractPage(html, platform)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Message: "content extraction failed", Cause: err}
	}

	rendered := false
	if (useBrowser || im.useBrowser) && needsBrowser(pg.Text) {
		log.Debug("posting text too short, rendering in browser", zap.Int("chars", len(pg.Text)))
		if browserHTML, err := im.render(ctx, rawURL, im.browserTimeout); err != nil {
			log.Warn("browser rendering failed, keeping fetched content", zap.Error(err))
		} else if browserPage, err := extractPage(browserHTML, platform); err == nil {
			pg = browserPage
			rendered = true
		}
	}

	req := types.JobRequirement{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(rawURL)).String(),
		Title:    pg.Title,
		Company:  pg.Company,
		Skills:   signals.Skills(pg.Text),
		MinYears: signals.ExperienceYears(pg.Text),
	}

	log.Info("posting imported",
		zap.Int("skills", len(req.Skills)),
		zap.Int("min_years", req.MinYears),
		zap.Bool("rendered", rendered),
	)

	return &Posting{
		URL:         rawURL,
		Platform:    platform,
		Rendered:    rendered,
		Text:        pg.Text,
		Requirement: req,
	}, nil
}
