// Package postings imports job postings from the web and turns them into job
// requirements the matcher can score against.
package postings

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a plain HTTP fetch.
const DefaultTimeout = 30 * time.Second

// UserAgent is sent with every request.
const UserAgent = "Mozilla/5.0 (compatible; ApplicantScreener/1.0)"

// maxBodyBytes caps how much of a posting page is read.
const maxBodyBytes = 5 << 20

// FetchError reports a posting page that could not be retrieved.
type FetchError struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, &FetchError{URL: raw, Message: "invalid URL", Cause: err}
	}
	return parsed, nil
}

// fetchHTML downloads a page body.
func fetchHTML(ctx context.Context, client *http.Client, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &FetchError{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode), StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", &FetchError{URL: rawURL, Message: "failed to read response body", Cause: err}
	}
	return string(body), nil
}

// page is the text and headline details pulled out of a posting's HTML.
type page struct {
	Title   string
	Company string
	Text    string
}

// extractPage removes page chrome and noise, then reads the first element
// matching one of the content selectors, falling back to the body.
func extractPage(html string, platform Platform) (page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return page{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	p := page{
		Title:   postingTitle(doc),
		Company: strings.TrimSpace(doc.Find(`meta[property="og:site_name"]`).AttrOr("content", "")),
	}

	doc.Find("nav, footer, header, script, style, noscript, svg, .cookie-banner, .sidebar").Remove()
	doc.Find(strings.Join(noiseSelectors(platform), ", ")).Remove()

	content := doc.Find("body")
	for _, selector := range contentSelectors(platform) {
		if sel := doc.Find(selector); sel.Length() > 0 {
			content = sel.First()
			break
		}
	}

	content.Find("p, li, h1, h2, h3, h4, br, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	p.Text = collapseLines(content.Text())
	return p, nil
}

func postingTitle(doc *goquery.Document) string {
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	if og := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")); og != "" {
		return og
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

// collapseLines trims every line and drops blank ones.
func collapseLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
