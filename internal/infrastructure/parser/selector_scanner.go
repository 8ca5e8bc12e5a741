package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/scanner"
)

const (
	defaultMaxArticles  = 5
	defaultLinkAttr     = "href"
	defaultRequestDelay = 2 * time.Second
)

// Options tunes fetching behaviour of the selector scanner.
type Options struct {
	UserAgent    string
	MaxAttempts  int
	RequestDelay time.Duration
}

// SelectorScanner extracts articles from listing pages using configured
// title and content selectors.
type SelectorScanner struct {
	fetcher      *documentFetcher
	requestDelay time.Duration
	logger       *slog.Logger
}

var _ scanner.Scanner = (*SelectorScanner)(nil)

// NewSelectorScanner wires an HTTP client; a nil client gets a 20s timeout.
// A negative RequestDelay disables throttling, zero selects the 2s default.
func NewSelectorScanner(client *http.Client, opts Options, logger *slog.Logger) *SelectorScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	delay := opts.RequestDelay
	switch {
	case delay == 0:
		delay = defaultRequestDelay
	case delay < 0:
		delay = 0
	}

	return &SelectorScanner{
		fetcher: &documentFetcher{
			client:        client,
			userAgent:     opts.UserAgent,
			maxAttempts:   opts.MaxAttempts,
			retryInterval: defaultRetryInterval,
		},
		requestDelay: delay,
		logger:       logger,
	}
}

// Name identifies the strategy inside the registry.
func (s *SelectorScanner) Name() string {
	return "selector"
}

type candidate struct {
	title string
	link  string
}

// Scan fetches the listing page, keeps at most MaxArticles title matches and
// downloads each article body. A listing failure is returned as an error with
// no articles; per-article failures are recorded as sentinel content.
func (s *SelectorScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Article, error) {
	if req.TitleSelector.IsZero() {
		return nil, fmt.Errorf("site %s: title selector is empty", req.SiteName)
	}

	base, err := linkBase(req)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	doc, err := s.fetcher.fetch(ctx, req.ListingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch listing %s: %w", req.ListingURL, err)
	}

	candidates := s.candidates(doc, req, base)
	s.debug("listing parsed", "site", req.SiteName, "candidates", len(candidates))

	limiter := rate.NewLimiter(rate.Every(s.requestDelay), 1)
	articles := make([]domain.Article, 0, len(candidates))
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return articles, err
		}

		content, status := s.fetchContent(ctx, c.link, req.ContentSelector, limiter)
		articles = append(articles, domain.Article{
			Title:         c.title,
			Link:          c.link,
			Content:       content,
			ContentStatus: status,
		})
	}

	return articles, nil
}

func (s *SelectorScanner) candidates(doc *goquery.Document, req scanner.Request, base *url.URL) []candidate {
	limit := req.MaxArticles
	if limit <= 0 {
		limit = defaultMaxArticles
	}
	attr := req.LinkAttr
	if attr == "" {
		attr = defaultLinkAttr
	}

	matches := doc.Find(req.TitleSelector.String())
	if matches.Length() > limit {
		matches = matches.Slice(0, limit)
	}

	out := make([]candidate, 0, matches.Length())
	matches.Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr(attr)
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			s.debug("candidate without link skipped", "site", req.SiteName, "attr", attr)
			return
		}

		link, err := resolveLink(base, href)
		if err != nil {
			s.debug("candidate link unparsable", "site", req.SiteName, "href", href, "error", err)
			return
		}

		out = append(out, candidate{title: visibleText(sel), link: link})
	})
	return out
}

func (s *SelectorScanner) fetchContent(ctx context.Context, link string, selector scanner.Selector, limiter *rate.Limiter) (string, domain.Status) {
	doc, err := s.fetcher.fetch(ctx, link, limiter)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("article fetch failed", "link", link, "error", err)
		}
		return domain.ContentFetchError, domain.StatusFetchError
	}

	if selector.IsZero() {
		return domain.ContentNotFound, domain.StatusNotFound
	}

	container := doc.Find(selector.String()).First()
	if container.Length() == 0 {
		s.debug("content container missing", "link", link, "selector", selector.String())
		return domain.ContentNotFound, domain.StatusNotFound
	}

	var paragraphs []string
	container.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := visibleText(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		return domain.ContentNotFound, domain.StatusNotFound
	}

	return strings.Join(paragraphs, " "), domain.StatusOK
}

// linkBase picks the URL relative links resolve against: the site's
// configured base, or the origin of the listing page.
func linkBase(req scanner.Request) (*url.URL, error) {
	raw := strings.TrimSpace(req.BaseURL)
	fromListing := raw == ""
	if fromListing {
		raw = req.ListingURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %s: %w", raw, err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base url %s is not absolute", raw)
	}
	if fromListing {
		return &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}, nil
	}
	return base, nil
}

func resolveLink(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}

func (s *SelectorScanner) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
