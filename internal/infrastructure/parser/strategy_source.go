package parser

import (
	"context"
	"fmt"
	"log/slog"

	"NewsNarrator/internal/config"
	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
	"NewsNarrator/internal/scanner"
)

// StrategySource implements ArticleSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.ArticleSource = (*StrategySource)(nil)

// NewStrategySource wires scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchArticles runs every configured site in order and concatenates the
// results. A site whose listing cannot be scanned contributes nothing; an
// unknown scanner name is a configuration error and aborts.
func (s *StrategySource) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch articles", "sites", len(s.sites))

	var aggregated []domain.Article
	for _, site := range s.sites {
		if err := ctx.Err(); err != nil {
			return aggregated, err
		}

		name := site.Scanner
		if name == "" {
			name = "selector"
		}
		strategy, err := s.registry.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		results, err := strategy.Scan(ctx, toScannerRequest(site))
		if err != nil {
			if ctx.Err() != nil {
				return aggregated, ctx.Err()
			}
			if s.logger != nil {
				s.logger.Warn("site skipped", "site", site.Name, "error", err)
			}
			continue
		}

		s.debug("site produced articles", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_articles", len(aggregated))
	return aggregated, nil
}

func toScannerRequest(site config.SiteConfig) scanner.Request {
	return scanner.Request{
		SiteName:        site.Name,
		ListingURL:      site.ListingURL,
		BaseURL:         site.BaseURL,
		TitleSelector:   toSelector(site.TitleSelector),
		ContentSelector: toSelector(site.ContentSelector),
		LinkAttr:        site.LinkAttr,
		MaxArticles:     site.MaxArticles,
		Options:         site.Options,
	}
}

func toSelector(cfg config.SelectorConfig) scanner.Selector {
	return scanner.Selector{
		CSS:   cfg.CSS,
		Tag:   cfg.Tag,
		Class: cfg.Class,
		ID:    cfg.ID,
		Attrs: cfg.Attrs,
	}
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
