package parser

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"
)

const (
	defaultUserAgent     = "NewsNarrator/1.0"
	defaultMaxAttempts   = 3
	defaultRetryInterval = 200 * time.Millisecond
)

// documentFetcher downloads and parses HTML pages, retrying transient failures.
type documentFetcher struct {
	client        *http.Client
	userAgent     string
	maxAttempts   int
	retryInterval time.Duration
}

// fetch downloads pageURL. A non-nil limiter is waited on before every
// attempt, retries included.
func (f *documentFetcher) fetch(ctx context.Context, pageURL string, limiter *rate.Limiter) (*goquery.Document, error) {
	var doc *goquery.Document

	op := func() error {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return backoff.Permanent(fmt.Errorf("throttle: %w", err))
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("User-Agent", f.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")

		resp, err := f.client.Do(req)
		if err != nil {
			return fmt.Errorf("request document: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("%s returned %s", pageURL, resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("%s returned %s", pageURL, resp.Status))
		}

		parsed, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("parse document: %w", err))
		}
		doc = parsed
		return nil
	}

	attempts := f.maxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = f.retryInterval
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(attempts-1)), ctx)

	if err := backoff.Retry(op, retry); err != nil {
		return nil, err
	}
	return doc, nil
}

// visibleText collapses whitespace runs and composes Unicode so equal
// titles scraped from different pages compare equal.
func visibleText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(norm.NFC.String(s.Text())), " ")
}
