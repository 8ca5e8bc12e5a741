package domain

import "errors"

// Run-level failures. Per-article failures never surface as errors; they
// are recorded as Status values on the items.
var (
	ErrNoArticles        = errors.New("no articles scraped")
	ErrNoSummaries       = errors.New("no summaries to compose")
	ErrCompositionFailed = errors.New("script composition failed")
	ErrEmptyScript       = errors.New("normalized script is empty")
	ErrSynthesisFailed   = errors.New("speech synthesis failed")
)
