package domain

import "time"

// Sentinel texts substituted for real data when a single item fails.
const (
	ContentNotFound   = "Content not found or format not supported."
	ContentFetchError = "Error fetching content."
	SummaryError      = "Error generating summary."
	ScriptFailure     = "Failed to generate script."
)

// Status tags the outcome of producing an item field.
type Status string

const (
	StatusOK           Status = "ok"
	StatusNotFound     Status = "not_found"
	StatusFetchError   Status = "fetch_error"
	StatusSummaryError Status = "summary_error"
)

// OK reports whether the field holds real data. An empty status is
// treated as unknown, not as success.
func (s Status) OK() bool {
	return s == StatusOK
}

// Article is a scraped page: listing title and link plus extracted body text.
type Article struct {
	Title         string `json:"title"`
	Link          string `json:"link"`
	Content       string `json:"content"`
	ContentStatus Status `json:"contentStatus,omitempty"`
}

// SummarizedArticle carries the synopsis produced for an Article.
type SummarizedArticle struct {
	Article
	Summary       string `json:"summary"`
	SummaryStatus Status `json:"summaryStatus,omitempty"`
}

// InferStatuses fills statuses missing from files written without them,
// recognising the sentinel texts.
func (a *SummarizedArticle) InferStatuses() {
	a.Article.InferStatus()
	if a.SummaryStatus != "" {
		return
	}
	switch {
	case a.Summary == SummaryError:
		a.SummaryStatus = StatusSummaryError
	case !a.ContentStatus.OK() && a.Summary == a.Content:
		a.SummaryStatus = a.ContentStatus
	default:
		a.SummaryStatus = StatusOK
	}
}

// InferStatus fills ContentStatus from the content text when absent.
func (a *Article) InferStatus() {
	if a.ContentStatus != "" {
		return
	}
	switch a.Content {
	case ContentNotFound:
		a.ContentStatus = StatusNotFound
	case ContentFetchError:
		a.ContentStatus = StatusFetchError
	default:
		a.ContentStatus = StatusOK
	}
}

// Episode records one completed narration run.
type Episode struct {
	RunID       string
	CreatedAt   time.Time
	Articles    []SummarizedArticle
	Script      string
	CleanScript string
	AudioPath   string
	Voice       VoiceConfig
}
