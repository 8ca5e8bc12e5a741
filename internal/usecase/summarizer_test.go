package usecase

import (
	"context"
	"strings"
	"testing"

	"NewsNarrator/internal/domain"
)

func TestSummarizeShortContentSkipsGenerator(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{}
	s := NewSummarizer(gen, SummarizerConfig{}, nil)

	for _, content := range []string{"", "short", strings.Repeat("é", 199)} {
		summary, status := s.Summarize(context.Background(), content)
		if summary != content || status != domain.StatusOK {
			t.Fatalf("content %q: got (%q, %q)", content, summary, status)
		}
	}
	if gen.calls() != 0 {
		t.Fatalf("expected no generator calls, got %d", gen.calls())
	}
}

func TestSummarizeLongContentUsesPrompt(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: func(string) (string, error) { return "  A crisp synopsis.\n", nil }}
	s := NewSummarizer(gen, SummarizerConfig{}, nil)

	content := strings.Repeat("word ", 40)
	summary, status := s.Summarize(context.Background(), content)
	if summary != "A crisp synopsis." || status != domain.StatusOK {
		t.Fatalf("got (%q, %q)", summary, status)
	}
	if gen.calls() != 1 {
		t.Fatalf("expected one call, got %d", gen.calls())
	}
	if !strings.HasPrefix(gen.prompts[0], "Summarize the following text in under 300 characters:\n\n") {
		t.Fatalf("unexpected prompt %q", gen.prompts[0])
	}
}

func TestSummarizeFailureIsSentinel(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 250)
	for _, gen := range []*fakeGenerator{
		failingGenerator(),
		{reply: func(string) (string, error) { return "   ", nil }},
	} {
		summary, status := NewSummarizer(gen, SummarizerConfig{}, nil).Summarize(context.Background(), long)
		if summary != domain.SummaryError || status != domain.StatusSummaryError {
			t.Fatalf("got (%q, %q)", summary, status)
		}
	}
}

func TestSummarizeAllKeepsOrderAndSentinels(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("long body ", 30)
	gen := &fakeGenerator{reply: func(prompt string) (string, error) {
		if strings.Contains(prompt, "explode") {
			return "", context.DeadlineExceeded
		}
		return "summary", nil
	}}
	s := NewSummarizer(gen, SummarizerConfig{}, nil)

	items := s.SummarizeAll(context.Background(), []domain.Article{
		{Title: "short", Content: "tiny"},
		{Title: "missing", Content: domain.ContentNotFound},
		{Title: "long", Content: long},
		{Title: "broken", Content: long + "explode"},
		{Title: "gone", Content: domain.ContentFetchError, ContentStatus: domain.StatusFetchError},
	})

	want := []struct {
		title   string
		summary string
		status  domain.Status
	}{
		{"short", "tiny", domain.StatusOK},
		{"missing", domain.ContentNotFound, domain.StatusNotFound},
		{"long", "summary", domain.StatusOK},
		{"broken", domain.SummaryError, domain.StatusSummaryError},
		{"gone", domain.ContentFetchError, domain.StatusFetchError},
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, w := range want {
		if items[i].Title != w.title || items[i].Summary != w.summary || items[i].SummaryStatus != w.status {
			t.Fatalf("item %d: got (%q, %q, %q)", i, items[i].Title, items[i].Summary, items[i].SummaryStatus)
		}
	}
	if gen.calls() != 2 {
		t.Fatalf("expected 2 generator calls, got %d", gen.calls())
	}
}
