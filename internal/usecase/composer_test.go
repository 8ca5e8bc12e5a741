package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"NewsNarrator/internal/domain"
)

func TestComposePreservesOrder(t *testing.T) {
	t.Parallel()

	gen := echoGenerator()
	script, err := NewComposer(gen, nil).Compose(context.Background(), []string{"Article A does X.", "Article B does Y."})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	a := strings.Index(script, "Article A does X.")
	b := strings.Index(script, "Article B does Y.")
	if a < 0 || b < 0 || a > b {
		t.Fatalf("summaries missing or out of order in %q", script)
	}
	if !strings.Contains(script, "Article 1: Article A does X.\n\nArticle 2: Article B does Y.") {
		t.Fatalf("labels missing in %q", script)
	}
	if gen.calls() != 1 {
		t.Fatalf("expected a single generator call, got %d", gen.calls())
	}
}

func TestComposeFailures(t *testing.T) {
	t.Parallel()

	script, err := NewComposer(failingGenerator(), nil).Compose(context.Background(), []string{"s"})
	if !errors.Is(err, domain.ErrCompositionFailed) || script != domain.ScriptFailure {
		t.Fatalf("service failure: got (%q, %v)", script, err)
	}

	empty := &fakeGenerator{reply: func(string) (string, error) { return "\n", nil }}
	script, err = NewComposer(empty, nil).Compose(context.Background(), []string{"s"})
	if !errors.Is(err, domain.ErrCompositionFailed) || script != domain.ScriptFailure {
		t.Fatalf("empty reply: got (%q, %v)", script, err)
	}

	gen := &fakeGenerator{}
	if _, err := NewComposer(gen, nil).Compose(context.Background(), nil); !errors.Is(err, domain.ErrNoSummaries) {
		t.Fatalf("expected ErrNoSummaries, got %v", err)
	}
	if gen.calls() != 0 {
		t.Fatalf("generator called for empty input")
	}
}

func TestComposableSummariesSkipsSentinels(t *testing.T) {
	t.Parallel()

	got := ComposableSummaries([]domain.SummarizedArticle{
		{Summary: "one", SummaryStatus: domain.StatusOK},
		{Summary: domain.SummaryError},
		{Article: domain.Article{Content: domain.ContentNotFound}, Summary: domain.ContentNotFound},
		{Summary: "two"},
		{Summary: "  ", SummaryStatus: domain.StatusOK},
	})
	if strings.Join(got, "|") != "one|two" {
		t.Fatalf("unexpected summaries %q", got)
	}
}
