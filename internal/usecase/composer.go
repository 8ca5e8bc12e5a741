package usecase

import (
	"context"
	"fmt"
	"strings"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
	"NewsNarrator/internal/prompts"
)

// Composer merges ordered synopses into one narrative script with a single
// generator call.
type Composer struct {
	generator ports.TextGenerator
	prompt    *prompts.Template
}

// NewComposer uses the embedded script prompt when prompt is nil.
func NewComposer(gen ports.TextGenerator, prompt *prompts.Template) *Composer {
	if prompt == nil {
		prompt = prompts.MustParse("script", prompts.Script)
	}
	return &Composer{generator: gen, prompt: prompt}
}

// Compose returns the generated script. On failure it returns the script
// failure sentinel together with an error wrapping ErrCompositionFailed.
func (c *Composer) Compose(ctx context.Context, summaries []string) (string, error) {
	if len(summaries) == 0 {
		return domain.ScriptFailure, domain.ErrNoSummaries
	}

	prompt, err := c.prompt.Render(prompts.ScriptData{Summaries: LabelSummaries(summaries)})
	if err != nil {
		return domain.ScriptFailure, fmt.Errorf("%w: %v", domain.ErrCompositionFailed, err)
	}
	if c.generator == nil {
		return domain.ScriptFailure, fmt.Errorf("%w: text generator is not configured", domain.ErrCompositionFailed)
	}

	script, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		return domain.ScriptFailure, fmt.Errorf("%w: %v", domain.ErrCompositionFailed, err)
	}
	script = strings.TrimSpace(script)
	if script == "" {
		return domain.ScriptFailure, fmt.Errorf("%w: empty response", domain.ErrCompositionFailed)
	}
	return script, nil
}

// LabelSummaries numbers summaries from 1 and separates them by a blank line.
func LabelSummaries(summaries []string) string {
	parts := make([]string, len(summaries))
	for i, s := range summaries {
		parts[i] = fmt.Sprintf("Article %d: %s", i+1, s)
	}
	return strings.Join(parts, "\n\n")
}

// ComposableSummaries picks the summaries worth narrating, in order.
// Sentinel summaries would only be read aloud as error text.
func ComposableSummaries(items []domain.SummarizedArticle) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item.InferStatuses()
		if !item.SummaryStatus.OK() || strings.TrimSpace(item.Summary) == "" {
			continue
		}
		out = append(out, item.Summary)
	}
	return out
}
