package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"NewsNarrator/internal/domain"
)

// SaveJSON writes v as 4-space indented JSON without escaping HTML or
// non-ASCII characters. The file is replaced atomically.
func SaveJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return writeFileAtomic(path, buf.Bytes())
}

// LoadArticles reads a scrape hand-off file.
func LoadArticles(path string) ([]domain.Article, error) {
	var articles []domain.Article
	if err := loadJSON(path, &articles); err != nil {
		return nil, err
	}
	for i := range articles {
		articles[i].InferStatus()
	}
	return articles, nil
}

// LoadSummaries reads a summarize hand-off file.
func LoadSummaries(path string) ([]domain.SummarizedArticle, error) {
	var items []domain.SummarizedArticle
	if err := loadJSON(path, &items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].InferStatuses()
	}
	return items, nil
}

func loadJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
