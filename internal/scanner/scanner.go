package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"NewsNarrator/internal/domain"
)

// Selector is a structural match specification resolved against parsed HTML.
// CSS, when set, is used verbatim; otherwise the tag/class/id/attribute
// constraints are compiled into a CSS selector.
type Selector struct {
	CSS   string
	Tag   string
	Class string
	ID    string
	Attrs map[string]string
}

// String compiles the selector into CSS syntax understood by goquery.
func (s Selector) String() string {
	if css := strings.TrimSpace(s.CSS); css != "" {
		return css
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(s.Tag))
	if s.ID != "" {
		b.WriteString("#")
		b.WriteString(s.ID)
	}
	for _, class := range strings.Fields(s.Class) {
		b.WriteString(".")
		b.WriteString(class)
	}

	keys := make([]string, 0, len(s.Attrs))
	for k := range s.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if v := s.Attrs[k]; v != "" {
			fmt.Fprintf(&b, "[%s=%q]", k, v)
		} else {
			fmt.Fprintf(&b, "[%s]", k)
		}
	}
	return b.String()
}

// IsZero reports whether no constraint is set.
func (s Selector) IsZero() bool {
	return s.String() == ""
}

// Request carries all parameters required to scan a single site.
type Request struct {
	SiteName        string
	ListingURL      string
	BaseURL         string
	TitleSelector   Selector
	ContentSelector Selector
	LinkAttr        string
	MaxArticles     int
	Options         map[string]string
}

// Scanner captures a single extraction strategy.
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Article, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered", name)
}
