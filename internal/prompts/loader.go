// Package prompts holds the instruction templates sent to the text generator.
package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed summary.txt
var Summary string

//go:embed script.txt
var Script string

// SummaryData fills the summary template.
type SummaryData struct {
	MaxChars int
	Text     string
}

// ScriptData fills the script template; Summaries is the labelled block.
type ScriptData struct {
	Summaries string
}

// Template is a parsed prompt ready to render.
type Template struct {
	tmpl *template.Template
}

// Parse compiles source, falling back to fallback when source is blank.
func Parse(name, source, fallback string) (*Template, error) {
	if strings.TrimSpace(source) == "" {
		source = fallback
	}
	tmpl, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse %s prompt: %w", name, err)
	}
	return &Template{tmpl: tmpl}, nil
}

// MustParse is Parse for the embedded defaults.
func MustParse(name, source string) *Template {
	t, err := Parse(name, source, "")
	if err != nil {
		panic(err)
	}
	return t
}

// Render executes the template with data.
func (t *Template) Render(data any) (string, error) {
	var b strings.Builder
	if err := t.tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.tmpl.Name(), err)
	}
	return strings.TrimSpace(b.String()), nil
}
