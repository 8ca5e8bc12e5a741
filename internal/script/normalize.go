// Package script turns generated podcast prose into plain text that a speech
// service can read aloud.
package script

import (
	"regexp"
	"strings"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// Order matters: emphasis markers go before labels so "**Host:**" is
// recognised, and cue phrases are removed after whitespace collapsing.
var rules = []rule{
	{regexp.MustCompile(`[#*]+`), ""},
	{regexp.MustCompile(`\*\*(.*?)\*\*`), "$1"},
	{regexp.MustCompile(`(?i)\b(?:co-host|host|narrator|announcer|speaker):\s*`), ""},
	// Non-greedy and single level: "a (b (c) d) e" leaves "d) e" behind.
	{regexp.MustCompile(`\(.*?\)`), ""},
	{regexp.MustCompile(`\n+`), "\n"},
	{regexp.MustCompile(`[ \t]{2,}`), " "},
	{regexp.MustCompile(`(?i)\b(?:outro music fades|outro music|intro music)\b`), ""},
}

// Normalize strips markdown markers, speaker labels, parenthetical stage
// directions and production cues, collapses whitespace, and trims the
// result. It is total and idempotent; a script made only of cues yields "".
func Normalize(raw string) string {
	// Every rule only deletes or shrinks, so the loop reaches a fixpoint.
	text := raw
	for {
		next := applyRules(text)
		if next == text {
			return text
		}
		text = next
	}
}

func applyRules(text string) string {
	for _, r := range rules {
		text = r.re.ReplaceAllString(text, r.repl)
	}
	return tidyLines(strings.TrimSpace(text))
}

// tidyLines drops spaces left at line edges by removed labels and cues.
func tidyLines(text string) string {
	if !strings.Contains(text, "\n") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.Trim(line, " \t"); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
