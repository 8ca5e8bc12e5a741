package script

import (
	"strings"
	"testing"
)

func TestNormalizeExamples(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"parenthetical", "Hello (cue here) world", "Hello world"},
		{"whitespace", "a\n\n\nb   c", "a\nb c"},
		{"cue phrase", "intro music\nReal content", "Real content"},
		{"emphasis", "This is **big** news", "This is big news"},
		{"heading", "## Episode 12\nWelcome", "Episode 12\nWelcome"},
		{"speaker label", "Host: Welcome back.\nHOST: Today we talk AI.", "Welcome back.\nToday we talk AI."},
		{"bold label", "**Host:** Hi there", "Hi there"},
		{"longest cue first", "Thanks for listening! Outro Music Fades", "Thanks for listening!"},
		{"only cues", "  (Intro Music)\nIntro Music\n\nHost:\nOutro music fades  ", ""},
		{"cue inside word kept", "Introspection music", "Introspection music"},
		{"tabs", "a\t\tb", "a b"},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("%s: Normalize(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestNormalizeNestedParenthesesLimitation(t *testing.T) {
	t.Parallel()

	got := Normalize("a (b (c) d) e")
	if got != "a d) e" {
		t.Fatalf("unexpected nested result %q", got)
	}
}

var samples = []string{
	"",
	"plain text",
	"# Title\n\n**Host:** Welcome to *the* show! (upbeat music)\n\nIntro Music\n\nToday   we cover three stories.",
	"Host: (laughs) That's wild.\nNarrator: Indeed.\n\n\n(Outro Music Fades)",
	"intro intro music music",
	"Speaker:speaker: nested labels",
	"***\n###\n(( ))\n   \n",
	"Ünïcödé ** text ** (with) ( odd ) spacing\t\t\tand tabs",
	"Host:  \n  Host:  Hello",
	"a(b)c(d)e",
}

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range samples {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestNormalizeInvariants(t *testing.T) {
	t.Parallel()

	for _, in := range samples {
		out := Normalize(in)
		if strings.ContainsAny(out, "#*") {
			t.Fatalf("markers left in %q", out)
		}
		if strings.Contains(out, "\n\n") {
			t.Fatalf("blank lines left in %q", out)
		}
		if strings.Contains(out, "  ") {
			t.Fatalf("double spaces left in %q", out)
		}
		if out != strings.TrimSpace(out) {
			t.Fatalf("untrimmed output %q", out)
		}
		lower := strings.ToLower(out)
		for _, cue := range []string{"intro music", "outro music"} {
			if strings.Contains(lower, cue) {
				t.Fatalf("cue %q left in %q", cue, out)
			}
		}
		if strings.Contains(lower, "host:") {
			t.Fatalf("label left in %q", out)
		}
	}
}
