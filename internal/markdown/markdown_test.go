package markdown

import (
	"strings"
	"testing"
)

func TestFromHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "heading and inline markup",
			input: `<h2>Heading</h2><p>Some <strong>bold</strong> and <em>subtle</em> text.</p>`,
			want:  "## Heading\n\nSome **bold** and *subtle* text.",
		},
		{
			name:  "unordered list",
			input: `<ul><li>One</li><li>Two</li></ul>`,
			want:  "- One\n- Two",
		},
		{
			name:  "ordered list",
			input: `<ol><li>First</li><li>Second</li></ol>`,
			want:  "1. First\n2. Second",
		},
		{
			name:  "links",
			input: `<p>See <a href="https://example.com/doc">the docs</a>.</p>`,
			want:  "See [the docs](https://example.com/doc).",
		},
		{
			name:  "script and style dropped",
			input: `<p>Visible</p><script>var x = 1;</script><style>p { color: red }</style>`,
			want:  "Visible",
		},
		{
			name:  "image alt text",
			input: `<p>Before <img src="x.png" alt="a diagram"> after</p>`,
			want:  "Before a diagram after",
		},
		{
			name:  "nested blocks collapse blank lines",
			input: `<article><section><p>One</p></section><section><p>Two</p></section></article>`,
			want:  "One\n\nTwo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromHTML(tt.input); got != tt.want {
				t.Errorf("FromHTML(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToHTML(t *testing.T) {
	md := "## Takeaways\n\nSome **bold** and *subtle* text with [a link](https://example.com).\n\n- first\n- second"

	got := ToHTML(md)
	for _, fragment := range []string{
		"<h2>Takeaways</h2>",
		"<strong>bold</strong>",
		"<em>subtle</em>",
		`<a href="https://example.com">a link</a>`,
		"<ul>",
		"<li>first</li>",
		"<li>second</li>",
	} {
		if !strings.Contains(got, fragment) {
			t.Errorf("ToHTML() missing %q in %q", fragment, got)
		}
	}
}

func TestToHTMLRendersOrderedLists(t *testing.T) {
	got := ToHTML("Key points:\n\n1. first point\n2. second point")

	if !strings.Contains(got, "<ol>") {
		t.Fatalf("numbered items must render as an ordered list, got %q", got)
	}
	for _, fragment := range []string{"<li>first point</li>", "<li>second point</li>"} {
		if !strings.Contains(got, fragment) {
			t.Errorf("ToHTML() missing %q in %q", fragment, got)
		}
	}
}

func TestToHTMLEscapesMarkup(t *testing.T) {
	got := ToHTML("5 < 6 & counting")
	if !strings.Contains(got, "&lt;") || !strings.Contains(got, "&amp;") {
		t.Errorf("raw markup must be escaped, got %q", got)
	}
}

func TestToHTMLEmptyInput(t *testing.T) {
	if got := ToHTML(""); got != "" {
		t.Errorf("empty input should render nothing, got %q", got)
	}
}

func TestWrapForSpeech(t *testing.T) {
	got := WrapForSpeech("<p>x</p>")

	if !strings.HasPrefix(got, `<div id="readability-content">`) {
		t.Errorf("missing outer wrapper: %q", got)
	}
	if !strings.Contains(got, `<div id="readability-page-1">`) {
		t.Errorf("missing page wrapper: %q", got)
	}
	if !strings.Contains(got, "<p>x</p>") {
		t.Errorf("content not embedded: %q", got)
	}
}

func TestStripTags(t *testing.T) {
	if got := StripTags("<p>Hello <b>world</b></p>"); got != "Hello world" {
		t.Errorf("StripTags = %q", got)
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("  one two\nthree "); got != 3 {
		t.Errorf("WordCount = %d, want 3", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("WordCount(empty) = %d, want 0", got)
	}
}
