package markdown

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	gomarkdown "github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// speechWrapper is the fixed markup the speech synthesizer expects around
// digest summary content.
const speechWrapper = `<div id="readability-content">
  <div id="readability-page-1">
    %s
  </div>
</div>`

// FromHTML converts readable HTML content into a markdown representation
// suitable for LLM prompting. Input that fails to parse is returned as-is.
func FromHTML(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var b strings.Builder
	body := doc.Find("body")
	if body.Length() == 0 {
		renderChildren(&b, doc.Selection)
	} else {
		renderChildren(&b, body)
	}

	return tidyBlankLines(b.String())
}

func renderChildren(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		renderNode(b, child)
	})
}

func renderNode(b *strings.Builder, s *goquery.Selection) {
	switch name := goquery.NodeName(s); name {
	case "#text":
		b.WriteString(collapseWhitespace(s.Text()))
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(name[1] - '0')
		b.WriteString("\n\n" + strings.Repeat("#", level) + " " + strings.TrimSpace(s.Text()) + "\n\n")
	case "p", "div", "section", "article":
		b.WriteString("\n\n")
		renderChildren(b, s)
		b.WriteString("\n\n")
	case "br":
		b.WriteString("\n")
	case "ul", "ol":
		b.WriteString("\n\n")
		s.ChildrenFiltered("li").Each(func(i int, li *goquery.Selection) {
			marker := "-"
			if name == "ol" {
				marker = fmt.Sprintf("%d.", i+1)
			}
			b.WriteString(marker + " " + collapseWhitespace(li.Text()) + "\n")
		})
		b.WriteString("\n")
	case "a":
		href, _ := s.Attr("href")
		text := collapseWhitespace(s.Text())
		if href == "" || text == "" {
			b.WriteString(text)
		} else {
			b.WriteString("[" + text + "](" + href + ")")
		}
	case "strong", "b":
		b.WriteString("**" + collapseWhitespace(s.Text()) + "**")
	case "em", "i":
		b.WriteString("*" + collapseWhitespace(s.Text()) + "*")
	case "code":
		b.WriteString("`" + s.Text() + "`")
	case "pre":
		b.WriteString("\n\n```\n" + strings.TrimRight(s.Text(), "\n") + "\n```\n\n")
	case "blockquote":
		b.WriteString("\n\n> " + collapseWhitespace(s.Text()) + "\n\n")
	case "script", "style", "noscript", "iframe":
		// dropped
	case "img":
		if alt, ok := s.Attr("alt"); ok && alt != "" {
			b.WriteString(collapseWhitespace(alt))
		}
	default:
		renderChildren(b, s)
	}
}

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

func collapseWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, " ")
}

func tidyBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(blankLinesRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

// ToHTML renders markdown-flavored summary text as HTML for the email body
// and the speech wrapper. The parser is stateful and not reusable across
// inputs.
func ToHTML(md string) string {
	if md == "" {
		return ""
	}

	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags,
	})

	return strings.TrimSpace(string(gomarkdown.ToHTML([]byte(md), mdParser, renderer)))
}

// WrapForSpeech wraps rendered summary HTML in the markup the speech
// synthesizer expects.
func WrapForSpeech(htmlContent string) string {
	return fmt.Sprintf(speechWrapper, htmlContent)
}

// StripTags returns the text content of an HTML fragment.
func StripTags(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}
	return doc.Text()
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
