package feed

import (
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	blankLines = regexp.MustCompile(`\n\s*\n`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
)

// CleanMarkup flattens markup-bearing feed text: line breaks become
// newlines, anchors are replaced by their target URL, every other tag
// is dropped, entities are decoded and runs of blank lines collapse.
func CleanMarkup(raw string) string {
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		// Fall back to a crude strip rather than losing the item.
		return strings.TrimSpace(html.UnescapeString(anyTag.ReplaceAllString(raw, "")))
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		s.ReplaceWithHtml(html.EscapeString(href))
	})

	text := doc.Text()
	text = blankLines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
