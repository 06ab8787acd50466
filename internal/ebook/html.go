package ebook

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// blockSelector lists the elements read aloud, in document order. Scripts,
// styles and footnote markers are dropped before extraction.
const blockSelector = "h1, h2, h3, h4, h5, h6, p, li, blockquote, figcaption, td, th"

// extractText converts an XHTML chapter document to speakable plain text.
// Block elements become paragraphs separated by blank lines.
func extractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("parse chapter HTML: %w", err)
	}

	doc.Find("script, style, sup.noteref, sup a, a.footnote").Remove()

	var blocks []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		// Nested blocks (a p inside an li) are emitted by the child only.
		if s.Children().Is(blockSelector) {
			return
		}
		text := normalizeSpace(s.Text())
		if text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		// No recognizable blocks; fall back to the whole body text.
		return normalizeSpace(doc.Find("body").Text()), nil
	}
	return strings.Join(blocks, "\n\n"), nil
}

// normalizeSpace collapses runs of whitespace while keeping paragraph breaks.
func normalizeSpace(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
