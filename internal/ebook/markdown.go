package ebook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LoadMarkdown parses a markdown (or plain text) file into a Book. Level 1
// and 2 headings start new chapters; the first heading doubles as the book
// title. Code blocks are not narrated.
func LoadMarkdown(path string) (*Book, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read markdown: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	book := &Book{Language: "en"}

	var chapters []Chapter
	var current strings.Builder
	currentName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	flush := func() {
		body := strings.TrimSpace(current.String())
		current.Reset()
		if body == "" {
			return
		}
		chapters = append(chapters, Chapter{Name: currentName, Text: body})
	}

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			title := nodeText(n, source)
			if title == "" {
				continue
			}
			if book.Title == "" && n.Level == 1 {
				book.Title = title
			}
			if n.Level <= 2 {
				flush()
				currentName = title
			}
			current.WriteString(title)
			current.WriteString("\n\n")

		case *ast.CodeBlock, *ast.FencedCodeBlock, *ast.HTMLBlock:
			// Not speakable.

		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				if entry := nodeText(item, source); entry != "" {
					current.WriteString(entry)
					current.WriteString("\n")
				}
			}
			current.WriteString("\n")

		default:
			if body := nodeText(node, source); body != "" {
				current.WriteString(body)
				current.WriteString("\n\n")
			}
		}
	}
	flush()

	if len(chapters) == 0 {
		return nil, fmt.Errorf("no narratable text in %s", filepath.Base(path))
	}
	if book.Title == "" {
		book.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	book.Chapters = finishChapters(chapters)
	return book, nil
}

// nodeText collects the plain text under a node, skipping code spans and raw
// HTML fragments.
func nodeText(node ast.Node, source []byte) string {
	var sb strings.Builder
	collectText(node, source, &sb)
	return normalizeSpace(sb.String())
}

func collectText(node ast.Node, source []byte, sb *strings.Builder) {
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.CodeSpan, *ast.RawHTML, *ast.Image:
			// Not speakable.
		default:
			collectText(c, source, sb)
		}
	}
}
