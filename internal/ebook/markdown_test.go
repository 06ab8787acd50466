package ebook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeMarkdown(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write markdown: %v", err)
	}
	return path
}

func TestLoadMarkdownSplitsOnHeadings(t *testing.T) {
	const doc = `# My Little Book

An opening paragraph before any chapter.

## Chapter 1

The first chapter has some text in it.

## Chapter 2

The second chapter continues the story.

` + "```go\nfmt.Println(\"not narrated\")\n```" + `

And a closing line.
`

	book, err := LoadMarkdown(writeMarkdown(t, "book.md", doc))
	if err != nil {
		t.Fatalf("LoadMarkdown() error = %v", err)
	}

	if book.Title != "My Little Book" {
		t.Errorf("Title = %q", book.Title)
	}
	if len(book.Chapters) != 3 {
		t.Fatalf("chapters = %d, want 3, got %+v", len(book.Chapters), book.Chapters)
	}

	if !strings.Contains(book.Chapters[0].Text, "opening paragraph") {
		t.Errorf("first chapter missing intro text: %q", book.Chapters[0].Text)
	}
	if book.Chapters[1].Name != "Chapter 1" {
		t.Errorf("second chapter Name = %q", book.Chapters[1].Name)
	}
	if !strings.Contains(book.Chapters[2].Text, "closing line") {
		t.Errorf("last chapter missing trailing text: %q", book.Chapters[2].Text)
	}
	for _, ch := range book.Chapters {
		if strings.Contains(ch.Text, "Println") {
			t.Errorf("code block leaked into chapter %q", ch.Name)
		}
	}
}

func TestLoadMarkdownNoHeadings(t *testing.T) {
	book, err := LoadMarkdown(writeMarkdown(t, "plain.md", "Just a single paragraph of text.\n"))
	if err != nil {
		t.Fatalf("LoadMarkdown() error = %v", err)
	}

	if len(book.Chapters) != 1 {
		t.Fatalf("chapters = %d, want 1", len(book.Chapters))
	}
	if book.Chapters[0].Name != "plain" {
		t.Errorf("chapter Name = %q, want file stem", book.Chapters[0].Name)
	}
	if !book.Chapters[0].Selected {
		t.Error("sole chapter not selected")
	}
	if book.Title != "plain" {
		t.Errorf("Title = %q, want file stem fallback", book.Title)
	}
}

func TestLoadMarkdownEmpty(t *testing.T) {
	if _, err := LoadMarkdown(writeMarkdown(t, "empty.md", "\n\n")); err == nil {
		t.Error("LoadMarkdown() on empty file did not error")
	}
}

func TestLoadMarkdownLists(t *testing.T) {
	const doc = `# List Book

- first item
- second item
`
	book, err := LoadMarkdown(writeMarkdown(t, "list.md", doc))
	if err != nil {
		t.Fatalf("LoadMarkdown() error = %v", err)
	}

	text := book.Chapters[0].Text
	if !strings.Contains(text, "first item") || !strings.Contains(text, "second item") {
		t.Errorf("list items missing from chapter text: %q", text)
	}
}
