package ebook

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PreviewLength is how much chapter text is shown in listings.
const PreviewLength = 300

// Book is a parsed e-book ready for conversion.
type Book struct {
	Title    string
	Author   string
	Language string
	Chapters []Chapter

	// Cover is the raw cover image, if the book has one.
	Cover     []byte
	CoverType string // media type, e.g. "image/jpeg"
}

// Chapter is one speakable unit of a book.
type Chapter struct {
	// Index is the 1-based position in reading order.
	Index int

	// Name is the chapter's identifier in the source: the spine item path
	// for EPUB, the heading for markdown.
	Name string

	// ShortName is Name reduced for display.
	ShortName string

	// Text is the extracted plain text.
	Text string

	// Selected marks the chapter for conversion.
	Selected bool
}

// Preview returns the first PreviewLength characters of the chapter text.
func (c Chapter) Preview() string {
	text := strings.TrimSpace(c.Text)
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength])
}

// Selected returns the chapters marked for conversion, in reading order.
func (b *Book) Selected() []Chapter {
	var selected []Chapter
	for _, ch := range b.Chapters {
		if ch.Selected {
			selected = append(selected, ch)
		}
	}
	return selected
}

// TotalChars returns the character count of the selected chapters.
func (b *Book) TotalChars() int {
	total := 0
	for _, ch := range b.Chapters {
		if ch.Selected {
			total += len(ch.Text)
		}
	}
	return total
}

// Load parses an e-book by file extension.
func Load(path string) (*Book, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".epub":
		return LoadEPUB(path)
	case ".md", ".markdown", ".txt":
		return LoadMarkdown(path)
	default:
		return nil, fmt.Errorf("unsupported e-book format %q", ext)
	}
}
