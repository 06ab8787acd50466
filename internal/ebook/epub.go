package ebook

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/taylorskalyo/goreader/epub"
)

// LoadEPUB parses an EPUB file into a Book. Chapters follow the spine, so
// they come out in reading order regardless of archive layout.
func LoadEPUB(path string) (*Book, error) {
	rc, err := epub.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open epub: %w", err)
	}
	defer rc.Close()

	if len(rc.Rootfiles) == 0 {
		return nil, errors.New("epub has no rootfile")
	}
	pkg := rc.Rootfiles[0]

	book := &Book{
		Title:    strings.TrimSpace(pkg.Title),
		Author:   strings.TrimSpace(pkg.Creator),
		Language: strings.TrimSpace(pkg.Language),
	}

	var chapters []Chapter
	for _, itemref := range pkg.Spine.Itemrefs {
		if itemref.Item == nil {
			continue
		}
		text, err := readSpineItem(itemref.Item)
		if err != nil {
			// One unreadable item should not sink the whole book.
			log.Warn("skipping unreadable chapter", "item", itemref.HREF, "err", err)
			continue
		}
		chapters = append(chapters, Chapter{
			Name: itemref.HREF,
			Text: text,
		})
	}
	if len(chapters) == 0 {
		return nil, errors.New("epub spine has no readable chapters")
	}
	book.Chapters = finishChapters(chapters)

	book.Cover, book.CoverType = findCover(pkg)

	log.Debug("parsed epub",
		"title", book.Title,
		"chapters", len(book.Chapters),
		"selected", len(book.Selected()),
		"cover", book.Cover != nil)
	return book, nil
}

func readSpineItem(item *epub.Item) (string, error) {
	r, err := item.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	return extractText(r)
}

// findCover locates the cover image in the manifest. EPUB producers are
// inconsistent here; matching "cover" in the item ID or path catches the
// common conventions.
func findCover(pkg *epub.Rootfile) ([]byte, string) {
	for _, item := range pkg.Manifest.Items {
		if !strings.HasPrefix(item.MediaType, "image/") {
			continue
		}
		id := strings.ToLower(item.ID)
		href := strings.ToLower(item.HREF)
		if !strings.Contains(id, "cover") && !strings.Contains(href, "cover") {
			continue
		}

		r, err := item.Open()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil || len(data) == 0 {
			continue
		}
		return data, item.MediaType
	}
	return nil, ""
}
