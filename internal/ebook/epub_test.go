package ebook

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const containerXML = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const contentOPF = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="2.0" unique-identifier="uid">
  <metadata>
    <dc:title>A Study in Testing</dc:title>
    <dc:creator>Jane Roe</dc:creator>
    <dc:language>en</dc:language>
    <dc:identifier id="uid">test-0001</dc:identifier>
  </metadata>
  <manifest>
    <item id="toc" href="toc.xhtml" media-type="application/xhtml+xml"/>
    <item id="c1" href="chapter_1.xhtml" media-type="application/xhtml+xml"/>
    <item id="c2" href="chapter_2.xhtml" media-type="application/xhtml+xml"/>
    <item id="cover-image" href="cover.jpg" media-type="image/jpeg"/>
  </manifest>
  <spine>
    <itemref idref="toc"/>
    <itemref idref="c1"/>
    <itemref idref="c2"/>
  </spine>
</package>`

func chapterXHTML(title, body string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>%s</title></head>
<body><h1>%s</h1><p>%s</p></body>
</html>`, title, title, body)
}

// writeTestEPUB assembles a minimal two-chapter EPUB with a cover image.
func writeTestEPUB(t *testing.T) string {
	t.Helper()

	longBody := strings.Repeat("It was the best of tests, it was the worst of tests. ", 5)

	files := []struct {
		name, content string
	}{
		{"mimetype", "application/epub+zip"},
		{"META-INF/container.xml", containerXML},
		{"content.opf", contentOPF},
		{"toc.xhtml", chapterXHTML("Contents", "Chapter listing.")},
		{"chapter_1.xhtml", chapterXHTML("Chapter One", longBody)},
		{"chapter_2.xhtml", chapterXHTML("Chapter Two", longBody)},
		{"cover.jpg", "\xff\xd8\xff\xe0 fake jpeg bytes"},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.name)
		if err != nil {
			t.Fatalf("zip create %s: %v", f.name, err)
		}
		if _, err := w.Write([]byte(f.content)); err != nil {
			t.Fatalf("zip write %s: %v", f.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	path := filepath.Join(t.TempDir(), "test.epub")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write epub: %v", err)
	}
	return path
}

func TestLoadEPUB(t *testing.T) {
	book, err := LoadEPUB(writeTestEPUB(t))
	if err != nil {
		t.Fatalf("LoadEPUB() error = %v", err)
	}

	if book.Title != "A Study in Testing" {
		t.Errorf("Title = %q", book.Title)
	}
	if book.Author != "Jane Roe" {
		t.Errorf("Author = %q", book.Author)
	}
	if book.Language != "en" {
		t.Errorf("Language = %q", book.Language)
	}

	if len(book.Chapters) != 3 {
		t.Fatalf("chapters = %d, want 3 (toc + 2 content)", len(book.Chapters))
	}
	for i, ch := range book.Chapters {
		if ch.Index != i+1 {
			t.Errorf("chapter %d has Index %d", i, ch.Index)
		}
	}

	selected := book.Selected()
	if len(selected) != 2 {
		t.Fatalf("selected = %d chapters, want 2", len(selected))
	}
	for _, ch := range selected {
		if !strings.Contains(ch.Name, "chapter_") {
			t.Errorf("unexpected selected chapter %q", ch.Name)
		}
		if !strings.Contains(ch.Text, "best of tests") {
			t.Errorf("chapter %q text not extracted", ch.Name)
		}
	}

	if book.Cover == nil {
		t.Error("cover image not found")
	}
	if book.CoverType != "image/jpeg" {
		t.Errorf("CoverType = %q, want image/jpeg", book.CoverType)
	}
}

func TestLoadEPUBMissingFile(t *testing.T) {
	if _, err := LoadEPUB(filepath.Join(t.TempDir(), "missing.epub")); err == nil {
		t.Error("LoadEPUB() on missing file did not error")
	}
}

func TestLoadByExtension(t *testing.T) {
	if _, err := Load("book.pdf"); err == nil {
		t.Error("Load() accepted unsupported extension")
	}

	book, err := Load(writeTestEPUB(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if book.Title == "" {
		t.Error("Load() dispatched epub but returned empty book")
	}
}
