package ebook

import (
	"fmt"
	"regexp"
	"strings"
)

// minChapterChars is the shortest text still considered narration content.
// Anything under it is usually a title page or an image-only section.
const minChapterChars = 100

// chapterNamePatterns match spine item names that usually hold real content.
var chapterNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)chapter`),
	regexp.MustCompile(`(?i)\bch[_-]?\d+`),
	regexp.MustCompile(`(?i)chap[_-]?\d+`),
	regexp.MustCompile(`(?i)part[_-]?\d+`),
	regexp.MustCompile(`(?i)split[_-]?\d+`),
	regexp.MustCompile(`(?i)section[_-]?\d+`),
	regexp.MustCompile(`(?i)text[_-]?\d+`),
}

// shortNamePrefixes are path and naming noise stripped for display.
var shortNamePrefixes = []string{
	"OEBPS/", "OPS/", "text/", "Text/", "xhtml/", "html/",
}

// looksLikeChapter reports whether a chapter name matches the usual content
// naming conventions of EPUB producers.
func looksLikeChapter(name string) bool {
	for _, pattern := range chapterNamePatterns {
		if pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// markGoodChapters sets the initial selection. Chapters with conventional
// content names and enough text are selected; if no name matches, every
// non-empty chapter is selected so unusual books still convert whole.
func markGoodChapters(chapters []Chapter) {
	matched := false
	for i := range chapters {
		if len(chapters[i].Text) > minChapterChars && looksLikeChapter(chapters[i].Name) {
			chapters[i].Selected = true
			matched = true
		}
	}
	if matched {
		return
	}
	for i := range chapters {
		chapters[i].Selected = strings.TrimSpace(chapters[i].Text) != ""
	}
}

// shortName reduces a spine item name for display: path prefixes and the
// file extension go, "part0004.xhtml" stays readable as "part0004".
func shortName(name string) string {
	short := name
	for _, prefix := range shortNamePrefixes {
		short = strings.TrimPrefix(short, prefix)
	}
	if idx := strings.LastIndex(short, "."); idx > 0 {
		short = short[:idx]
	}
	return short
}

// assignShortNames fills ShortName for every chapter, suffixing duplicates
// so table rows stay distinguishable.
func assignShortNames(chapters []Chapter) {
	seen := make(map[string]int)
	for i := range chapters {
		short := shortName(chapters[i].Name)
		if n := seen[short]; n > 0 {
			chapters[i].ShortName = fmt.Sprintf("%s (%d)", short, n+1)
		} else {
			chapters[i].ShortName = short
		}
		seen[short]++
	}
}

// finishChapters numbers chapters, assigns display names and marks the
// initial selection. Every loader ends with this.
func finishChapters(chapters []Chapter) []Chapter {
	for i := range chapters {
		chapters[i].Index = i + 1
	}
	assignShortNames(chapters)
	markGoodChapters(chapters)
	return chapters
}
