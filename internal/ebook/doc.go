// Package ebook parses e-books into chapters of plain speakable text.
//
// EPUB files are read through their spine so chapters come out in reading
// order; markdown files are split on their top-level headings. Front matter
// like tables of contents and copyright pages is deselected by a naming
// heuristic but stays available for the user to toggle back on.
package ebook
