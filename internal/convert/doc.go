// Package convert orchestrates the book-to-audiobook pipeline: it runs the
// synthesis engine over the selected chapters, writes the per-chapter WAV
// files, and hands them to the M4B builder. Progress is reported through a
// caller-supplied event callback so both the CLI printer and the TUI can
// observe the same conversion.
package convert
