// Package m4b assembles per-chapter WAV files into a single M4B audiobook.
//
// The heavy lifting is delegated to an external ffmpeg: chapter files are
// concatenated with the concat demuxer, chapter marks and book metadata are
// attached through an FFMETADATA1 stream, and the cover image is muxed as an
// attached picture.
package m4b
