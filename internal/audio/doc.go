// Package audio handles raw PCM produced by the synthesis engine: format
// bookkeeping, WAV encoding for the per-chapter intermediate files, and a
// small playback player used for voice previews.
package audio
