// Package cache stores synthesized audio keyed by text, voice and speed.
//
// Synthesis is by far the slowest step of a conversion, so finished chapter
// audio is kept on disk (zstd compressed) and fronted by a small in-memory
// LRU. A conversion interrupted halfway resumes from cached chapters instead
// of re-running inference.
package cache
