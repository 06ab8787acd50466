// Package tts defines the speech-synthesis contract used by the audiobook
// pipeline: the engine interface, the Kokoro voice catalog, compute device
// selection, and speed handling. Actual inference is delegated to an
// external pretrained model; see the engines subpackage.
package tts
