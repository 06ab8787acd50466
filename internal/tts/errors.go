package tts

import "errors"

// Common synthesis errors
var (
	// ErrUnknownVoice indicates the requested voice is not in the catalog
	ErrUnknownVoice = errors.New("unknown voice")

	// ErrUnknownDevice indicates an unrecognized compute device name
	ErrUnknownDevice = errors.New("unknown compute device")

	// ErrDeviceUnavailable indicates the requested device is not usable on this host
	ErrDeviceUnavailable = errors.New("compute device not available")

	// ErrEngineNotFound indicates the synthesis binary is missing from PATH
	ErrEngineNotFound = errors.New("synthesis engine not found")

	// ErrSynthesisFailed indicates the engine ran but produced no usable audio
	ErrSynthesisFailed = errors.New("synthesis failed")

	// ErrEmptyText indicates there was nothing to synthesize
	ErrEmptyText = errors.New("text is empty")

	// ErrInvalidSpeed indicates a speed value outside the supported range
	ErrInvalidSpeed = errors.New("speed must be between 0.5 and 2.0")
)
