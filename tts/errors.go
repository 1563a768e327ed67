package tts

import "errors"

// Common errors for the synthesis layer.
var (
	// ErrNoEngineAvailable means every engine in the chain was probed and
	// none could speak.
	ErrNoEngineAvailable = errors.New("no speech engine is available")

	// ErrEmptyText is returned when an utterance is empty after
	// normalization.
	ErrEmptyText = errors.New("empty text")

	// ErrEngineNotAvailable is returned by an engine asked to speak while
	// its backing binary or device is missing.
	ErrEngineNotAvailable = errors.New("speech engine is not available")

	// ErrSynthesisFailed wraps a backend failure that produced no audio.
	ErrSynthesisFailed = errors.New("speech synthesis failed")
)
