// Package tts dispatches normalized text to a chain of speech synthesis
// backends. The Speaker is the single entry point the voice loop talks to;
// everything below it (engines, audio playback) stays behind the Engine
// interface.
package tts

import "context"

// Engine synthesizes and plays one utterance. Speak blocks until the audio
// has finished playing so the caller can sequence speech with the rest of a
// conversational turn.
type Engine interface {
	// Name identifies the engine in logs and status output.
	Name() string

	// Available reports whether the engine can currently synthesize. It is
	// a cheap runtime probe, typically a binary lookup, and is re-checked
	// on every utterance so an engine can come and go between turns.
	Available() bool

	// Speak synthesizes text and plays it to completion. Canceling ctx
	// aborts both synthesis and playback.
	Speak(ctx context.Context, text string) error
}
