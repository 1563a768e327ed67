// Package listen turns microphone audio into text. A Listener produces one
// utterance per call; the voice loop decides what the words mean.
package listen

import (
	"context"
	"errors"
)

// Listener captures one utterance of user input as text.
type Listener interface {
	// Listen blocks until the user has said (or typed) something and
	// returns it as plain text.
	Listen(ctx context.Context) (string, error)
}

var (
	// ErrNoSpeech means audio was captured but nothing intelligible was
	// recognized in it.
	ErrNoSpeech = errors.New("could not understand audio")

	// ErrNoMicrophone means no capture utility could be found.
	ErrNoMicrophone = errors.New("no working microphone capture tool found")
)

// Mic chains a recorder and a recognizer into a Listener.
type Mic struct {
	recorder   *Recorder
	recognizer Recognizer
}

// Recognizer transcribes a WAV clip.
type Recognizer interface {
	Recognize(ctx context.Context, wav []byte) (string, error)
}

// NewMic builds the microphone listener.
func NewMic(recorder *Recorder, recognizer Recognizer) *Mic {
	return &Mic{recorder: recorder, recognizer: recognizer}
}

// Listen records a clip and transcribes it.
func (m *Mic) Listen(ctx context.Context) (string, error) {
	wav, err := m.recorder.Record(ctx)
	if err != nil {
		return "", err
	}
	return m.recognizer.Recognize(ctx, wav)
}
