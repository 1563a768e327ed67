package main

import (
	"context"
	"strings"
	"testing"

	"github.com/voxcli/vox/internal/listen"
	"github.com/voxcli/vox/tts"
	"github.com/voxcli/vox/tts/engines"
)

func TestVoiceLoopStopsOnExitWord(t *testing.T) {
	for _, word := range []string{"quit", "exit", "stop", "goodbye", "bye", "thank you", "Thank You"} {
		t.Run(word, func(t *testing.T) {
			mock := engines.NewMock("mock", true, nil)
			speaker := tts.NewSpeaker(mock)
			listener := listen.NewStdin(strings.NewReader(word + "\n"))

			var processed []string
			err := voiceLoop(context.Background(), listener, speaker, "welcome",
				func(_ context.Context, text string) error {
					processed = append(processed, text)
					return nil
				})
			if err != nil {
				t.Fatalf("voiceLoop = %v", err)
			}
			if len(processed) != 0 {
				t.Errorf("exit word was processed as an utterance: %v", processed)
			}
			if got := mock.Spoken(); len(got) != 1 || got[0] != "Goodbye" {
				t.Errorf("spoke %v, want [Goodbye]", got)
			}
		})
	}
}

func TestVoiceLoopProcessesUtterancesUntilExit(t *testing.T) {
	mock := engines.NewMock("mock", true, nil)
	speaker := tts.NewSpeaker(mock)
	listener := listen.NewStdin(strings.NewReader("hello there\nwhat time is it\nquit\n"))

	var processed []string
	err := voiceLoop(context.Background(), listener, speaker, "welcome",
		func(_ context.Context, text string) error {
			processed = append(processed, text)
			return nil
		})
	if err != nil {
		t.Fatalf("voiceLoop = %v", err)
	}
	want := []string{"hello there", "what time is it"}
	if len(processed) != len(want) || processed[0] != want[0] || processed[1] != want[1] {
		t.Errorf("processed = %v, want %v", processed, want)
	}
}

func TestVoiceLoopEndsAtEOF(t *testing.T) {
	speaker := tts.NewSpeaker(engines.NewMock("mock", true, nil))
	listener := listen.NewStdin(strings.NewReader("no exit word here\n"))

	err := voiceLoop(context.Background(), listener, speaker, "welcome",
		func(context.Context, string) error { return nil })
	if err != nil {
		t.Fatalf("voiceLoop at EOF = %v, want nil", err)
	}
}
