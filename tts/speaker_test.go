package tts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/voxcli/vox/tts"
	"github.com/voxcli/vox/tts/engines"
)

func TestSpeakerNormalizesBeforeSpeaking(t *testing.T) {
	mock := engines.NewMock("mock", true, nil)
	speaker := tts.NewSpeaker(mock)

	speaker.Say(context.Background(), "Transfer rate: 100 MBps")

	got := mock.Spoken()
	if len(got) != 1 {
		t.Fatalf("spoke %d utterances, want 1", len(got))
	}
	if want := "Transfer rate: 100 megabytes per second"; got[0] != want {
		t.Errorf("spoke %q, want %q", got[0], want)
	}
}

func TestSpeakerSkipsBlankUtterances(t *testing.T) {
	mock := engines.NewMock("mock", true, nil)
	speaker := tts.NewSpeaker(mock)

	// Normalizes to whitespace only, so nothing reaches the engine.
	speaker.Say(context.Background(), "***")

	if got := mock.Spoken(); len(got) != 0 {
		t.Errorf("spoke %v, want nothing", got)
	}
}

func TestSpeakerSwallowsEngineFailure(t *testing.T) {
	broken := engines.NewMock("broken", true, errors.New("no audio device"))
	speaker := tts.NewSpeaker(broken)

	// Must not panic and must not propagate the failure.
	speaker.Say(context.Background(), "hello")
}
