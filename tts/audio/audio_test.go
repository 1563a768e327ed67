package audio

import (
	"errors"
	"testing"
	"time"
)

func TestValidatePCM(t *testing.T) {
	if err := ValidatePCM(nil); !errors.Is(err, ErrEmptyAudio) {
		t.Errorf("ValidatePCM(nil) = %v, want ErrEmptyAudio", err)
	}
	if err := ValidatePCM([]byte{0x00}); err == nil {
		t.Error("ValidatePCM with odd length should fail")
	}
	if err := ValidatePCM([]byte{0x00, 0x00}); err != nil {
		t.Errorf("ValidatePCM with aligned data failed: %v", err)
	}
}

func TestDuration(t *testing.T) {
	// One second of 16-bit mono audio at the package sample rate.
	pcm := make([]byte, SampleRate*BytesPerSample)
	if got := Duration(pcm); got != time.Second {
		t.Errorf("Duration = %v, want 1s", got)
	}
	if got := Duration(nil); got != 0 {
		t.Errorf("Duration(nil) = %v, want 0", got)
	}
}
