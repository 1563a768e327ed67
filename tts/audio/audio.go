// Package audio plays synthesized PCM speech through the system audio
// device. The oto context can be created only once per process, so the
// package exposes a shared Player behind a sync.Once.
package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Audio format produced by the synthesis engines.
const (
	// SampleRate is the audio sample rate in Hz.
	SampleRate = 22050
	// Channels is the number of audio channels (1 = mono).
	Channels = 1
	// BitDepth is the bit depth per sample.
	BitDepth = 16
	// BytesPerSample is the number of bytes per sample frame.
	BytesPerSample = BitDepth / 8 * Channels
)

// Format is the oto sample format matching the constants above.
const Format = oto.FormatSignedInt16LE

// ErrEmptyAudio is returned when a zero-length PCM buffer is played.
var ErrEmptyAudio = errors.New("empty audio data")

var (
	defaultPlayer *Player
	playerOnce    sync.Once
	playerErr     error
)

// Default returns the process-wide player, initializing the audio device
// on first use.
func Default() (*Player, error) {
	playerOnce.Do(func() {
		defaultPlayer, playerErr = newPlayer()
	})
	return defaultPlayer, playerErr
}

// Player owns the oto audio context. Playback is serialized: a voice loop
// speaks one utterance at a time, and overlapping speech is never wanted.
type Player struct {
	context *oto.Context
	mu      sync.Mutex
}

func newPlayer() (*Player, error) {
	options := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: Channels,
		Format:       Format,
	}

	// Platform-specific buffer size adjustments
	switch runtime.GOOS {
	case "darwin":
		// macOS benefits from larger buffers
		options.BufferSize = time.Millisecond * 100
	default:
		options.BufferSize = time.Millisecond * 50
	}

	context, readyChan, err := oto.NewContext(options)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio context: %w", err)
	}

	// Wait for the device to be ready before first playback
	<-readyChan

	return &Player{context: context}, nil
}

// ValidatePCM checks that a buffer is playable: non-empty and aligned to
// whole sample frames.
func ValidatePCM(pcm []byte) error {
	if len(pcm) == 0 {
		return ErrEmptyAudio
	}
	if len(pcm)%BytesPerSample != 0 {
		return fmt.Errorf("invalid PCM data length: %d bytes (not aligned to %d-byte samples)",
			len(pcm), BytesPerSample)
	}
	return nil
}

// Duration returns the playing time of a PCM buffer.
func Duration(pcm []byte) time.Duration {
	samples := len(pcm) / BytesPerSample
	return time.Duration(samples) * time.Second / SampleRate
}

// Play plays a PCM buffer and returns once playback has finished or ctx is
// canceled. A second caller blocks until the first utterance completes.
func (p *Player) Play(ctx context.Context, pcm []byte) error {
	if err := ValidatePCM(pcm); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	player := p.context.NewPlayer(bytes.NewReader(pcm))
	defer player.Close()

	player.Play()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
