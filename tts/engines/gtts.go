package engines

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/voxcli/vox/tts"
	"github.com/voxcli/vox/tts/audio"
)

// subprocessTimeout bounds each synthesis subprocess. gtts-cli needs the
// network, so a hung call usually means connectivity trouble.
const subprocessTimeout = 10 * time.Second

// Cache stores synthesized PCM keyed by utterance hash so repeated phrases
// skip the network round trip.
type Cache interface {
	Get(key string) ([]byte, bool)
	Put(key string, pcm []byte)
}

// GTTS synthesizes through Google Translate speech: gtts-cli produces an
// MP3 and ffmpeg decodes it to the PCM format the player expects. This is
// the primary engine; it needs both binaries and a network connection.
type GTTS struct {
	language string
	cache    Cache
	tempDir  string

	// play is swapped out in tests.
	play func(ctx context.Context, pcm []byte) error

	mu           sync.Mutex
	gttsBinary   string
	ffmpegBinary string
}

// NewGTTS creates the Google TTS engine. cache may be nil to disable
// caching. Binary detection is deferred to the first Available probe.
func NewGTTS(language string, cache Cache) *GTTS {
	if language == "" {
		language = "en"
	}
	return &GTTS{
		language: language,
		cache:    cache,
		tempDir:  filepath.Join(os.TempDir(), "vox-gtts"),
		play:     playDefault,
	}
}

func playDefault(ctx context.Context, pcm []byte) error {
	player, err := audio.Default()
	if err != nil {
		return fmt.Errorf("audio device: %w", err)
	}
	return player.Play(ctx, pcm)
}

// Name implements tts.Engine.
func (e *GTTS) Name() string { return "gtts" }

// Available reports whether both gtts-cli and ffmpeg can be found. The
// probe re-runs each utterance; found paths are remembered but re-statted
// so an uninstalled binary drops the engine out of the chain.
func (e *GTTS) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.gttsBinary != "" && e.ffmpegBinary != "" {
		if _, err := os.Stat(e.gttsBinary); err == nil {
			if _, err := os.Stat(e.ffmpegBinary); err == nil {
				return true
			}
		}
		e.gttsBinary = ""
		e.ffmpegBinary = ""
	}

	gtts := findBinary("gtts-cli",
		"/usr/local/bin/gtts-cli",
		"/usr/bin/gtts-cli",
		filepath.Join(os.Getenv("HOME"), ".local", "bin", "gtts-cli"),
	)
	if gtts == "" {
		return false
	}
	ffmpeg := findBinary("ffmpeg",
		"/usr/local/bin/ffmpeg",
		"/usr/bin/ffmpeg",
		"/opt/homebrew/bin/ffmpeg",
	)
	if ffmpeg == "" {
		return false
	}

	e.gttsBinary = gtts
	e.ffmpegBinary = ffmpeg
	log.Debug("gtts ready", "gtts", gtts, "ffmpeg", ffmpeg)
	return true
}

// findBinary resolves name via PATH, then falls back to candidate
// locations pip and homebrew like to use without touching PATH.
func findBinary(name string, candidates ...string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// Speak synthesizes text and plays it to completion.
func (e *GTTS) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return tts.ErrEmptyText
	}
	if !e.Available() {
		return tts.ErrEngineNotAvailable
	}

	key := synthKey(e.Name(), e.language, text)
	pcm, cached := e.cachedPCM(key)
	if !cached {
		var err error
		pcm, err = e.synthesize(ctx, text)
		if err != nil {
			return err
		}
		if e.cache != nil {
			e.cache.Put(key, pcm)
		}
	}

	log.Debug("playing utterance",
		"engine", e.Name(),
		"cached", cached,
		"duration", audio.Duration(pcm))
	return e.play(ctx, pcm)
}

func (e *GTTS) cachedPCM(key string) ([]byte, bool) {
	if e.cache == nil {
		return nil, false
	}
	return e.cache.Get(key)
}

// synthKey identifies an utterance for caching. Engine and language are
// part of the key so a config change never replays stale audio.
func synthKey(engine, language, text string) string {
	sum := sha256.Sum256([]byte(engine + "|" + language + "|" + text))
	return hex.EncodeToString(sum[:])
}

// synthesize runs the gtts-cli then ffmpeg pipeline and returns raw PCM.
func (e *GTTS) synthesize(ctx context.Context, text string) ([]byte, error) {
	e.mu.Lock()
	gttsBinary, ffmpegBinary := e.gttsBinary, e.ffmpegBinary
	e.mu.Unlock()

	if err := os.MkdirAll(e.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	mp3File := filepath.Join(e.tempDir, fmt.Sprintf("gtts_%d.mp3", time.Now().UnixNano()))
	defer os.Remove(mp3File)

	gttsCtx, cancel := context.WithTimeout(ctx, subprocessTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(gttsCtx, gttsBinary, text, "--output", mp3File, "--lang", e.language)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if gttsCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: gtts-cli timed out (network issue?)", tts.ErrSynthesisFailed)
		}
		return nil, fmt.Errorf("%w: gtts-cli: %v: %s", tts.ErrSynthesisFailed, err, stderr.String())
	}

	ffmpegCtx, cancel := context.WithTimeout(ctx, subprocessTimeout)
	defer cancel()

	// Decode to the player's format: 16-bit signed LE, mono, 22050 Hz.
	var pcmBuffer, ffmpegStderr bytes.Buffer
	ffmpegCmd := exec.CommandContext(ffmpegCtx, ffmpegBinary,
		"-i", mp3File,
		"-f", "s16le",
		"-ar", fmt.Sprint(audio.SampleRate),
		"-ac", fmt.Sprint(audio.Channels),
		"-",
	)
	ffmpegCmd.Stdout = &pcmBuffer
	ffmpegCmd.Stderr = &ffmpegStderr
	if err := ffmpegCmd.Run(); err != nil {
		if ffmpegCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: ffmpeg timed out", tts.ErrSynthesisFailed)
		}
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", tts.ErrSynthesisFailed, err, ffmpegStderr.String())
	}

	pcm := pcmBuffer.Bytes()
	if err := audio.ValidatePCM(pcm); err != nil {
		return nil, fmt.Errorf("%w: %v", tts.ErrSynthesisFailed, err)
	}
	return pcm, nil
}
