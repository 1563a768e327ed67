package listen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Capture format: 16-bit mono at 16 kHz, which is what the recognizer
// expects.
const captureRate = 16000

// maxClipSeconds bounds a single capture so a noisy room cannot record
// forever.
const maxClipSeconds = 15

// captureTool describes one way of recording a WAV clip from the default
// microphone.
type captureTool struct {
	name string
	args func(outFile string) []string
}

// captureTools are probed in order. arecord is the ALSA default on Linux;
// sox and rec can stop early on trailing silence.
var captureTools = []captureTool{
	{"arecord", func(out string) []string {
		return []string{
			"-q",
			"-f", "S16_LE",
			"-r", strconv.Itoa(captureRate),
			"-c", "1",
			"-d", strconv.Itoa(maxClipSeconds),
			out,
		}
	}},
	{"sox", func(out string) []string {
		return []string{
			"-q", "-d",
			"-r", strconv.Itoa(captureRate),
			"-c", "1", "-b", "16",
			out,
			"trim", "0", strconv.Itoa(maxClipSeconds),
			"silence", "1", "0.1", "3%", "1", "2.0", "3%",
		}
	}},
	{"rec", func(out string) []string {
		return []string{
			"-q",
			"-r", strconv.Itoa(captureRate),
			"-c", "1", "-b", "16",
			out,
			"trim", "0", strconv.Itoa(maxClipSeconds),
			"silence", "1", "0.1", "3%", "1", "2.0", "3%",
		}
	}},
}

// Recorder captures WAV clips by shelling out to whichever capture tool is
// installed.
type Recorder struct {
	binary string
	args   func(outFile string) []string
}

// NewRecorder probes the capture tools in order and returns a recorder
// bound to the first one found.
func NewRecorder() (*Recorder, error) {
	for _, tool := range captureTools {
		path, err := exec.LookPath(tool.name)
		if err != nil {
			continue
		}
		log.Debug("using capture tool", "tool", tool.name, "path", path)
		return &Recorder{binary: path, args: tool.args}, nil
	}
	return nil, ErrNoMicrophone
}

// Record captures one clip and returns the WAV bytes.
func (r *Recorder) Record(ctx context.Context) ([]byte, error) {
	outFile := filepath.Join(os.TempDir(), fmt.Sprintf("vox_clip_%d.wav", time.Now().UnixNano()))
	defer os.Remove(outFile)

	clipCtx, cancel := context.WithTimeout(ctx, (maxClipSeconds+5)*time.Second)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(clipCtx, r.binary, r.args(outFile)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("audio capture failed: %w: %s", err, stderr.String())
	}

	wav, err := os.ReadFile(outFile)
	if err != nil {
		return nil, fmt.Errorf("read captured clip: %w", err)
	}
	return wav, nil
}
