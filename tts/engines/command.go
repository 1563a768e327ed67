package engines

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/voxcli/vox/tts"
)

// Command wraps a CLI utility that synthesizes and plays audio itself, so
// no PCM ever passes through this process. These are the offline fallbacks
// behind the networked primary engine.
type Command struct {
	name   string
	binary string
	args   []string // fixed args placed before the text
}

// NewEspeak returns the espeak fallback engine.
func NewEspeak() *Command {
	return &Command{name: "espeak", binary: "espeak"}
}

// NewSay returns the macOS say fallback engine.
func NewSay() *Command {
	return &Command{name: "say", binary: "say"}
}

// NewSpdSay returns the speech-dispatcher fallback engine. The --wait flag
// keeps Speak blocking until playback finishes, matching the others.
func NewSpdSay() *Command {
	return &Command{name: "spd-say", binary: "spd-say", args: []string{"--wait"}}
}

// Name implements tts.Engine.
func (c *Command) Name() string { return c.name }

// Available reports whether the binary is on PATH.
func (c *Command) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Speak runs the utility with the text as its final argument and blocks
// until it exits, which is when the audio has finished.
func (c *Command) Speak(ctx context.Context, text string) error {
	if strings.TrimSpace(text) == "" {
		return tts.ErrEmptyText
	}
	binary, err := exec.LookPath(c.binary)
	if err != nil {
		return tts.ErrEngineNotAvailable
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, append(append([]string{}, c.args...), text)...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %s: %v: %s", tts.ErrSynthesisFailed, c.name, err, stderr.String())
	}
	return nil
}
