package engines

import (
	"context"
	"errors"
	"testing"

	"github.com/voxcli/vox/tts"
)

func TestCommandMissingBinary(t *testing.T) {
	c := &Command{name: "missing", binary: "vox-test-no-such-binary"}

	if c.Available() {
		t.Error("Available() = true for a nonexistent binary")
	}
	if err := c.Speak(context.Background(), "hi"); !errors.Is(err, tts.ErrEngineNotAvailable) {
		t.Errorf("Speak = %v, want ErrEngineNotAvailable", err)
	}
}

func TestCommandEmptyText(t *testing.T) {
	c := NewEspeak()
	if err := c.Speak(context.Background(), ""); !errors.Is(err, tts.ErrEmptyText) {
		t.Errorf("Speak(\"\") = %v, want ErrEmptyText", err)
	}
}

func TestCommandNames(t *testing.T) {
	cases := []struct {
		engine *Command
		want   string
	}{
		{NewEspeak(), "espeak"},
		{NewSay(), "say"},
		{NewSpdSay(), "spd-say"},
	}
	for _, tc := range cases {
		if got := tc.engine.Name(); got != tc.want {
			t.Errorf("Name() = %q, want %q", got, tc.want)
		}
	}
}

func TestDefaultChainOrder(t *testing.T) {
	chain := Default("en", nil)
	want := []string{"gtts", "espeak", "say", "spd-say"}
	if len(chain.engines) != len(want) {
		t.Fatalf("chain has %d engines, want %d", len(chain.engines), len(want))
	}
	for i, name := range want {
		if got := chain.engines[i].Name(); got != name {
			t.Errorf("engine %d = %q, want %q", i, got, name)
		}
	}
}
