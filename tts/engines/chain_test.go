package engines

import (
	"context"
	"errors"
	"testing"

	"github.com/voxcli/vox/tts"
)

func TestChainFirstSuccessWins(t *testing.T) {
	first := NewMock("first", true, nil)
	second := NewMock("second", true, nil)
	chain := NewChain(first, second)

	if err := chain.Speak(context.Background(), "hello"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if got := first.Spoken(); len(got) != 1 || got[0] != "hello" {
		t.Errorf("first engine spoke %v, want [hello]", got)
	}
	if got := second.Spoken(); len(got) != 0 {
		t.Errorf("second engine spoke %v, want nothing", got)
	}
	if chain.Name() != "first" {
		t.Errorf("active engine = %q, want %q", chain.Name(), "first")
	}
}

func TestChainSkipsUnavailable(t *testing.T) {
	offline := NewMock("offline", false, nil)
	online := NewMock("online", true, nil)
	chain := NewChain(offline, online)

	if err := chain.Speak(context.Background(), "hi"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if got := online.Spoken(); len(got) != 1 {
		t.Errorf("online engine spoke %v, want one utterance", got)
	}
}

func TestChainFallsThroughOnFailure(t *testing.T) {
	broken := NewMock("broken", true, errors.New("backend down"))
	working := NewMock("working", true, nil)
	chain := NewChain(broken, working)

	if err := chain.Speak(context.Background(), "hi"); err != nil {
		t.Fatalf("Speak failed: %v", err)
	}
	if got := working.Spoken(); len(got) != 1 {
		t.Errorf("working engine spoke %v, want one utterance", got)
	}
	if chain.Name() != "working" {
		t.Errorf("active engine = %q, want %q", chain.Name(), "working")
	}
}

func TestChainNoEngineAvailable(t *testing.T) {
	chain := NewChain(NewMock("a", false, nil), NewMock("b", false, nil))

	err := chain.Speak(context.Background(), "hi")
	if !errors.Is(err, tts.ErrNoEngineAvailable) {
		t.Fatalf("Speak = %v, want ErrNoEngineAvailable", err)
	}
}

func TestChainAggregatesFailures(t *testing.T) {
	errA := errors.New("a down")
	errB := errors.New("b down")
	chain := NewChain(NewMock("a", true, errA), NewMock("b", true, errB))

	err := chain.Speak(context.Background(), "hi")
	if err == nil {
		t.Fatal("Speak succeeded, want aggregated failure")
	}
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("aggregated error %v should wrap both engine failures", err)
	}
}

func TestChainAvailable(t *testing.T) {
	if NewChain(NewMock("a", false, nil)).Available() {
		t.Error("chain with no available engine reports available")
	}
	if !NewChain(NewMock("a", false, nil), NewMock("b", true, nil)).Available() {
		t.Error("chain with one available engine reports unavailable")
	}
}

func TestChainStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	canceled := NewMock("canceled", true, context.Canceled)
	next := NewMock("next", true, nil)
	chain := NewChain(canceled, next)

	err := chain.Speak(ctx, "hi")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Speak = %v, want context.Canceled", err)
	}
	if got := next.Spoken(); len(got) != 0 {
		t.Errorf("chain tried the next engine after cancellation: %v", got)
	}
}
