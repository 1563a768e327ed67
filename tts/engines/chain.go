// Package engines provides the speech synthesis backends and the chain
// that orders them.
package engines

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/voxcli/vox/tts"
)

// Chain tries a fixed list of engines in order and speaks through the
// first one that works. Availability is re-probed on every utterance, so
// an engine that appears mid-session (a binary installed, the network
// back) gets picked up on the next turn. The list is flat on purpose;
// nothing here tracks failure counts or switches modes.
type Chain struct {
	engines []tts.Engine

	mu     sync.RWMutex
	active string // engine that spoke last, for logs
}

// NewChain builds a chain over the given engines, tried in argument order.
func NewChain(engines ...tts.Engine) *Chain {
	return &Chain{engines: engines}
}

// Name returns the engine that last spoke, or a placeholder before the
// first utterance.
func (c *Chain) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.active != "" {
		return c.active
	}
	return "chain"
}

// Available reports whether any engine in the chain can speak.
func (c *Chain) Available() bool {
	for _, e := range c.engines {
		if e.Available() {
			return true
		}
	}
	return false
}

// Speak tries each engine in order until one speaks the text to
// completion. Unavailable engines are skipped, failures are logged and the
// next engine is tried. The returned error aggregates every failure when
// the whole chain is exhausted.
func (c *Chain) Speak(ctx context.Context, text string) error {
	var failures []error
	tried := 0

	for _, e := range c.engines {
		if !e.Available() {
			log.Debug("engine unavailable, skipping", "engine", e.Name())
			continue
		}
		tried++

		err := e.Speak(ctx, text)
		if err == nil {
			c.mu.Lock()
			c.active = e.Name()
			c.mu.Unlock()
			return nil
		}
		if ctx.Err() != nil {
			// Canceled, not a backend failure. Stop trying.
			return ctx.Err()
		}

		log.Warn("engine failed, trying next", "engine", e.Name(), "error", err)
		failures = append(failures, fmt.Errorf("%s: %w", e.Name(), err))
	}

	if tried == 0 {
		return tts.ErrNoEngineAvailable
	}
	return fmt.Errorf("all %d engines failed: %w", tried, errors.Join(failures...))
}
