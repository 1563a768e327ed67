package engines

import (
	"context"
	"sync"
)

// Mock is a test engine that records what it was asked to speak.
type Mock struct {
	name      string
	available bool
	err       error

	mu     sync.Mutex
	spoken []string
}

// NewMock creates a mock engine. If err is non-nil every Speak call fails
// with it.
func NewMock(name string, available bool, err error) *Mock {
	return &Mock{name: name, available: available, err: err}
}

// Name implements tts.Engine.
func (m *Mock) Name() string { return m.name }

// Available implements tts.Engine.
func (m *Mock) Available() bool { return m.available }

// Speak records the text, or fails with the configured error.
func (m *Mock) Speak(_ context.Context, text string) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spoken = append(m.spoken, text)
	return nil
}

// Spoken returns everything successfully spoken so far.
func (m *Mock) Spoken() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.spoken...)
}
