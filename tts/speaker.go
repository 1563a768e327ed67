package tts

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/voxcli/vox/speech"
)

// Speaker normalizes assistant text and hands it to an engine. Speech is a
// side effect of the conversation: a turn whose audio fails has still
// printed its reply, so Say logs failures and never returns one.
type Speaker struct {
	engine Engine
}

// NewSpeaker creates a Speaker on top of an engine, usually a Chain.
func NewSpeaker(engine Engine) *Speaker {
	return &Speaker{engine: engine}
}

// Say normalizes text for speech and speaks it, blocking until playback
// finishes or ctx is canceled.
func (s *Speaker) Say(ctx context.Context, text string) {
	spoken := speech.Normalize(text)
	if strings.TrimSpace(spoken) == "" {
		return
	}

	start := time.Now()
	if err := s.engine.Speak(ctx, spoken); err != nil {
		log.Error("speech failed, continuing without audio",
			"engine", s.engine.Name(),
			"error", err)
		return
	}
	log.Debug("utterance spoken",
		"engine", s.engine.Name(),
		"chars", len(spoken),
		"took", time.Since(start))
}
