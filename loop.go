package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/voxcli/vox/internal/agent"
	"github.com/voxcli/vox/internal/listen"
	"github.com/voxcli/vox/internal/status"
	"github.com/voxcli/vox/tts"
)

// exitWords end the voice loop when heard on their own.
var exitWords = map[string]bool{
	"quit":      true,
	"exit":      true,
	"stop":      true,
	"goodbye":   true,
	"bye":       true,
	"thank you": true,
}

// newListener picks the microphone when a capture tool exists, otherwise
// typed input.
func newListener() listen.Listener {
	recorder, err := listen.NewRecorder()
	if err != nil {
		fmt.Fprintln(os.Stderr, "No working microphone found, reading from stdin.")
		return listen.NewStdin(os.Stdin)
	}
	recognizer := listen.NewGoogleRecognizer(
		viper.GetString("recognizer.endpoint"),
		viper.GetString("recognizer.key"),
		viper.GetString("recognizer.language"),
	)
	return listen.NewMic(recorder, recognizer)
}

// voiceLoop reads utterances and hands them to process until an exit word,
// EOF or cancellation ends the conversation.
func voiceLoop(ctx context.Context, listener listen.Listener, speaker *tts.Speaker, welcome string, process func(context.Context, string) error) error {
	line := status.New()
	fmt.Fprintln(os.Stderr, welcome)

	for {
		line.Show("Listening... 🎤")
		text, err := listener.Listen(ctx)
		line.Clear()

		switch {
		case err == nil:
		case errors.Is(err, listen.ErrNoSpeech):
			fmt.Fprintln(os.Stderr, "Could not understand audio.")
			continue
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			return nil
		default:
			fmt.Fprintf(os.Stderr, "Speech recognition error: %v\n", err)
			continue
		}

		if exitWords[strings.ToLower(strings.TrimSpace(text))] {
			fmt.Println("Goodbye")
			fmt.Println()
			speaker.Say(ctx, "Goodbye")
			return nil
		}

		if err := process(ctx, text); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
}

// printInput echoes the recognized utterance back to the user.
func printInput(text string) {
	fmt.Println(italic(text))
	fmt.Println()
}

// runEchoLoop speaks back whatever was heard. Useful for testing the
// audio path without a model server.
func runEchoLoop(ctx context.Context, speaker *tts.Speaker) error {
	return voiceLoop(ctx, newListener(), speaker,
		"Echo mode: Say something and I'll repeat it back. Say 'quit' to exit.",
		func(ctx context.Context, text string) error {
			printInput(text)
			speaker.Say(ctx, text)
			return nil
		})
}

// conversation owns the agent session and recreates it when the agent
// config changes on disk.
type conversation struct {
	client   *agent.Client
	speaker  *tts.Speaker
	renderer interface{ Render(string) (string, error) }
	line     *status.Line

	mu      sync.Mutex
	cfg     agent.Config
	session *agent.Session
	stale   bool
}

// configChanged marks the session for recreation on the next prompt.
func (c *conversation) configChanged(cfg agent.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.stale = true
}

func (c *conversation) currentSession(ctx context.Context) (*agent.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil && !c.stale {
		return c.session, nil
	}
	session, err := c.client.NewSession(ctx, c.cfg, "vox")
	if err != nil {
		return nil, err
	}
	c.session = session
	c.stale = false
	return session, nil
}

// prompt sends one utterance through the agent and speaks the reply.
func (c *conversation) prompt(ctx context.Context, text string) error {
	printInput(text)

	session, err := c.currentSession(ctx)
	if err != nil {
		return err
	}

	c.line.Show("Thinking... ⚙️")
	reply, err := session.Turn(ctx, text)
	c.line.Clear()
	if err != nil {
		return err
	}

	rendered, err := c.renderer.Render(reply)
	if err != nil {
		rendered = reply + "\n"
	}
	fmt.Print(rendered)
	fmt.Println()

	c.speaker.Say(ctx, reply)
	return nil
}

// runAgentMode connects to the model server and runs either the
// connectivity check (--hi) or the full voice loop.
func runAgentMode(ctx context.Context, speaker *tts.Speaker, connectivityCheck bool) error {
	line := status.New()

	client := agent.NewClient(viper.GetString("agent.url"))
	line.Show("Connecting...")
	models, err := client.ListModels(ctx)
	line.Clear()
	if err != nil {
		return fmt.Errorf("cannot reach model server: %w", err)
	}
	log.Debug("connected to model server", "models", strings.Join(models, " "))

	agentConfigPath := viper.GetString("agent.config")
	cfg, err := agent.LoadConfig(agentConfigPath)
	if err != nil {
		log.Warn("using default agent config", "error", err)
	}

	renderer, err := newRenderer()
	if err != nil {
		return fmt.Errorf("unable to create renderer: %w", err)
	}

	conv := &conversation{
		client:   client,
		speaker:  speaker,
		renderer: renderer,
		line:     line,
		cfg:      cfg,
	}

	watcher, err := agent.WatchConfig(agentConfigPath, conv.configChanged)
	if err != nil {
		log.Debug("agent config not watched", "error", err)
	} else {
		defer watcher.Close() //nolint:errcheck
	}

	if connectivityCheck {
		if err := conv.prompt(ctx, "hi"); err != nil {
			return err
		}
		return conv.prompt(ctx, "hi")
	}

	return voiceLoop(ctx, newListener(), speaker,
		"Say 'thank you', 'exit' or 'quit' to stop.",
		conv.prompt)
}
