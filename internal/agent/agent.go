// Package agent talks to a llama-stack compatible server: it creates an
// agent from the local config, opens a session and exchanges turns. The
// conversational model itself is entirely the server's business.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// ErrEmptyReply means the model returned no content after all retries.
var ErrEmptyReply = errors.New("agent returned an empty reply")

// maxEmptyRetries bounds the retry loop on empty model output.
const maxEmptyRetries = 5

// Client is a thin llama-stack REST client.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given server. baseURL may be empty
// for the default local server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 2 * time.Minute},
	}
}

// ListModels returns the identifiers of the models the server exposes.
// It doubles as the connectivity check on startup.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	var response struct {
		Data []struct {
			Identifier string `json:"identifier"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/models", nil, &response); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	models := make([]string, len(response.Data))
	for i, m := range response.Data {
		models[i] = m.Identifier
	}
	return models, nil
}

// Session is one conversation on the server. Turns share its history.
type Session struct {
	client    *Client
	agentID   string
	sessionID string
}

// NewSession registers an agent with the given config and opens a named
// session on it.
func (c *Client) NewSession(ctx context.Context, cfg Config, name string) (*Session, error) {
	createAgent := map[string]any{
		"agent_config": map[string]any{
			"model":        cfg.Model,
			"instructions": cfg.Instructions,
		},
	}
	var agentResponse struct {
		AgentID string `json:"agent_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/agents", createAgent, &agentResponse); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	createSession := map[string]any{"session_name": name}
	var sessionResponse struct {
		SessionID string `json:"session_id"`
	}
	path := "/v1/agents/" + agentResponse.AgentID + "/session"
	if err := c.do(ctx, http.MethodPost, path, createSession, &sessionResponse); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	log.Debug("agent session created",
		"model", cfg.Model,
		"agent", agentResponse.AgentID,
		"session", sessionResponse.SessionID)
	return &Session{
		client:    c,
		agentID:   agentResponse.AgentID,
		sessionID: sessionResponse.SessionID,
	}, nil
}

// Turn sends one user prompt and returns the assistant's reply. Models
// occasionally return empty content; those turns are retried a few times
// before giving up.
func (s *Session) Turn(ctx context.Context, prompt string) (string, error) {
	request := map[string]any{
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"stream": false,
	}
	path := "/v1/agents/" + s.agentID + "/session/" + s.sessionID + "/turn"

	for attempt := 0; attempt < maxEmptyRetries; attempt++ {
		var response struct {
			OutputMessage struct {
				Content string `json:"content"`
			} `json:"output_message"`
		}
		if err := s.client.do(ctx, http.MethodPost, path, request, &response); err != nil {
			return "", fmt.Errorf("turn: %w", err)
		}
		if response.OutputMessage.Content != "" {
			return response.OutputMessage.Content, nil
		}
		log.Warn("empty response, retrying", "attempt", attempt+1)
	}
	return "", ErrEmptyReply
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, path, response.Status, bytes.TrimSpace(detail))
	}
	return json.NewDecoder(response.Body).Decode(out)
}
