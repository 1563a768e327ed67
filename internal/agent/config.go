package agent

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default agent settings used when no config file exists.
const (
	DefaultBaseURL      = "http://localhost:8321"
	DefaultModel        = "gemini/gemini-2.5-flash"
	DefaultInstructions = "You are speaking assistant."
)

// Config describes the agent created on the llama-stack server.
type Config struct {
	Model        string `yaml:"model"`
	Instructions string `yaml:"instructions"`
}

// configFile is the on-disk shape. The settings may sit under an
// agent_config key or at the top level.
type configFile struct {
	AgentConfig *Config `yaml:"agent_config"`
	Config      `yaml:",inline"`
}

// DefaultConfig returns the built-in agent settings.
func DefaultConfig() Config {
	return Config{
		Model:        DefaultModel,
		Instructions: DefaultInstructions,
	}
}

// LoadConfig reads an agent config file. A missing file is not an error;
// the defaults come back instead.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("read agent config: %w", err)
	}

	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return DefaultConfig(), fmt.Errorf("parse agent config: %w", err)
	}

	cfg := file.Config
	if file.AgentConfig != nil {
		cfg = *file.AgentConfig
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Instructions == "" {
		cfg.Instructions = DefaultInstructions
	}
	return cfg, nil
}
