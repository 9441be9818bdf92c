package api

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServeConfig is the server's environment-driven configuration. The
// OPENAI_* and MODEL names are shared with local runners like LM Studio.
type ServeConfig struct {
	Addr       string `env:"POND_ADDR" envDefault:":8000"`
	Provider   string `env:"POND_PROVIDER" envDefault:"ollama"`
	Model      string `env:"MODEL" envDefault:"llama3.2"`
	OpenAIBase string `env:"OPENAI_BASE"`
	OpenAIKey  string `env:"OPENAI_API_KEY"`
	Verbose    bool   `env:"POND_VERBOSE" envDefault:"false"`
}

// LoadServeConfig reads the server configuration from the environment.
func LoadServeConfig() (ServeConfig, error) {
	var cfg ServeConfig
	if err := env.Parse(&cfg); err != nil {
		return ServeConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
