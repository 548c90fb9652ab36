package config

import (
	"os"
	"strconv"
)

// AIConfig holds the generative-language settings
type AIConfig struct {
	APIKey  string `json:"-"` // Never serialize
	BaseURL string `json:"baseUrl,omitempty"`

	// Model generates the resonance reading
	Model string `json:"model"`

	// TimeoutMS bounds the call; 0 leaves it unbounded
	TimeoutMS int `json:"timeoutMs"`
}

// apiKeyEnv lists the variables checked for a key, first match wins
var apiKeyEnv = []string{"API_KEY", "GEMINI_API_KEY", "GEMMA_API_KEY"}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    firstEnv(apiKeyEnv...),
		BaseURL:   os.Getenv("GEMINI_BASE_URL"),
		Model:     getEnvOrDefault("GEMINI_MODEL_RESONANCE", "gemma-3-12b-it"),
		TimeoutMS: getEnvInt("AI_TIMEOUT_MS", 0),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return defaultValue
	}
	return n
}
