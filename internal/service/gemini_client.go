package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quantumconnections/internal/config"

	"google.golang.org/genai"
)

// ErrEmptyResponse is returned when the model answers without text.
var ErrEmptyResponse = errors.New("empty response from model")

// Generator produces text for a prompt. GeminiClient is the production one.
type Generator interface {
	GenerateText(ctx context.Context, model, prompt string) (string, error)
}

// GeminiClient calls the Gemini API through the genai SDK
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a client for the configured key and endpoint
func NewGeminiClient(ctx context.Context, cfg *config.AIConfig) (*GeminiClient, error) {
	if !cfg.IsEnabled() {
		return nil, fmt.Errorf("gemini: API key is required")
	}

	httpClient := &http.Client{}
	if cfg.TimeoutMS > 0 {
		httpClient.Timeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// GenerateText sends one GenerateContent request and returns the text parts
func (c *GeminiClient) GenerateText(ctx context.Context, model, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
