package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/pkg/logger"
)

const openRouterEndpoint = "https://openrouter.ai/api/v1/chat/completions"

type openRouterRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewOpenRouterRepository creates an AIRepository backed by the OpenRouter
// API.
func NewOpenRouterRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	if cfg.OpenRouter.APIKey == "" {
		return nil, fmt.Errorf("openrouter api key is not configured")
	}

	return &openRouterRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:    cfg,
		logger: log,
	}, nil
}

// GenerateMarketThesis renders the analysis prompt, calls OpenRouter with
// bounded retries, and normalizes the reply.
func (r *openRouterRepository) GenerateMarketThesis(ctx context.Context, products []dto.Product, competitorName, lang string) (*dto.MarketThesis, error) {
	prompt := BuildAnalysisPrompt(products, competitorName, lang)
	systemPrompt := SystemPromptForLanguage(lang)

	raw, err := completeWithRetry(ctx, r.logger, r.cfg.OpenRouter.MaxAttempts, r.cfg.OpenRouter.RetryBackoff, func(ctx context.Context) (string, error) {
		return r.sendRequest(ctx, systemPrompt, prompt)
	})
	if err != nil {
		return nil, err
	}

	return dto.ParseMarketThesis(raw, products), nil
}

func (r *openRouterRepository) sendRequest(ctx context.Context, systemPrompt, prompt string) (string, error) {
	payload := dto.ChatCompletionRequest{
		Model: r.cfg.OpenRouter.Model,
		Messages: []dto.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: r.cfg.OpenRouter.Temperature,
		MaxTokens:   r.cfg.OpenRouter.MaxTokens,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openRouterEndpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.cfg.OpenRouter.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("received non-OK response from OpenRouter: %d", resp.StatusCode)
	}

	var completion dto.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode OpenRouter response: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("received empty choices from OpenRouter")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
