package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/pkg/logger"

	"golang.org/x/time/rate"
)

type groqAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
}

// NewGroqAIRepository creates an AIRepository backed by the Groq
// chat-completion API. A missing API key is a configuration error and is
// reported here, before any network call.
func NewGroqAIRepository(cfg *config.Config, log *logger.Logger) (AIRepository, error) {
	if cfg.Groq.APIKey == "" {
		return nil, fmt.Errorf("groq api key is not configured")
	}

	secondsPerRequest := time.Minute / time.Duration(cfg.Groq.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &groqAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
	}, nil
}

// GenerateMarketThesis renders the analysis prompt, calls Groq with bounded
// retries, and normalizes the reply. Only exhausted retries surface as an
// error; malformed model output degrades inside ParseMarketThesis.
func (r *groqAIRepository) GenerateMarketThesis(ctx context.Context, products []dto.Product, competitorName, lang string) (*dto.MarketThesis, error) {
	prompt := BuildAnalysisPrompt(products, competitorName, lang)
	systemPrompt := SystemPromptForLanguage(lang)

	r.logger.Info("Requesting market thesis",
		logger.StringField("competitor", competitorName),
		logger.IntField("products", len(products)),
	)

	raw, err := completeWithRetry(ctx, r.logger, r.cfg.Groq.MaxAttempts, r.cfg.Groq.RetryBackoff, func(ctx context.Context) (string, error) {
		return r.sendRequest(ctx, systemPrompt, prompt)
	})
	if err != nil {
		return nil, err
	}

	return dto.ParseMarketThesis(raw, products), nil
}

func (r *groqAIRepository) sendRequest(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	payload := dto.ChatCompletionRequest{
		Model: r.cfg.Groq.Model,
		Messages: []dto.ChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: r.cfg.Groq.Temperature,
		MaxTokens:   r.cfg.Groq.MaxTokens,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.Groq.BaseURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", r.cfg.Groq.APIKey))

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request to Groq API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-OK response from Groq API: %d - %s", resp.StatusCode, string(body))
	}

	var completion dto.ChatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("no content found in Groq response")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
