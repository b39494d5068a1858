package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"
	"golang-shopify-warroom/pkg/logger"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates an AIRepository backed by the Google Gemini
// API.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// GenerateMarketThesis renders the analysis prompt, calls Gemini with bounded
// retries, and normalizes the reply.
func (r *geminiAIRepository) GenerateMarketThesis(ctx context.Context, products []dto.Product, competitorName, lang string) (*dto.MarketThesis, error) {
	prompt := BuildAnalysisPrompt(products, competitorName, lang)
	systemPrompt := SystemPromptForLanguage(lang)

	r.logger.Info("Requesting market thesis",
		logger.StringField("competitor", competitorName),
		logger.IntField("products", len(products)),
	)

	raw, err := completeWithRetry(ctx, r.logger, r.cfg.Gemini.MaxAttempts, r.cfg.Gemini.RetryBackoff, func(ctx context.Context) (string, error) {
		return r.sendRequest(ctx, systemPrompt, prompt)
	})
	if err != nil {
		return nil, err
	}

	return dto.ParseMarketThesis(raw, products), nil
}

func (r *geminiAIRepository) sendRequest(ctx context.Context, systemPrompt, prompt string) (string, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("failed to wait for request limit: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, "system"),
		Temperature:       genai.Ptr(float32(r.cfg.Gemini.Temperature)),
		MaxOutputTokens:   int32(r.cfg.Gemini.MaxTokens),
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, genCfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content from Gemini API: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no content found in Gemini response")
	}

	return text, nil
}
