package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-shopify-warroom/internal/config"
	"golang-shopify-warroom/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroqTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Groq: config.Groq{
			APIKey:              "test-key",
			BaseURL:             baseURL,
			Model:               "test-model",
			Temperature:         0.1,
			MaxTokens:           100,
			MaxAttempts:         3,
			RetryBackoff:        5 * time.Millisecond,
			MaxRequestPerMinute: 6000,
		},
	}
}

func completionBody(content string) []byte {
	body, _ := json.Marshal(dto.ChatCompletionResponse{
		Choices: []dto.ChatChoice{{Message: dto.ChatMessage{Role: "assistant", Content: content}}},
	})
	return body
}

func TestNewGroqAIRepository_MissingAPIKey(t *testing.T) {
	cfg := newGroqTestConfig("http://localhost")
	cfg.Groq.APIKey = ""

	_, err := NewGroqAIRepository(cfg, newTestLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestGenerateMarketThesis_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_, _ = w.Write(completionBody(`{"market_bias":"AGGRESSIVE","sentiment_score":80}`))
	}))
	defer srv.Close()

	repo, err := NewGroqAIRepository(newGroqTestConfig(srv.URL), newTestLogger())
	require.NoError(t, err)

	thesis, err := repo.GenerateMarketThesis(context.Background(), []dto.Product{{Name: "Widget", Price: 10}}, "Acme", "en")
	require.NoError(t, err)
	assert.Equal(t, "AGGRESSIVE", thesis.MarketBias)
	assert.Equal(t, 80, thesis.SentimentScore)
	assert.False(t, thesis.Degraded)
}

func TestGenerateMarketThesis_RetriesThenSucceeds(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(completionBody(`{"market_bias":"NEUTRAL","sentiment_score":50}`))
	}))
	defer srv.Close()

	repo, err := NewGroqAIRepository(newGroqTestConfig(srv.URL), newTestLogger())
	require.NoError(t, err)

	thesis, err := repo.GenerateMarketThesis(context.Background(), nil, "Acme", "en")
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, "NEUTRAL", thesis.MarketBias)
}

func TestGenerateMarketThesis_ExhaustedRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo, err := NewGroqAIRepository(newGroqTestConfig(srv.URL), newTestLogger())
	require.NoError(t, err)

	_, err = repo.GenerateMarketThesis(context.Background(), nil, "Acme", "en")
	require.Error(t, err)
	assert.Equal(t, 3, calls)

	var svcErr *dto.ReasoningServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, 3, svcErr.Attempts)
}

func TestGenerateMarketThesis_GarbageReplyDegrades(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(completionBody("As an AI model I think prices look fine."))
	}))
	defer srv.Close()

	repo, err := NewGroqAIRepository(newGroqTestConfig(srv.URL), newTestLogger())
	require.NoError(t, err)

	thesis, err := repo.GenerateMarketThesis(context.Background(), []dto.Product{{Name: "Widget"}}, "Acme", "en")
	require.NoError(t, err)
	assert.True(t, thesis.Degraded)
	assert.Equal(t, "As an AI model I think prices look fine.", thesis.RawAnalysis)
}

func TestGenerateMarketThesis_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	cfg := newGroqTestConfig(srv.URL)
	cfg.Groq.MaxAttempts = 1
	repo, err := NewGroqAIRepository(cfg, newTestLogger())
	require.NoError(t, err)

	_, err = repo.GenerateMarketThesis(context.Background(), nil, "Acme", "en")
	require.Error(t, err)
}
