// Package external holds the outbound clients: the Gemini completion API
// behind the memory assistant and the reply caches in front of it.
package external

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/cognisphere-server/internal/domain"
)

// GeminiClient calls the generateContent REST endpoint
type GeminiClient struct {
	http    *resty.Client
	apiKey  string
	model   string
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewGeminiClient creates a client from the chat configuration. Zero values
// fall back to the defaults of the hosted API.
func NewGeminiClient(config domain.ChatConfig, logger *logrus.Logger) *GeminiClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 5
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(config.BaseURL, "/")).
		SetTimeout(config.Timeout).
		SetRetryCount(config.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &GeminiClient{
		http:    client,
		apiKey:  config.APIKey,
		model:   config.Model,
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		breaker: NewCircuitBreaker("Gemini", DefaultCircuitBreakerConfig(), logger),
		logger:  logger,
	}
}

// Configured reports whether an API key is set.
func (g *GeminiClient) Configured() bool {
	return g.apiKey != ""
}

// Complete sends prompt as a single user turn and returns the first
// candidate's text.
func (g *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !g.Configured() {
		return "", fmt.Errorf("gemini api key not set: %w", domain.ErrChatUnavailable)
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait failed: %w", err)
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.generate(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("gemini circuit open: %w", domain.ErrChatUnavailable)
		}
		return "", err
	}
	return result.(string), nil
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}

	var out generateResponse
	var apiErr geminiError
	resp, err := g.http.R().
		SetContext(ctx).
		SetQueryParam("key", g.apiKey).
		SetBody(body).
		SetResult(&out).
		SetError(&apiErr).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", url.PathEscape(g.model)))
	if err != nil {
		g.logger.WithFields(logrus.Fields{
			"model": g.model,
			"error": err,
		}).Error("Gemini request failed")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	if resp.IsError() {
		g.logger.WithFields(logrus.Fields{
			"model":       g.model,
			"status_code": resp.StatusCode(),
			"message":     apiErr.Error.Message,
		}).Error("Gemini returned an error")
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}

	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := out.Candidates[0].Content.Parts[0].Text
	g.logger.WithFields(logrus.Fields{
		"model":        g.model,
		"reply_length": len(text),
	}).Debug("Gemini reply received")
	return text, nil
}

// BreakerState returns the current circuit breaker state.
func (g *GeminiClient) BreakerState() gobreaker.State {
	return g.breaker.State()
}
