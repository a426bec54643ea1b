package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/arogyavritti/backend/internal/domain/entities"
	"github.com/arogyavritti/backend/internal/domain/providers"
	"github.com/arogyavritti/backend/pkg/config"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements the assistant ChatProvider on the OpenAI Responses API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	limiter    *tokenBucket
}

// NewClient creates a new OpenAI client.
func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	return NewClientWithOptions(cfg, defaultBaseURL, &http.Client{Timeout: 30 * time.Second})
}

// NewClientWithOptions allows overriding the API base URL and HTTP client (used for tests).
func NewClientWithOptions(cfg *config.OpenAIConfig, baseURL string, httpClient *http.Client) (*Client, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		apiKey:     cfg.APIKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		limiter:    newTokenBucket(cfg.RateLimitRPM, cfg.RateLimitBurst),
	}, nil
}

type responseContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responseOutput struct {
	Content []responseContent `json:"content"`
}

type responseEnvelope struct {
	Output []responseOutput `json:"output"`
}

type inputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply sends the system prompt, prior turns and the new message and returns
// the model's text answer.
func (c *Client) Reply(ctx context.Context, systemPrompt string, history []entities.ChatMessage, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("message is required")
	}

	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			recordOpenAIMetric(ctx, c.model, 0, 0, err)
			return "", err
		}
		recordOpenAIRateLimitWait(ctx, c.model, time.Since(waitStart))
	}

	input := make([]inputMessage, 0, len(history)+2)
	if systemPrompt != "" {
		input = append(input, inputMessage{Role: "system", Content: systemPrompt})
	}
	for _, turn := range history {
		role := "user"
		if turn.Role == entities.ChatRoleDoctor {
			role = "assistant"
		}
		input = append(input, inputMessage{Role: role, Content: turn.Content})
	}
	input = append(input, inputMessage{Role: "user", Content: message})

	payload := map[string]interface{}{
		"model":             c.model,
		"input":             input,
		"temperature":       0.4,
		"max_output_tokens": 800,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		recordOpenAIMetric(ctx, c.model, 0, time.Since(start), err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		recordOpenAIMetric(ctx, c.model, resp.StatusCode, time.Since(start), fmt.Errorf("status %d", resp.StatusCode))
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: openai request failed with status %d", providers.ErrChatUnauthorized, resp.StatusCode)
		}
		return "", fmt.Errorf("openai request failed with status %d", resp.StatusCode)
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		recordOpenAIMetric(ctx, c.model, resp.StatusCode, time.Since(start), err)
		return "", err
	}

	text := outputText(envelope)
	if text == "" {
		recordOpenAIMetric(ctx, c.model, resp.StatusCode, time.Since(start), errors.New("missing output text"))
		return "", errors.New("openai response missing output text")
	}

	recordOpenAIMetric(ctx, c.model, resp.StatusCode, time.Since(start), nil)
	return text, nil
}

func outputText(envelope responseEnvelope) string {
	var parts []string
	for _, out := range envelope.Output {
		for _, content := range out.Content {
			if content.Type == "output_text" && content.Text != "" {
				parts = append(parts, content.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func newTokenBucket(rpm int, burst int) *tokenBucket {
	if rpm == 0 {
		rpm = 60
	}
	if rpm < 0 {
		return nil
	}
	if burst <= 0 {
		burst = 5
	}
	return newTokenBucketWithRate(rpm, burst)
}

type tokenBucket struct {
	tokens chan struct{}
}

func newTokenBucketWithRate(rpm int, burst int) *tokenBucket {
	bucket := &tokenBucket{
		tokens: make(chan struct{}, burst),
	}

	for i := 0; i < burst; i++ {
		bucket.tokens <- struct{}{}
	}

	interval := time.Minute / time.Duration(rpm)
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	go func() {
		for range ticker.C {
			select {
			case bucket.tokens <- struct{}{}:
			default:
			}
		}
	}()

	return bucket
}

func (b *tokenBucket) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.tokens:
		return nil
	}
}

type openAIMetrics struct {
	requestCount    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
	rateLimitWait   metric.Float64Histogram
}

var (
	openaiMetricsOnce sync.Once
	openaiMetricsInit bool
	openaiMetrics     openAIMetrics
)

func ensureOpenAIMetrics() {
	openaiMetricsOnce.Do(initOpenAIMetrics)
}

func initOpenAIMetrics() {
	meter := otel.Meter("github.com/arogyavritti/backend/openai")

	requestCount, err := meter.Int64Counter(
		"ai.openai.request.count",
		metric.WithDescription("Number of OpenAI requests"),
	)
	if err != nil {
		return
	}
	requestDuration, err := meter.Float64Histogram(
		"ai.openai.request.duration",
		metric.WithDescription("OpenAI request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}
	requestErrors, err := meter.Int64Counter(
		"ai.openai.request.errors",
		metric.WithDescription("Number of OpenAI request errors"),
	)
	if err != nil {
		return
	}
	rateLimitWait, err := meter.Float64Histogram(
		"ai.openai.rate_limit.wait",
		metric.WithDescription("Time spent waiting for OpenAI rate limiter in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return
	}

	openaiMetrics = openAIMetrics{
		requestCount:    requestCount,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
		rateLimitWait:   rateLimitWait,
	}
	openaiMetricsInit = true
}

func recordOpenAIMetric(ctx context.Context, model string, statusCode int, duration time.Duration, err error) {
	ensureOpenAIMetrics()
	if !openaiMetricsInit {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}

	openaiMetrics.requestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	openaiMetrics.requestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		openaiMetrics.requestErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

func recordOpenAIRateLimitWait(ctx context.Context, model string, wait time.Duration) {
	ensureOpenAIMetrics()
	if !openaiMetricsInit {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", "openai"),
		attribute.String("ai.model", model),
	}
	openaiMetrics.rateLimitWait.Record(ctx, float64(wait.Milliseconds()), metric.WithAttributes(attrs...))
}
