package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/frankotendo/geolevelup/internal/config"
	"github.com/frankotendo/geolevelup/pkg/plan"
	"github.com/frankotendo/geolevelup/pkg/profile"
	"github.com/frankotendo/geolevelup/pkg/strategy"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNotConfigured = errors.New("gemini api key is not configured")
	ErrEmptyResponse = errors.New("gemini returned no text")
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateContentRequest struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// GeminiClient talks to the generateContent REST endpoint and turns replies into
// plans and strategy paths.
type GeminiClient struct {
	httpClient    *http.Client
	apiKey        string
	model         string
	baseUrl       string
	maxRetries    int
	retryInterval time.Duration
}

func NewGeminiClient(cfg config.Gemini) *GeminiClient {
	return &GeminiClient{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		apiKey:        cfg.ApiKey,
		model:         cfg.Model,
		baseUrl:       strings.TrimSuffix(cfg.BaseUrl, "/"),
		maxRetries:    max(cfg.MaxRetries, 0),
		retryInterval: 500 * time.Millisecond,
	}
}

func (c *GeminiClient) GenerateDailyPlan(ctx context.Context, p profile.Profile, date time.Time) (plan.DailyPlan, error) {
	text, err := c.generate(ctx, systemInstruction(p), dailyPlanPrompt(p, date))
	if err != nil {
		return plan.DailyPlan{}, err
	}
	var generated plan.DailyPlan
	if err := ExtractJSON(text, &generated); err != nil {
		log.Debugf("unparseable plan response: %s", text)
		return plan.DailyPlan{}, err
	}
	return generated, nil
}

func (c *GeminiClient) GenerateStrategies(ctx context.Context, p profile.Profile) ([]strategy.Path, error) {
	text, err := c.generate(ctx, systemInstruction(p), strategyPrompt(p))
	if err != nil {
		return nil, err
	}
	var paths []strategy.Path
	if err := ExtractJSON(text, &paths); err != nil {
		log.Debugf("unparseable strategy response: %s", text)
		return nil, err
	}
	return paths, nil
}

// generate sends one prompt, retrying network failures, 429 and 5xx answers with
// exponential backoff.
func (c *GeminiClient) generate(ctx context.Context, instruction string, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}
	body, err := json.Marshal(generateContentRequest{
		SystemInstruction: &content{Parts: []part{{Text: instruction}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig:  generationConfig{Temperature: temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.retryInterval
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(c.maxRetries)), ctx)

	attempt := 0
	text, err := backoff.RetryWithData(func() (string, error) {
		attempt++
		return c.call(ctx, body)
	}, policy)
	if err != nil {
		log.Warnf("gemini request failed after %d attempt(s): %v", attempt, err)
		return "", err
	}
	return text, nil
}

func (c *GeminiClient) call(ctx context.Context, body []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseUrl, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return "", err
		}
		return "", backoff.Permanent(err)
	}

	var res generateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	if res.PromptFeedback != nil && res.PromptFeedback.BlockReason != "" {
		return "", backoff.Permanent(fmt.Errorf("prompt blocked: %s", res.PromptFeedback.BlockReason))
	}

	var sb strings.Builder
	if len(res.Candidates) > 0 {
		for _, p := range res.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", backoff.Permanent(ErrEmptyResponse)
	}
	return sb.String(), nil
}
