package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client is the completion service consumed by the note pipeline.
type Client interface {
	// CreateCompletion issues one chat completion and returns the
	// generated text.
	CreateCompletion(ctx context.Context, req CompletionRequest) (string, error)

	// ValidateKey checks a credential against the model-listing
	// endpoint. Any 2xx response means the key is valid.
	ValidateKey(ctx context.Context, key string) (bool, error)

	// HasCredential reports whether a key is configured.
	HasCredential() bool
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
}

type Config struct {
	APIKey            string
	BaseURL           string
	RequestTimeout    time.Duration
	RequestsPerMinute int
}

// APIError is a structured non-2xx response from the provider.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: status %d: %s", e.Status, e.Message)
}

type httpClient struct {
	config  Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *logrus.Logger
}

func NewClient(cfg Config) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai: base URL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute)/60, 1)
	}

	return &httpClient{
		config:  cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter: limiter,
		logger:  logrus.StandardLogger(),
	}, nil
}

func (c *httpClient) HasCredential() bool {
	return c.config.APIKey != ""
}

type completionPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *httpClient) CreateCompletion(ctx context.Context, req CompletionRequest) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", errors.Wrap(err, "rate limiter wait")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	body, err := json.Marshal(completionPayload{
		Model:       req.Model,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal completion request")
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.config.BaseURL+"/chat/completions",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", errors.Wrap(err, "build completion request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", errors.Wrap(err, "completion request")
	}
	defer resp.Body.Close()

	var parsed completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return "", &APIError{Status: resp.StatusCode, Message: resp.Status}
		}
		return "", errors.Wrap(err, "decode completion response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai: empty completion response")
	}

	c.logger.WithFields(logrus.Fields{
		"model":       req.Model,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Completion request succeeded")

	return parsed.Choices[0].Message.Content, nil
}

func (c *httpClient) ValidateKey(ctx context.Context, key string) (bool, error) {
	if key == "" {
		key = c.config.APIKey
	}
	if key == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/models", nil)
	if err != nil {
		return false, errors.Wrap(err, "build validation request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+key)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return false, errors.Wrap(err, "validation request")
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}
