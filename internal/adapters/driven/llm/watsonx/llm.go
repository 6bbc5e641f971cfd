// Package watsonx provides chat and vision adapters backed by the IBM
// watsonx.ai hosted model API. Authentication exchanges an IBM Cloud API
// key for a short-lived IAM bearer token, cached until near expiry.
package watsonx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// Ensure Client implements the interfaces.
var (
	_ driven.ChatModel   = (*Client)(nil)
	_ driven.VisionModel = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL    = "https://us-south.ml.cloud.ibm.com"
	DefaultIAMURL     = "https://iam.cloud.ibm.com/identity/token"
	DefaultModel      = "meta-llama/llama-3-2-90b-vision-instruct"
	DefaultAPIVersion = "2023-03-29"
	DefaultTimeout    = 120 * time.Second

	// Conservative limits to stay inside the hosted API quota.
	DefaultRequestsPerSecond = 2.0
	DefaultBurstSize         = 5
)

// Config holds configuration for the watsonx client.
type Config struct {
	// APIKey is the IBM Cloud API key (required).
	APIKey string

	// ProjectID is the watsonx.ai project id (required).
	ProjectID string

	// BaseURL is the regional API base URL (default: us-south).
	BaseURL string

	// IAMURL is the token exchange endpoint (default: IBM Cloud IAM).
	IAMURL string

	// Model is the hosted model id (default: llama-3-2-90b-vision-instruct).
	Model string

	// APIVersion is the text/chat API version date (default: 2023-03-29).
	APIVersion string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// RequestsPerSecond is the sustained request rate (default: 2).
	RequestsPerSecond float64

	// BurstSize is the token bucket burst size (default: 5).
	BurstSize int
}

// Client provides chat and vision operations using the watsonx.ai API.
// One model serves both because the default model is multimodal.
type Client struct {
	client     *http.Client
	tokens     *tokenSource
	limiter    *rate.Limiter
	baseURL    string
	projectID  string
	model      string
	apiVersion string
}

// chatRequest is the watsonx /ml/v1/text/chat request format.
type chatRequest struct {
	ModelID     string        `json:"model_id"`
	ProjectID   string        `json:"project_id"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatMessage is one conversation message. Content is a plain string for
// text turns and a part list for vision turns.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// contentPart is one element of a multimodal message.
type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

// imageURLPart carries an image as a base64 data URI.
type imageURLPart struct {
	URL string `json:"url"`
}

// chatResponse is the watsonx /ml/v1/text/chat response format.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// NewClient creates a new watsonx client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("watsonx: API key is required")
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("watsonx: project id is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.IAMURL == "" {
		cfg.IAMURL = DefaultIAMURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client: httpClient,
		tokens: &tokenSource{
			client: httpClient,
			iamURL: cfg.IAMURL,
			apiKey: cfg.APIKey,
		},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		baseURL:    cfg.BaseURL,
		projectID:  cfg.ProjectID,
		model:      cfg.Model,
		apiVersion: cfg.APIVersion,
	}, nil
}

// Chat conducts a multi-turn conversation.
func (c *Client) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	chatMessages := make([]chatMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	return c.textChat(ctx, chatRequest{
		ModelID:     c.model,
		ProjectID:   c.projectID,
		Messages:    chatMessages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
}

// textChat sends one request to the text/chat endpoint.
func (c *Client) textChat(ctx context.Context, reqBody chatRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", err
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.baseURL + "/ml/v1/text/chat?version=" + c.apiVersion
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watsonx error (status %d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(chatResp.Errors) > 0 {
		return "", fmt.Errorf("watsonx error: %s", chatResp.Errors[0].Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("watsonx: no response choices returned")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// ModelName returns the name of the hosted model being used.
func (c *Client) ModelName() string {
	return c.model
}

// Ping validates the API key by exchanging it for an IAM token.
// No inference runs, so the check is cheap.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.tokens.Token(ctx); err != nil {
		return fmt.Errorf("watsonx: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (c *Client) Close() error {
	return nil
}
