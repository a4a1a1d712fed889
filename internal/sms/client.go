package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.semaphore.co/api/v4"
	defaultSender  = "FixUp"
)

// Config controls how the Semaphore client behaves.
type Config struct {
	BaseURL    string
	APIKey     string
	SenderName string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client sends SMS through the Semaphore HTTP gateway. The gateway's 2xx
// "accepted" is not a delivery confirmation; callers treat it as send
// success. Timeouts and non-2xx responses are failures. The client never
// retries: retry policy belongs to the caller, and the reminder dispatcher
// deliberately has none.
type Client struct {
	apiKey     string
	baseURL    string
	senderName string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a configured Client with sane defaults.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("sms: API key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	sender := strings.TrimSpace(cfg.SenderName)
	if sender == "" {
		sender = defaultSender
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		senderName: sender,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Send posts one message to the gateway. A nil return means the gateway
// accepted the message.
func (c *Client) Send(ctx context.Context, number, message string) error {
	if strings.TrimSpace(number) == "" {
		return errors.New("sms: recipient number required")
	}
	if strings.TrimSpace(message) == "" {
		return errors.New("sms: message text required")
	}

	form := url.Values{}
	form.Set("apikey", c.apiKey)
	form.Set("number", number)
	form.Set("message", message)
	form.Set("sendername", c.senderName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("sms: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("sms: http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	c.logger.Error("semaphore send rejected",
		"status", resp.StatusCode,
		"number", number,
		"body", string(body),
	)
	return fmt.Errorf("sms: gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
