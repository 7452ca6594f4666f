package protocol

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"defi-strategy-agent/internal/common/errors"
)

// ClientConfig holds configuration for the gateway client.
type ClientConfig struct {
	GatewayURL       string
	AgentAddress     string
	WalletPrivateKey string
	RequestTimeout   time.Duration
	RetryConfig      *RetryConfig
}

// RetryConfig defines retry behavior for transient gateway failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = &RetryConfig{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   10 * time.Second,
}

// Client implements Transport against the gateway's signed REST memo surface.
// Every outbound call carries a fresh request id and an HMAC-SHA256 signature
// of the body under the agent's wallet key.
type Client struct {
	httpClient *http.Client
	config     *ClientConfig
}

func NewClient(config *ClientConfig) (*Client, error) {
	if config.GatewayURL == "" {
		return nil, fmt.Errorf("gateway URL is required")
	}
	if config.WalletPrivateKey == "" {
		return nil, fmt.Errorf("wallet private key is required")
	}
	if config.RetryConfig == nil {
		config.RetryConfig = DefaultRetryConfig
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		config:     config,
	}, nil
}

type respondMemo struct {
	RequestID string `json:"request_id"`
	Agent     string `json:"agent"`
	Accepted  bool   `json:"accepted"`
	Reason    string `json:"reason"`
}

type deliverMemo struct {
	RequestID string      `json:"request_id"`
	Agent     string      `json:"agent"`
	Payload   interface{} `json:"payload"`
}

// Respond signals the acceptance decision during negotiation.
func (c *Client) Respond(ctx context.Context, jobID int64, accept bool, reason string) error {
	memo := respondMemo{
		RequestID: uuid.NewString(),
		Agent:     c.config.AgentAddress,
		Accepted:  accept,
		Reason:    reason,
	}
	return c.submit(ctx, fmt.Sprintf("%s/jobs/%d/respond", c.config.GatewayURL, jobID), memo, "respond")
}

// Deliver submits the computed deliverable during evaluation.
func (c *Client) Deliver(ctx context.Context, jobID int64, payload interface{}) error {
	memo := deliverMemo{
		RequestID: uuid.NewString(),
		Agent:     c.config.AgentAddress,
		Payload:   payload,
	}
	return c.submit(ctx, fmt.Sprintf("%s/jobs/%d/deliver", c.config.GatewayURL, jobID), memo, "deliver")
}

func (c *Client) submit(ctx context.Context, url string, memo interface{}, operation string) error {
	body, err := json.Marshal(memo)
	if err != nil {
		return fmt.Errorf("marshal %s memo: %w", operation, err)
	}

	var lastErr error
	delay := c.config.RetryConfig.BaseDelay

	for attempt := 0; attempt <= c.config.RetryConfig.MaxRetries; attempt++ {
		lastErr = c.post(ctx, url, body)
		if lastErr == nil {
			return nil
		}
		if !isRetryableError(lastErr) || attempt == c.config.RetryConfig.MaxRetries {
			return c.mapError(lastErr, operation, attempt)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("operation %s cancelled after %d attempts: %w", operation, attempt, ctx.Err())
		}
		delay *= 2
		if delay > c.config.RetryConfig.MaxDelay {
			delay = c.config.RetryConfig.MaxDelay
		}
	}

	return c.mapError(lastErr, operation, c.config.RetryConfig.MaxRetries)
}

func (c *Client) post(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Agent-Address", c.config.AgentAddress)
	req.Header.Set("X-Memo-Signature", c.sign(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(msg))
	}
	return nil
}

func (c *Client) sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(c.config.WalletPrivateKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func isRetryableError(err error) bool {
	msg := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"connection reset",
		"timeout",
		"deadline exceeded",
		"unavailable",
		"unreachable",
		"broken pipe",
		"returned 502",
		"returned 503",
		"returned 504",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

func (c *Client) mapError(err error, operation string, attempt int) error {
	msg := strings.ToLower(err.Error())

	wrapped := fmt.Errorf("gateway operation '%s' failed", operation)
	if attempt > 0 {
		wrapped = fmt.Errorf("gateway operation '%s' failed after %d attempts", operation, attempt)
	}

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded") {
		return errors.NewTransportTimeoutError(operation, fmt.Errorf("%s: %w", wrapped, err))
	}
	return errors.NewTransportError(operation, fmt.Errorf("%s: %w", wrapped, err))
}
