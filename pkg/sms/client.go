// Package sms is a thin client for the SMS vendor's REST API. Every call is
// synchronous and one-shot: no retries, no backoff, no queuing. Credentials
// are injected per call via HTTP Basic auth.
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/retailsol/credrelay/pkg/domain"
)

const userAgent = "credrelay/1.0"

// CallResult captures one vendor call: the transport status and the decoded
// JSON body. OK mirrors the 2xx check; Data is nil when the body was not
// valid JSON (tolerated, never an error by itself).
type CallResult struct {
	StatusCode int
	OK         bool
	Data       map[string]any
}

// HistoryOptions are the query filters passed through to the vendor message
// history endpoint.
type HistoryOptions struct {
	Limit    string
	Offset   string
	FromDate string
	ToDate   string
}

// Client calls the SMS vendor REST API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	senderID     string
	httpClient   *http.Client
	logger       zerolog.Logger
}

// NewClient creates a vendor client. httpClient may be nil; a default with a
// 30 second timeout is used then.
func NewClient(baseURL, clientID, clientSecret, senderID string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		senderID:     senderID,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// Balance fetches the account balance.
func (c *Client) Balance(ctx context.Context) (CallResult, error) {
	return c.do(ctx, http.MethodGet, "/balance", nil, nil)
}

// History fetches message history with the given filters.
func (c *Client) History(ctx context.Context, opts HistoryOptions) (CallResult, error) {
	query := url.Values{}
	if opts.Limit != "" {
		query.Set("limit", opts.Limit)
	}
	if opts.Offset != "" {
		query.Set("offset", opts.Offset)
	}
	if opts.FromDate != "" {
		query.Set("fromDate", opts.FromDate)
	}
	if opts.ToDate != "" {
		query.Set("toDate", opts.ToDate)
	}
	return c.do(ctx, http.MethodGet, "/Messages", query, nil)
}

// Send posts a bulk message batch built from message text, recipients, and
// options. Recipient numbers are normalized before dispatch.
func (c *Client) Send(ctx context.Context, message string, recipients []domain.Recipient, opts domain.SendOptions) (CallResult, error) {
	body := domain.BulkSendBody{
		Messages: BuildMessages(message, recipients, opts),
		TestMode: opts.TestMode,
		SenderID: c.senderID,
	}
	return c.do(ctx, http.MethodPost, "/BulkMessages", nil, body)
}

// BuildMessages expands one message body into the vendor's per-recipient
// bulk shape.
func BuildMessages(message string, recipients []domain.Recipient, opts domain.SendOptions) []domain.SMSMessage {
	messages := make([]domain.SMSMessage, 0, len(recipients))
	for _, recipient := range recipients {
		messages = append(messages, domain.SMSMessage{
			Content:     strings.TrimSpace(message),
			Destination: FormatNumber(recipient.Number()),
			SendTime:    opts.ScheduledFor,
			Reference:   opts.Reference,
		})
	}
	return messages
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (CallResult, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return CallResult{}, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return CallResult{}, fmt.Errorf("create vendor request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return CallResult{}, fmt.Errorf("vendor request failed: %w", err)
	}
	defer resp.Body.Close()

	result := CallResult{
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return result, nil
	}
	if jsonErr := json.Unmarshal(raw, &result.Data); jsonErr != nil {
		// Non-JSON bodies are tolerated; callers treat nil Data as empty.
		c.logger.Debug().Int("status", resp.StatusCode).Msg("vendor returned non-JSON body")
	}

	return result, nil
}

// Number returns the first numeric field among keys in data, or 0.
func Number(data map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := data[key].(float64); ok {
			return v
		}
	}
	return 0
}

// List returns the first array field among keys in data, or nil.
func List(data map[string]any, keys ...string) []any {
	for _, key := range keys {
		if v, ok := data[key].([]any); ok {
			return v
		}
	}
	return nil
}

// ErrorMessage digs the vendor's nested error.message field out of data,
// falling back to fallback.
func ErrorMessage(data map[string]any, fallback string) string {
	if errObj, ok := data["error"].(map[string]any); ok {
		if msg, ok := errObj["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return fallback
}
