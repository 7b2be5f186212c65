package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/Seann-Moser/notify-mcp/oauth/oserver"
)

// API defines the remote notification operations this service consumes.
type API interface {
	// ListChannels returns one page of channels.
	ListChannels(ctx context.Context, opts ListChannelsOptions) (*ChannelPage, error)

	// SendMessage posts text to a channel and returns the delivered message.
	SendMessage(ctx context.Context, channelID, text string) (*Message, error)
}

var _ API = &Client{}

// Client talks to the remote notification API over HTTP. The bearer
// credential forwarded on each call is taken from the request's AuthContext
// when one is attached; the configured service token is the fallback. The
// remote API is the authority on whether a forwarded token is valid.
type Client struct {
	baseURL      string
	serviceToken string
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewClient creates a notification API client. httpClient may be nil.
func NewClient(baseURL, serviceToken string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		httpClient:   httpClient,
		logger:       slog.Default(),
	}
}

// SetLogger replaces the default logger.
func (c *Client) SetLogger(logger *slog.Logger) {
	c.logger = logger
}

// ListChannels fetches one page of channels from GET /channels.
func (c *Client) ListChannels(ctx context.Context, opts ListChannelsOptions) (*ChannelPage, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		q.Set("cursor", opts.Cursor)
	}
	endpoint := c.baseURL + "/channels"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("notify: build request: %w", err)
	}
	var page ChannelPage
	if err := c.do(req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SendMessage posts to POST /messages. Every call carries a fresh
// client_msg_id so the remote side can de-duplicate retries.
func (c *Client) SendMessage(ctx context.Context, channelID, text string) (*Message, error) {
	body, err := json.Marshal(sendMessageRequest{
		ChannelID:   channelID,
		Text:        text,
		ClientMsgID: uuid.NewString(),
	})
	if err != nil {
		return nil, fmt.Errorf("notify: encode message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("notify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var msg Message
	if err := c.do(req, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if tok := c.bearerFor(req.Context()); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Err != "" {
			c.logger.Warn("notify api error", "status", resp.StatusCode, "error", apiErr.Err)
			return fmt.Errorf("notify: %s (%s)", apiErr.Err, apiErr.Message)
		}
		return fmt.Errorf("notify: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notify: decode response: %w", err)
	}
	return nil
}

// bearerFor picks the credential for an outbound call: the forwarded token
// from the validated request when present, else the service token.
func (c *Client) bearerFor(ctx context.Context) string {
	if ac, err := oserver.GetAuthContext(ctx); err == nil && ac.Token != "" {
		return ac.Token
	}
	return c.serviceToken
}
