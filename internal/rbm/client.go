package rbm

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lojasmm/rbm/internal/metrics"
)

const (
	DefaultEndpoint = "https://rcsbusinessmessaging.googleapis.com"
	apiVersion      = "v1"

	// MaxBatchUsers is the most msisdns users:batchGet accepts per call.
	MaxBatchUsers = 10000

	maxResponseBytes = 4 << 20
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// Endpoint is the API base URL. Defaults to DefaultEndpoint.
	Endpoint string
	// HTTPClient must attach credentials, see auth.NewHTTPClient.
	// If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, logging is disabled.
	Logger *zerolog.Logger
	// Retry applies to users:batchGet. Unset fields take DefaultRetryPolicy values.
	Retry RetryPolicy
}

// Client is the RBM gateway. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
	retry   RetryPolicy
	newID   func() string
}

func NewClient(cfg ClientConfig) (*Client, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", ErrConfiguration, endpoint)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "rbm").Logger()
	}

	return &Client{
		baseURL: strings.TrimRight(endpoint, "/") + "/" + apiVersion + "/",
		http:    httpClient,
		logger:  logger,
		retry:   cfg.Retry.withDefaults(),
		newID:   uuid.NewString,
	}, nil
}

// SendTextMessage sends text, with optional reply chips, to msisdn.
func (c *Client) SendTextMessage(ctx context.Context, text, msisdn string, suggestions ...Suggestion) (*AgentMessage, error) {
	if text == "" {
		return nil, invalidArgument("text message is empty")
	}
	return c.SendAgentMessage(ctx, NewTextMessage(text, suggestions...), msisdn)
}

// SendStandaloneCard sends a single rich card to msisdn.
func (c *Client) SendStandaloneCard(ctx context.Context, card StandaloneCard, msisdn string) (*AgentMessage, error) {
	return c.SendAgentMessage(ctx, NewStandaloneMessage(card), msisdn)
}

// SendCarouselCards sends contents, in order, as a carousel of the given width.
func (c *Client) SendCarouselCards(ctx context.Context, contents []CardContent, width CardWidth, msisdn string) (*AgentMessage, error) {
	carousel, err := NewCarouselCard(contents, width)
	if err != nil {
		return nil, err
	}
	return c.SendAgentMessage(ctx, NewCarouselMessage(carousel), msisdn)
}

// SendAgentMessage posts msg to msisdn under a fresh message id and returns
// the created message as echoed by the API.
func (c *Client) SendAgentMessage(ctx context.Context, msg AgentMessage, msisdn string) (*AgentMessage, error) {
	parent, err := phoneResource(msisdn)
	if err != nil {
		return nil, err
	}
	if err := validateMessage(msg); err != nil {
		return nil, err
	}

	messageID := c.newID()
	query := url.Values{"messageId": {messageID}}

	c.logger.Info().Str("msisdn", msisdn).Str("message_id", messageID).Msg("sending message")

	var created AgentMessage
	if err := c.do(ctx, "agentMessages.create", http.MethodPost, parent+"/agentMessages", query, msg, &created); err != nil {
		return nil, fmt.Errorf("sending message %s: %w", messageID, err)
	}
	if created.Name == "" {
		created.Name = parent + "/agentMessages/" + messageID
	}
	c.logger.Debug().Str("name", created.Name).Str("send_time", created.SendTime).Msg("message accepted")
	return &created, nil
}

// RevokeMessage deletes a sent message that the user has not received yet.
func (c *Client) RevokeMessage(ctx context.Context, messageID, msisdn string) error {
	parent, err := phoneResource(msisdn)
	if err != nil {
		return err
	}
	if messageID == "" {
		return invalidArgument("message id is empty")
	}
	path := parent + "/agentMessages/" + url.PathEscape(messageID)
	if err := c.do(ctx, "agentMessages.delete", http.MethodDelete, path, nil, nil, nil); err != nil {
		return fmt.Errorf("revoking message %s: %w", messageID, err)
	}
	return nil
}

// SendReadMessage tells msisdn that messageID has been read.
func (c *Client) SendReadMessage(ctx context.Context, messageID, msisdn string) error {
	if messageID == "" {
		return invalidArgument("message id is empty")
	}
	return c.sendEvent(ctx, AgentEvent{EventType: EventTypeRead, MessageID: messageID}, msisdn)
}

// SendIsTypingMessage shows the typing indicator on msisdn's device.
func (c *Client) SendIsTypingMessage(ctx context.Context, msisdn string) error {
	return c.sendEvent(ctx, AgentEvent{EventType: EventTypeIsTyping}, msisdn)
}

func (c *Client) sendEvent(ctx context.Context, event AgentEvent, msisdn string) error {
	parent, err := phoneResource(msisdn)
	if err != nil {
		return err
	}

	eventID := c.newID()
	query := url.Values{"eventId": {eventID}}
	if err := c.do(ctx, "agentEvents.create", http.MethodPost, parent+"/agentEvents", query, event, nil); err != nil {
		return fmt.Errorf("sending %s event %s: %w", event.EventType, eventID, err)
	}
	c.logger.Debug().Str("msisdn", msisdn).Stringer("event_type", event.EventType).Str("event_id", eventID).Msg("event sent")
	return nil
}

// RegisterTester invites msisdn as a tester of the agent.
func (c *Client) RegisterTester(ctx context.Context, msisdn string) (*Tester, error) {
	parent, err := phoneResource(msisdn)
	if err != nil {
		return nil, err
	}

	var tester Tester
	if err := c.do(ctx, "testers.create", http.MethodPost, parent+"/testers", nil, Tester{}, &tester); err != nil {
		return nil, fmt.Errorf("registering tester: %w", err)
	}
	c.logger.Info().Str("msisdn", msisdn).Str("invite_status", tester.InviteStatus).Msg("tester registered")
	return &tester, nil
}

// PerformCapabilityCheck starts an asynchronous capability check. The result
// is delivered to the agent webhook tagged with the returned request id.
func (c *Client) PerformCapabilityCheck(ctx context.Context, msisdn string) (string, error) {
	parent, err := phoneResource(msisdn)
	if err != nil {
		return "", err
	}

	requestID := c.newID()
	body := RequestCapabilityCallbackRequest{RequestID: requestID}
	if err := c.do(ctx, "capability.requestCapabilityCallback", http.MethodPost, parent+"/capability:requestCapabilityCallback", nil, body, nil); err != nil {
		return "", fmt.Errorf("requesting capability callback: %w", err)
	}
	c.logger.Info().Str("msisdn", msisdn).Str("request_id", requestID).Msg("capability callback requested")
	return requestID, nil
}

// GetCapability synchronously checks whether msisdn is RCS enabled. A device
// that is not reachable yields an *APIError with status 404.
func (c *Client) GetCapability(ctx context.Context, msisdn string) (*Capabilities, error) {
	parent, err := phoneResource(msisdn)
	if err != nil {
		return nil, err
	}

	query := url.Values{"requestId": {c.newID()}}
	var caps Capabilities
	if err := c.do(ctx, "phones.getCapabilities", http.MethodGet, parent+"/capabilities", query, nil, &caps); err != nil {
		return nil, fmt.Errorf("getting capabilities: %w", err)
	}
	return &caps, nil
}

// GetUsers runs a batch capability check over msisdns, retrying transient
// failures with the client's RetryPolicy.
func (c *Client) GetUsers(ctx context.Context, msisdns []string) (*BatchGetUsersResponse, error) {
	if len(msisdns) == 0 {
		return nil, invalidArgument("no msisdns to check")
	}
	if len(msisdns) > MaxBatchUsers {
		return nil, invalidArgument("%d msisdns exceed the batch limit of %d", len(msisdns), MaxBatchUsers)
	}

	body := BatchGetUsersRequest{Users: msisdns}
	var resp BatchGetUsersResponse
	err := c.withRetry(ctx, "users.batchGet", func() error {
		resp = BatchGetUsersResponse{}
		return c.do(ctx, "users.batchGet", http.MethodPost, "users:batchGet", nil, body, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("batch getting users: %w", err)
	}
	c.logger.Info().
		Int("requested", len(msisdns)).
		Int("reachable", len(resp.ReachableUsers)).
		Msg("batch capability check done")
	return &resp, nil
}

// UploadFile registers the publicly reachable fileURL (and optional thumbnail)
// with the platform and returns the file resource name.
func (c *Client) UploadFile(ctx context.Context, fileURL, thumbnailURL string) (string, error) {
	if fileURL == "" {
		return "", invalidArgument("file url is empty")
	}

	req := CreateFileRequest{FileURL: fileURL, ThumbnailURL: thumbnailURL}
	var file File
	if err := c.do(ctx, "files.create", http.MethodPost, "files", nil, req, &file); err != nil {
		return "", fmt.Errorf("uploading %s: %w", fileURL, err)
	}
	if file.Name == "" {
		return "", fmt.Errorf("uploading %s: response has no file name", fileURL)
	}
	c.logger.Info().Str("file_url", fileURL).Str("name", file.Name).Msg("file uploaded")
	return file.Name, nil
}

// do sends one request to path (relative to the versioned base URL). On 2xx
// the body is decoded into out when out is non-nil. On 4xx/5xx an *APIError
// is returned; on network failure a *TransportError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.APIRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(op, "transport").Inc()
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(op, "transport").Inc()
		return &TransportError{Method: method, Path: path, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		metrics.APIRequestsTotal.WithLabelValues(op, "rejected").Inc()
		apiErr := decodeAPIError(resp.StatusCode, respBody)
		c.logger.Error().Err(apiErr).Str("operation", op).Msg("request rejected")
		return apiErr
	}
	metrics.APIRequestsTotal.WithLabelValues(op, "ok").Inc()

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) *APIError {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error.Message == "" {
		return &APIError{
			StatusCode: status,
			Status:     http.StatusText(status),
			Message:    strings.TrimSpace(string(body)),
		}
	}
	apiErr := envelope.Error
	apiErr.StatusCode = status
	return &apiErr
}
