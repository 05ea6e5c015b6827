package evolution

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/walink/whatsapp-link-cli/internal/domain"
	"github.com/walink/whatsapp-link-cli/internal/ports"
)

const maxBridgeResponseBytes = 1 << 20

const apiKeyHeader = "apikey"

// API names the bridge's instance-control endpoints. The instance id is
// appended as the final path segment of each.
type API struct {
	BaseURL        string
	InitiatePath   string
	ArtifactPath   string
	StatusPath     string
	RegeneratePath string
}

func (a API) withDefaults() API {
	if a.InitiatePath == "" {
		a.InitiatePath = "/instance/connect"
	}
	if a.ArtifactPath == "" {
		a.ArtifactPath = "/instance/qrcode"
	}
	if a.StatusPath == "" {
		a.StatusPath = "/instance/connectionState"
	}
	if a.RegeneratePath == "" {
		a.RegeneratePath = "/instance/restart"
	}
	return a
}

// Client talks to an Evolution-style bridge over plain HTTP. It is stateless;
// every call stands alone.
type Client struct {
	API            API
	APIKey         string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
}

var _ ports.Bridge = (*Client)(nil)

func (c *Client) Initiate(ctx context.Context, id domain.InstanceID) error {
	resp, err := c.call(ctx, http.MethodPost, c.api().InitiatePath, id)
	if err != nil {
		return fmt.Errorf("initiate instance: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !successStatus(resp.StatusCode) {
		return fmt.Errorf("initiate instance: %s", decodeBridgeError(resp))
	}
	return nil
}

func (c *Client) FetchArtifact(ctx context.Context, id domain.InstanceID) (domain.ArtifactResult, error) {
	resp, err := c.call(ctx, http.MethodGet, c.api().ArtifactPath, id)
	if err != nil {
		return domain.ArtifactResult{}, fmt.Errorf("fetch pairing artifact: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !successStatus(resp.StatusCode) {
		return domain.ArtifactResult{}, fmt.Errorf("fetch pairing artifact: %s", decodeBridgeError(resp))
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBridgeResponseBytes)).Decode(&envelope); err != nil {
		return domain.ArtifactResult{}, fmt.Errorf("decode artifact response: %w", err)
	}

	return normalizeArtifact(envelope)
}

func (c *Client) FetchStatus(ctx context.Context, id domain.InstanceID) (domain.BridgeStatus, error) {
	resp, err := c.call(ctx, http.MethodGet, c.api().StatusPath, id)
	if err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("fetch instance status: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !successStatus(resp.StatusCode) {
		return domain.BridgeStatus{}, fmt.Errorf("fetch instance status: %s", decodeBridgeError(resp))
	}

	var envelope responseEnvelope
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBridgeResponseBytes)).Decode(&envelope); err != nil {
		return domain.BridgeStatus{}, fmt.Errorf("decode status response: %w", err)
	}

	return normalizeStatus(envelope), nil
}

func (c *Client) Regenerate(ctx context.Context, id domain.InstanceID) error {
	resp, err := c.call(ctx, http.MethodPost, c.api().RegeneratePath, id)
	if err != nil {
		return fmt.Errorf("regenerate pairing code: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if !successStatus(resp.StatusCode) {
		return fmt.Errorf("regenerate pairing code: %s", decodeBridgeError(resp))
	}
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, id domain.InstanceID) (*http.Response, error) {
	endpoint, err := buildInstanceURL(c.API.BaseURL, path, id)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := c.requestContext(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create bridge request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.APIKey)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) api() API {
	return c.API.withDefaults()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}

	requestTimeout := c.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}

	return context.WithTimeout(ctx, requestTimeout)
}

func successStatus(code int) bool {
	return code >= http.StatusOK && code < http.StatusMultipleChoices
}

type bridgeErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeBridgeError(resp *http.Response) string {
	var bridgeErr bridgeErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBridgeResponseBytes)).Decode(&bridgeErr); err != nil {
		return fmt.Sprintf("status %d", resp.StatusCode)
	}

	switch {
	case bridgeErr.Message != "" && bridgeErr.Error != "":
		return bridgeErr.Error + ": " + bridgeErr.Message
	case bridgeErr.Message != "":
		return bridgeErr.Message
	case bridgeErr.Error != "":
		return bridgeErr.Error
	default:
		return fmt.Sprintf("status %d", resp.StatusCode)
	}
}

func buildInstanceURL(baseURL, path string, id domain.InstanceID) (string, error) {
	if baseURL == "" {
		return "", errors.New("bridge base url is required")
	}
	if path == "" {
		return "", errors.New("bridge path is required")
	}
	if id == "" {
		return "", errors.New("instance id is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse bridge base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.New("bridge base url must use http or https")
	}
	if parsed.Host == "" {
		return "", errors.New("bridge base url host is required")
	}

	endpoint, err := parsed.Parse(path + "/" + url.PathEscape(string(id)))
	if err != nil {
		return "", fmt.Errorf("parse bridge path: %w", err)
	}
	return endpoint.String(), nil
}
