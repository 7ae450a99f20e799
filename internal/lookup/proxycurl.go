package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"go.uber.org/zap"
)

const defaultEndpoint = "https://nubela.co/proxycurl/api/v2/linkedin"

// ProxycurlClient fetches profile documents from the Proxycurl API.
type ProxycurlClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// ProxycurlOption configures a ProxycurlClient.
type ProxycurlOption func(*ProxycurlClient)

// WithEndpoint overrides the API endpoint (used by tests).
func WithEndpoint(endpoint string) ProxycurlOption {
	return func(c *ProxycurlClient) { c.endpoint = endpoint }
}

// WithTimeout overrides the per-call timeout.
func WithTimeout(timeout time.Duration) ProxycurlOption {
	return func(c *ProxycurlClient) { c.httpClient.Timeout = timeout }
}

// NewProxycurlClient creates a client authenticated with the given API key.
func NewProxycurlClient(apiKey string, logger *zap.Logger, opts ...ProxycurlOption) *ProxycurlClient {
	c := &ProxycurlClient{
		endpoint:   defaultEndpoint,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.Named("proxycurl"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the profile document for one LinkedIn URL, retrying
// transient failures with backoff.
func (c *ProxycurlClient) Fetch(ctx context.Context, profileURL string) (*Document, error) {
	var doc *Document
	var opErr error
	retry.Do(
		func() error {
			d, err := c.fetchOnce(ctx, profileURL)
			if err == nil {
				doc = d
			}
			opErr = err
			return err
		},
		retry.Attempts(3),
		retry.DelayType(retry.BackOffDelay),
		retry.Context(ctx),
		retry.RetryIf(IsTransient),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying profile lookup",
				zap.Uint("attempt", n+1),
				zap.String("profile_url", profileURL),
				zap.Error(err))
		}),
	)
	return doc, opErr
}

func (c *ProxycurlClient) fetchOnce(ctx context.Context, profileURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, &Error{ProfileURL: profileURL, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	params := url.Values{
		"url":                     {profileURL},
		"fallback_to_cache":       {"on-error"},
		"use_cache":               {"if-present"},
		"skills":                  {"include"},
		"inferred_salary":         {"include"},
		"personal_email":          {"include"},
		"personal_contact_number": {"include"},
		"twitter_profile_id":      {"include"},
		"facebook_profile_id":     {"include"},
		"github_profile_id":       {"include"},
		"certifications":          {"include"},
	}
	req.URL.RawQuery = params.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{ProfileURL: profileURL, Transient: true, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return nil, &Error{ProfileURL: profileURL, StatusCode: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, &Error{
			ProfileURL: profileURL,
			StatusCode: resp.StatusCode,
			Transient:  true,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	default:
		return nil, &Error{
			ProfileURL: profileURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &Error{ProfileURL: profileURL, Transient: true, Err: err}
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &Error{ProfileURL: profileURL, Err: fmt.Errorf("malformed document: %w", err)}
	}

	c.logger.Info("fetched profile document",
		zap.String("profile_url", profileURL),
		zap.String("public_identifier", doc.PublicIdentifier))
	return &doc, nil
}
