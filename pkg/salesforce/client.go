// Package salesforce provides a client for the Salesforce REST metadata
// API: the global describe (object listing) and per-object describes, with
// optional caching of describe payloads.
package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/httputil"
	"github.com/Jaganpro/sf-schema-viewer/pkg/observability"
	"github.com/Jaganpro/sf-schema-viewer/pkg/schema"
)

// DefaultAPIVersion is the REST API version used when none is configured.
const DefaultAPIVersion = "v59.0"

// Client talks to one org's REST API on behalf of one user session.
type Client struct {
	httpClient  *http.Client
	instanceURL string
	accessToken string
	apiVersion  string
	cache       cache.Cache
	keyer       cache.Keyer
	logger      *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (used in tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIVersion overrides the REST API version (e.g. "v61.0").
func WithAPIVersion(v string) Option {
	return func(c *Client) {
		if v != "" {
			c.apiVersion = normalizeVersion(v)
		}
	}
}

// WithCache enables caching of describe payloads.
func WithCache(store cache.Cache, keyer cache.Keyer) Option {
	return func(c *Client) {
		if store != nil {
			c.cache = store
		}
		if keyer != nil {
			c.keyer = keyer
		}
	}
}

// WithLogger overrides the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the given instance and access token.
func NewClient(instanceURL, accessToken string, opts ...Option) (*Client, error) {
	if err := apperrors.ValidateURL(instanceURL); err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "access token is required")
	}

	c := &Client{
		httpClient:  httputil.NewClient(),
		instanceURL: strings.TrimRight(instanceURL, "/"),
		accessToken: accessToken,
		apiVersion:  DefaultAPIVersion,
		cache:       cache.NewNullCache(),
		keyer:       cache.NewDefaultKeyer(),
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// normalizeVersion ensures a leading "v" ("61.0" and "v61.0" both work).
func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}

// globalDescribeResponse is the /sobjects payload.
type globalDescribeResponse struct {
	SObjects []schema.ObjectBasicInfo `json:"sobjects"`
}

// ListObjects returns basic info for every object in the org (global describe).
func (c *Client) ListObjects(ctx context.Context) ([]schema.ObjectBasicInfo, error) {
	key := c.keyer.DescribeKey(c.instanceURL, "__global__", cache.DescribeKeyOpts{APIVersion: c.apiVersion})

	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "describe")
		var resp globalDescribeResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			return resp.SObjects, nil
		}
		// Corrupt entry; fall through to refetch.
	}
	observability.Cache().OnCacheMiss(ctx, "describe")

	var resp globalDescribeResponse
	if err := c.get(ctx, c.restURL("/sobjects"), &resp); err != nil {
		return nil, c.mapError(err, "")
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := c.cache.Set(ctx, key, data, cache.TTLDescribe); err != nil {
			c.logger.Warn("cache global describe", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "describe", len(data))
		}
	}
	return resp.SObjects, nil
}

// DescribeObject returns the full describe for one object.
func (c *Client) DescribeObject(ctx context.Context, name string) (*schema.ObjectDescribe, error) {
	if err := apperrors.ValidateObjectName(name); err != nil {
		return nil, err
	}

	key := c.keyer.DescribeKey(c.instanceURL, name, cache.DescribeKeyOpts{APIVersion: c.apiVersion})
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		observability.Cache().OnCacheHit(ctx, "describe")
		var d schema.ObjectDescribe
		if err := json.Unmarshal(data, &d); err == nil {
			return &d, nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "describe")

	var d schema.ObjectDescribe
	path := fmt.Sprintf("/sobjects/%s/describe", url.PathEscape(name))
	if err := c.get(ctx, c.restURL(path), &d); err != nil {
		return nil, c.mapError(err, name)
	}

	if data, err := json.Marshal(&d); err == nil {
		if err := c.cache.Set(ctx, key, data, cache.TTLDescribe); err != nil {
			c.logger.Warn("cache describe", "object", name, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "describe", len(data))
		}
	}
	return &d, nil
}

// DescribeObjects describes multiple objects, collecting per-object errors
// instead of failing the whole batch. Context cancellation aborts the
// remaining objects and is returned as the batch error.
func (c *Client) DescribeObjects(ctx context.Context, names []string) (*schema.BatchResult, error) {
	result := &schema.BatchResult{
		Results: make([]schema.ObjectDescribe, 0, len(names)),
		Errors:  make(map[string]string),
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := c.DescribeObject(ctx, name)
		if err != nil {
			result.Errors[name] = apperrors.UserMessage(err)
			continue
		}
		result.Results = append(result.Results, *d)
	}

	if len(result.Errors) == 0 {
		result.Errors = nil
	}
	return result, nil
}

// APIVersion is one entry from the /services/data listing.
type APIVersion struct {
	Label   string `json:"label"`
	URL     string `json:"url"`
	Version string `json:"version"`
}

// APIVersions lists the REST API versions the org supports.
func (c *Client) APIVersions(ctx context.Context) ([]APIVersion, error) {
	var versions []APIVersion
	if err := c.get(ctx, c.instanceURL+"/services/data/", &versions); err != nil {
		return nil, c.mapError(err, "")
	}
	return versions, nil
}

func (c *Client) restURL(path string) string {
	return fmt.Sprintf("%s/services/data/%s%s", c.instanceURL, c.apiVersion, path)
}

func (c *Client) get(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	return httputil.DoJSON(ctx, c.httpClient, req, v)
}

// mapError converts transport errors into coded errors. Salesforce reports
// unknown objects with NOT_FOUND or INVALID_TYPE error codes in the body.
func (c *Client) mapError(err error, object string) error {
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusUnauthorized:
			return apperrors.Wrap(apperrors.ErrCodeSessionExpired, err, "salesforce session expired")
		case statusErr.StatusCode == http.StatusForbidden:
			return apperrors.Wrap(apperrors.ErrCodeForbidden, err, "access denied by salesforce")
		case statusErr.StatusCode == http.StatusTooManyRequests:
			return apperrors.Wrap(apperrors.ErrCodeRateLimited, err, "salesforce rate limit exceeded")
		case statusErr.StatusCode == http.StatusNotFound,
			strings.Contains(statusErr.Body, "NOT_FOUND"),
			strings.Contains(statusErr.Body, "INVALID_TYPE"):
			if object != "" {
				return apperrors.Wrap(apperrors.ErrCodeObjectNotFound, err, "object not found: %s", object)
			}
			return apperrors.Wrap(apperrors.ErrCodeNotFound, err, "salesforce resource not found")
		}
		return apperrors.Wrap(apperrors.ErrCodeSalesforceAPI, err, "salesforce API error")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "salesforce request failed")
}
