package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Jaganpro/sf-schema-viewer/pkg/cache"
	apperrors "github.com/Jaganpro/sf-schema-viewer/pkg/errors"
	"github.com/Jaganpro/sf-schema-viewer/pkg/httputil"
	"github.com/Jaganpro/sf-schema-viewer/pkg/schema"
)

// Data Cloud token exchange and Metadata API paths. The exchange runs on
// the Salesforce instance and returns credentials for a separate Data
// Cloud instance (…c360a.salesforce.com) where the metadata lives.
const (
	dcTokenExchangePath = "/services/a360/token"
	dcMetadataPath      = "/api/v1/metadata"

	dcGrantType        = "urn:salesforce:grant-type:external:cdp"
	dcSubjectTokenType = "urn:ietf:params:oauth:token-type:access_token"

	// dcTokenTTL is how long exchanged credentials are reused. Data
	// Cloud tokens last about two hours; an hour leaves headroom.
	dcTokenTTL = time.Hour
)

// dataCloudCredentials are the instance-specific credentials returned by
// the token exchange.
type dataCloudCredentials struct {
	AccessToken string `json:"access_token"`
	InstanceURL string `json:"instance_url"`
}

// DataCloudClient talks to an org's Data Cloud Metadata API on behalf of
// one user session. It exchanges the Salesforce access token for Data
// Cloud credentials on first use and reuses them until they age out.
type DataCloudClient struct {
	httpClient  *http.Client
	instanceURL string
	accessToken string
	cache       cache.Cache
	keyer       cache.Keyer
	logger      *log.Logger

	mu          sync.Mutex
	creds       *dataCloudCredentials
	credsExpiry time.Time
}

// DataCloudOption configures a DataCloudClient.
type DataCloudOption func(*DataCloudClient)

// WithDataCloudHTTPClient overrides the HTTP client (used in tests).
func WithDataCloudHTTPClient(hc *http.Client) DataCloudOption {
	return func(c *DataCloudClient) { c.httpClient = hc }
}

// WithDataCloudCache enables caching of entity listings.
func WithDataCloudCache(store cache.Cache, keyer cache.Keyer) DataCloudOption {
	return func(c *DataCloudClient) {
		if store != nil {
			c.cache = store
		}
		if keyer != nil {
			c.keyer = keyer
		}
	}
}

// WithDataCloudLogger overrides the logger.
func WithDataCloudLogger(l *log.Logger) DataCloudOption {
	return func(c *DataCloudClient) { c.logger = l }
}

// NewDataCloudClient creates a client for the given Salesforce instance
// and access token.
func NewDataCloudClient(instanceURL, accessToken string, opts ...DataCloudOption) (*DataCloudClient, error) {
	if err := apperrors.ValidateURL(instanceURL); err != nil {
		return nil, err
	}
	if accessToken == "" {
		return nil, apperrors.New(apperrors.ErrCodeUnauthorized, "access token is required")
	}

	c := &DataCloudClient{
		httpClient:  httputil.NewClient(),
		instanceURL: strings.TrimRight(instanceURL, "/"),
		accessToken: accessToken,
		cache:       cache.NewNullCache(),
		keyer:       cache.NewDefaultKeyer(),
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// exchangeToken trades the Salesforce access token for Data Cloud
// credentials. A non-200 response means Data Cloud is not provisioned
// (or the user has no access) and maps to ErrCodeSalesforceAuth.
func (c *DataCloudClient) exchangeToken(ctx context.Context) (*dataCloudCredentials, error) {
	form := url.Values{
		"grant_type":         {dcGrantType},
		"subject_token":      {c.accessToken},
		"subject_token_type": {dcSubjectTokenType},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.instanceURL+dcTokenExchangePath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeNetwork, err, "data cloud token exchange failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.New(apperrors.ErrCodeSalesforceAuth,
			"data cloud token exchange returned %d; data cloud may not be enabled for this org", resp.StatusCode)
	}

	var creds dataCloudCredentials
	if err := json.NewDecoder(resp.Body).Decode(&creds); err != nil {
		return nil, fmt.Errorf("decode token exchange response: %w", err)
	}

	// The exchange sometimes returns the instance host without a scheme.
	creds.InstanceURL = strings.TrimRight(creds.InstanceURL, "/")
	if creds.InstanceURL != "" && !strings.HasPrefix(creds.InstanceURL, "http://") &&
		!strings.HasPrefix(creds.InstanceURL, "https://") {
		creds.InstanceURL = "https://" + creds.InstanceURL
	}
	return &creds, nil
}

// credentials returns cached Data Cloud credentials, exchanging anew
// once the previous set ages out.
func (c *DataCloudClient) credentials(ctx context.Context) (*dataCloudCredentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.creds != nil && time.Now().Before(c.credsExpiry) {
		return c.creds, nil
	}

	creds, err := c.exchangeToken(ctx)
	if err != nil {
		return nil, err
	}
	c.creds = creds
	c.credsExpiry = time.Now().Add(dcTokenTTL)
	c.logger.Debug("data cloud token exchanged", "instance", creds.InstanceURL)
	return creds, nil
}

// CheckEnabled reports whether Data Cloud is provisioned and reachable
// for this org: the token exchange succeeds and the Metadata API
// answers. A disabled org is a false result, not an error.
func (c *DataCloudClient) CheckEnabled(ctx context.Context) (bool, error) {
	creds, err := c.credentials(ctx)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeSalesforceAuth) {
			return false, nil
		}
		return false, err
	}

	if err := c.get(ctx, creds, dcMetadataPath, nil, nil); err != nil {
		var statusErr *httputil.StatusError
		if errors.As(err, &statusErr) {
			return false, nil
		}
		return false, c.mapError(err)
	}
	return true, nil
}

// dcMetadataResponse is the Metadata API envelope.
type dcMetadataResponse struct {
	Metadata []dcEntityPayload `json:"metadata"`
}

// dcEntityPayload is one raw entity from the Metadata API. It extends
// the schema types with the variants the API actually emits: a legacy
// "type" alias for dataType and primary keys as objects.
type dcEntityPayload struct {
	Name          string                             `json:"name"`
	DisplayName   string                             `json:"displayName"`
	EntityType    string                             `json:"entityType"`
	Category      string                             `json:"category"`
	Description   string                             `json:"description"`
	Standard      bool                               `json:"isStandard"`
	Fields        []dcFieldPayload                   `json:"fields"`
	Relationships []schema.DataCloudRelationshipInfo `json:"relationships"`
	PrimaryKeys   []dcPrimaryKey                     `json:"primaryKeys"`
}

type dcFieldPayload struct {
	schema.DataCloudFieldInfo
	LegacyType string `json:"type"`
}

type dcPrimaryKey struct {
	Name string `json:"name"`
}

// ListEntities lists Data Cloud entities, optionally filtered to one
// entity type (DataLakeObject or DataModelObject; empty lists both).
// Listings are cached per instance and filter.
func (c *DataCloudClient) ListEntities(ctx context.Context, entityType string) ([]schema.DataCloudEntityBasicInfo, error) {
	switch entityType {
	case "", schema.DataCloudEntityTypeDLO, schema.DataCloudEntityTypeDMO:
	default:
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput,
			"invalid entity type: %q (must be DataLakeObject or DataModelObject)", entityType)
	}

	key := c.keyer.HTTPKey("datacloud", c.instanceURL+":"+entityType)
	if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var entities []schema.DataCloudEntityBasicInfo
		if err := json.Unmarshal(data, &entities); err == nil {
			return entities, nil
		}
	}

	creds, err := c.credentials(ctx)
	if err != nil {
		return nil, err
	}

	types := []string{entityType}
	if entityType == "" {
		types = []string{schema.DataCloudEntityTypeDMO, schema.DataCloudEntityTypeDLO}
	}

	var entities []schema.DataCloudEntityBasicInfo
	for _, t := range types {
		var resp dcMetadataResponse
		query := url.Values{"entityType": {t}}
		if err := c.get(ctx, creds, dcMetadataPath, query, &resp); err != nil {
			return nil, c.mapError(err)
		}
		for _, e := range resp.Metadata {
			info := schema.DataCloudEntityBasicInfo{
				Name:        e.Name,
				DisplayName: e.DisplayName,
				EntityType:  e.EntityType,
				Category:    e.Category,
				Description: e.Description,
				Standard:    e.Standard,
			}
			if info.DisplayName == "" {
				info.DisplayName = info.Name
			}
			if info.EntityType == "" {
				info.EntityType = t
			}
			entities = append(entities, info)
		}
	}

	if data, err := json.Marshal(entities); err == nil {
		if err := c.cache.Set(ctx, key, data, cache.TTLDescribe); err != nil {
			c.logger.Warn("cache data cloud entities", "err", err)
		}
	}
	return entities, nil
}

// DescribeEntity returns the full describe for one Data Cloud entity,
// including relationships derived from foreign key fields.
func (c *DataCloudClient) DescribeEntity(ctx context.Context, name string) (*schema.DataCloudEntityDescribe, error) {
	if err := apperrors.ValidateObjectName(name); err != nil {
		return nil, err
	}

	creds, err := c.credentials(ctx)
	if err != nil {
		return nil, err
	}

	var resp dcMetadataResponse
	query := url.Values{"entityName": {name}}
	if err := c.get(ctx, creds, dcMetadataPath, query, &resp); err != nil {
		return nil, c.mapEntityError(err, name)
	}
	if len(resp.Metadata) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeObjectNotFound, "entity not found in data cloud: %s", name)
	}

	describe := transformEntity(resp.Metadata[0])
	return &describe, nil
}

// DescribeEntities describes multiple entities, collecting per-entity
// errors instead of failing the whole batch. The Metadata API has no
// composite endpoint, so describes run sequentially; context
// cancellation aborts the remainder.
func (c *DataCloudClient) DescribeEntities(ctx context.Context, names []string) (*schema.DataCloudBatchResult, error) {
	result := &schema.DataCloudBatchResult{
		Results: make([]schema.DataCloudEntityDescribe, 0, len(names)),
		Errors:  make(map[string]string),
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d, err := c.DescribeEntity(ctx, name)
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

// transformEntity normalizes a raw Metadata API entity: legacy type
// aliases, primary keys from either the field flags or the dedicated
// list, and implicit relationships for foreign key fields that lack a
// declared one.
func transformEntity(e dcEntityPayload) schema.DataCloudEntityDescribe {
	d := schema.DataCloudEntityDescribe{
		Name:          e.Name,
		DisplayName:   e.DisplayName,
		EntityType:    e.EntityType,
		Category:      e.Category,
		Description:   e.Description,
		Standard:      e.Standard,
		Fields:        make([]schema.DataCloudFieldInfo, 0, len(e.Fields)),
		Relationships: e.Relationships,
	}
	if d.DisplayName == "" {
		d.DisplayName = d.Name
	}
	if d.EntityType == "" {
		d.EntityType = schema.DataCloudEntityTypeDMO
	}

	declared := make(map[string]bool, len(e.Relationships))
	for _, rel := range e.Relationships {
		declared[rel.Name] = true
	}

	for _, f := range e.Fields {
		field := f.DataCloudFieldInfo
		if field.DataType == "" {
			field.DataType = f.LegacyType
		}
		if field.DisplayName == "" {
			field.DisplayName = field.Name
		}
		d.Fields = append(d.Fields, field)

		if field.PrimaryKey {
			d.PrimaryKeys = append(d.PrimaryKeys, field.Name)
		}
		if field.ForeignKey && field.ReferenceTo != "" {
			relName := field.Name + "_rel"
			if !declared[relName] {
				declared[relName] = true
				d.Relationships = append(d.Relationships, schema.DataCloudRelationshipInfo{
					Name:             relName,
					FromField:        field.Name,
					ToEntity:         field.ReferenceTo,
					RelationshipType: "ForeignKey",
				})
			}
		}
	}

	// Some payloads carry primary keys only in the dedicated list.
	if len(d.PrimaryKeys) == 0 {
		for _, pk := range e.PrimaryKeys {
			if pk.Name != "" {
				d.PrimaryKeys = append(d.PrimaryKeys, pk.Name)
			}
		}
	}
	return d
}

func (c *DataCloudClient) get(ctx context.Context, creds *dataCloudCredentials, path string, query url.Values, v any) error {
	rawURL := creds.InstanceURL + path
	if len(query) > 0 {
		rawURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	req.Header.Set("Accept", "application/json")
	return httputil.DoJSON(ctx, c.httpClient, req, v)
}

// mapError converts transport errors into coded errors. A 404 from the
// Metadata API root means the org has no Data Cloud provisioned.
func (c *DataCloudClient) mapError(err error) error {
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized:
			return apperrors.Wrap(apperrors.ErrCodeSessionExpired, err, "data cloud session expired")
		case http.StatusForbidden:
			return apperrors.Wrap(apperrors.ErrCodeForbidden, err, "access denied by data cloud")
		case http.StatusNotFound:
			return apperrors.Wrap(apperrors.ErrCodeSalesforceAuth, err, "data cloud is not enabled for this org")
		}
		return apperrors.Wrap(apperrors.ErrCodeSalesforceAPI, err, "data cloud API error")
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperrors.Wrap(apperrors.ErrCodeNetwork, err, "data cloud request failed")
}

// mapEntityError is mapError specialized for a single entity lookup,
// where a 404 names the entity instead of the org.
func (c *DataCloudClient) mapEntityError(err error, entity string) error {
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
		return apperrors.Wrap(apperrors.ErrCodeObjectNotFound, err, "entity not found in data cloud: %s", entity)
	}
	return c.mapError(err)
}
