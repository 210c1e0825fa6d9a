package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/samboni/storefront-backend/pkg/config"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

const tokenHeader = "X-Shopify-Storefront-Access-Token"

var (
	errStoreDomainRequired = errors.New("shopify store domain is required")
	errLoggerRequired      = errors.New("shopify logger is required")
)

// Doer executes a single Storefront GraphQL operation and decodes the
// data payload into out. Implemented by *Client; stubbed in tests.
type Doer interface {
	Query(ctx context.Context, query string, variables map[string]any, out any) error
}

// UserError mirrors Shopify's per-line mutation error entries, which
// must be checked even on HTTP 200.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

// Client is a thin wrapper over the Storefront GraphQL endpoint with
// centralized auth, logging and error mapping. It never retries.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *logger.Logger
}

// NewClient validates the credentials and builds the client. A missing
// access token is a configuration failure surfaced at startup rather
// than on the first storefront request.
func NewClient(ctx context.Context, cfg config.ShopifyConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.StoreDomain) == "" {
		return nil, errStoreDomainRequired
	}
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeConfiguration, "shopify storefront access token is not configured")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		endpoint:   cfg.Endpoint(),
		token:      cfg.AccessToken,
		logger:     logg,
	}

	logg.Info(ctx, "shopify storefront client initialized")
	return c, nil
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// Query issues one GraphQL call and decodes the data payload into out.
// Transport failures, non-2xx statuses and top-level GraphQL errors all
// map to UPSTREAM_ERROR; raw upstream diagnostics ride along on the
// error chain for the response writer to log once.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding graphql request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building graphql request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "shopify request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "reading shopify response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := &pkgerrors.UpstreamDetail{
			Endpoint: c.endpoint,
			Status:   resp.StatusCode,
			Body:     truncate(string(raw), 2048),
		}
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, detail, "shopify returned an error status")
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "malformed shopify response")
	}
	if len(parsed.Errors) > 0 {
		return pkgerrors.New(pkgerrors.CodeUpstream, parsed.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	if len(parsed.Data) == 0 {
		return pkgerrors.New(pkgerrors.CodeUpstream, "shopify response missing data")
	}
	if err := json.Unmarshal(parsed.Data, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding shopify data payload")
	}
	return nil
}

const pingQuery = `query { shop { name } }`

// Ping issues a minimal query to verify endpoint reachability.
func (c *Client) Ping(ctx context.Context) error {
	return c.Query(ctx, pingQuery, nil, nil)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
