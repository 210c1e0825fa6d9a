package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/samboni/storefront-backend/pkg/config"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

var (
	errBaseURLRequired = errors.New("cms base url is required")
	errLoggerRequired  = errors.New("cms logger is required")
)

// Doer fetches reshaped CMS documents. Implemented by *Client.
type Doer interface {
	GetGlobal(ctx context.Context, slug string, out any) error
	ListDocuments(ctx context.Context, collection string, params url.Values, out any) error
}

// Client reads documents from the headless CMS REST API. It only ever
// issues GETs; all writes go through the CMS admin, which owns auth.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logger.Logger
}

func NewClient(ctx context.Context, cfg config.CMSConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		logger:     logg,
	}

	logg.Info(ctx, "cms client initialized")
	return c, nil
}

// GetGlobal fetches a CMS global document (navigation, faq-page, ...).
func (c *Client) GetGlobal(ctx context.Context, slug string, out any) error {
	return c.get(ctx, fmt.Sprintf("%s/api/globals/%s", c.baseURL, url.PathEscape(slug)), out)
}

// ListDocuments fetches a collection listing with Payload-style query
// params (where clauses, limit, page, sort).
func (c *Client) ListDocuments(ctx context.Context, collection string, params url.Values, out any) error {
	endpoint := fmt.Sprintf("%s/api/%s", c.baseURL, url.PathEscape(collection))
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	return c.get(ctx, endpoint, out)
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building cms request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "cms request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "reading cms response")
	}

	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, "cms document not found")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := &pkgerrors.UpstreamDetail{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     string(raw),
		}
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, detail, "cms returned an error status")
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decoding cms response")
	}
	return nil
}

// Ping verifies the CMS is reachable via the navigation global.
func (c *Client) Ping(ctx context.Context) error {
	return c.GetGlobal(ctx, "navigation", nil)
}
