package cms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/samboni/storefront-backend/pkg/config"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	c, err := NewClient(context.Background(), config.CMSConfig{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
	}, logg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestGetGlobal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/globals/navigation" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"brandName":"Samboni"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	var out struct {
		BrandName string `json:"brandName"`
	}
	if err := c.GetGlobal(context.Background(), "navigation", &out); err != nil {
		t.Fatalf("GetGlobal: %v", err)
	}
	if out.BrandName != "Samboni" {
		t.Fatalf("unexpected brand %q", out.BrandName)
	}
}

func TestListDocumentsEncodesParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/articles" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("where[status][equals]"); got != "published" {
			t.Errorf("missing where clause, got %q", got)
		}
		w.Write([]byte(`{"docs":[],"totalDocs":0}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	params := url.Values{}
	params.Set("where[status][equals]", "published")
	var out map[string]any
	if err := c.ListDocuments(context.Background(), "articles", params, &out); err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
}

func TestGetGlobalMapsStatuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/globals/missing":
			http.NotFound(w, r)
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv)
	err := c.GetGlobal(context.Background(), "missing", nil)
	if !pkgerrors.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	err = c.GetGlobal(context.Background(), "broken", nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
