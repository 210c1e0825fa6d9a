package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/samboni/storefront-backend/internal/cart"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

type stubCartService struct {
	cart       *cart.Cart
	err        error
	calls      int
	lastCartID string
}

func (s *stubCartService) CreateCart(_ context.Context, _ []cart.LineInput) (*cart.Cart, error) {
	s.calls++
	return s.cart, s.err
}

func (s *stubCartService) AddLines(_ context.Context, cartID string, _ []cart.LineInput) (*cart.Cart, error) {
	s.calls++
	s.lastCartID = cartID
	return s.cart, s.err
}

func (s *stubCartService) UpdateLines(_ context.Context, cartID string, _ []cart.UpdateLineInput) (*cart.Cart, error) {
	s.calls++
	s.lastCartID = cartID
	return s.cart, s.err
}

func (s *stubCartService) RemoveLines(_ context.Context, cartID string, _ []string) (*cart.Cart, error) {
	s.calls++
	s.lastCartID = cartID
	return s.cart, s.err
}

func (s *stubCartService) GetCart(_ context.Context, cartID string) (*cart.Cart, error) {
	s.calls++
	s.lastCartID = cartID
	return s.cart, s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body["error"]
}

func TestCartCreateReturnsBareCart(t *testing.T) {
	svc := &stubCartService{cart: &cart.Cart{ID: "gid://shopify/Cart/abc"}}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shopify/cart/create", strings.NewReader(
		`{"lines":[{"merchandiseId":"gid://shopify/ProductVariant/1","quantity":1}]}`,
	))
	CartCreate(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body cart.Cart
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode cart: %v", err)
	}
	if body.ID != "gid://shopify/Cart/abc" {
		t.Fatalf("unexpected cart payload: %+v", body)
	}
}

func TestCartCreateRejectsEmptyLines(t *testing.T) {
	svc := &stubCartService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shopify/cart/create", strings.NewReader(`{"lines":[]}`))
	CartCreate(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("invalid input must not reach the service")
	}
}

func TestCartAddRequiresCartID(t *testing.T) {
	svc := &stubCartService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shopify/cart/add", strings.NewReader(
		`{"lines":[{"merchandiseId":"gid://shopify/ProductVariant/1","quantity":1}]}`,
	))
	CartAdd(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("missing cart id must not reach the service")
	}
}

func TestCartUpdateSurfacesUserErrorMessage(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "The merchandise line is sold out")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shopify/cart/update", strings.NewReader(
		`{"cartId":"gid://shopify/Cart/abc","lines":[{"id":"gid://shopify/CartLine/1","quantity":2}]}`,
	))
	CartUpdate(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "The merchandise line is sold out" {
		t.Fatalf("expected upstream user error surfaced, got %q", msg)
	}
}

func TestCartRemoveRequiresLineIDs(t *testing.T) {
	svc := &stubCartService{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/shopify/cart/remove", strings.NewReader(
		`{"cartId":"gid://shopify/Cart/abc","lineIds":[]}`,
	))
	CartRemove(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartGet(t *testing.T) {
	svc := &stubCartService{cart: &cart.Cart{ID: "gid://shopify/Cart/abc"}}
	rec := httptest.NewRecorder()
	CartGet(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shopify/get-cart?id=gid://shopify/Cart/abc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastCartID != "gid://shopify/Cart/abc" {
		t.Fatalf("cart id not passed through, got %q", svc.lastCartID)
	}
}

func TestCartGetMissingID(t *testing.T) {
	svc := &stubCartService{}
	rec := httptest.NewRecorder()
	CartGet(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shopify/get-cart", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Fatal("missing id must not reach the service")
	}
}

func TestCartGetExpiredCartIs404(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")}
	rec := httptest.NewRecorder()
	CartGet(svc, testLogger()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/shopify/get-cart?id=gid://shopify/Cart/expired", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if msg := decodeError(t, rec); msg != "cart not found" {
		t.Fatalf("unexpected message %q", msg)
	}
}
