package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/samboni/storefront-backend/internal/analytics"
	"github.com/samboni/storefront-backend/pkg/config"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/shopify"
)

// LineInput adds a quantity of one variant to a cart.
type LineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// UpdateLineInput sets the quantity of an existing line. Quantity zero
// is expressed as a removal, never an update.
type UpdateLineInput struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Service proxies cart operations to the upstream cart engine. Each
// operation issues exactly one GraphQL call; ambiguous failures are
// never retried because the upstream offers no exactly-once guarantee.
type Service interface {
	CreateCart(ctx context.Context, lines []LineInput) (*Cart, error)
	AddLines(ctx context.Context, cartID string, lines []LineInput) (*Cart, error)
	UpdateLines(ctx context.Context, cartID string, lines []UpdateLineInput) (*Cart, error)
	RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*Cart, error)
	GetCart(ctx context.Context, cartID string) (*Cart, error)
}

type service struct {
	gql     shopify.Doer
	queries queries
	events  analytics.Publisher
}

// NewService builds the cart gateway over the given GraphQL client.
func NewService(gql shopify.Doer, cfg config.CartConfig, events analytics.Publisher) (Service, error) {
	if gql == nil {
		return nil, fmt.Errorf("shopify client required")
	}
	if events == nil {
		events = analytics.NoopPublisher{}
	}
	pageSize := cfg.LinePageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	return &service{
		gql:     gql,
		queries: buildQueries(pageSize),
		events:  events,
	}, nil
}

type mutationPayload struct {
	Cart       *upstreamCart       `json:"cart"`
	UserErrors []shopify.UserError `json:"userErrors"`
}

func (s *service) CreateCart(ctx context.Context, lines []LineInput) (*Cart, error) {
	if err := validateLineInputs(lines); err != nil {
		return nil, err
	}

	var out struct {
		CartCreate mutationPayload `json:"cartCreate"`
	}
	err := s.gql.Query(ctx, s.queries.create, map[string]any{
		"input": map[string]any{"lines": lines},
	}, &out)
	if err != nil {
		return nil, err
	}

	cart, err := resolveMutation(out.CartCreate, "cartCreate")
	if err != nil {
		return nil, err
	}
	s.events.PublishCartEvent(ctx, analytics.CartEvent{
		Type:      analytics.EventCartCreated,
		CartID:    cart.ID,
		LineCount: len(cart.Lines),
	})
	return cart, nil
}

func (s *service) AddLines(ctx context.Context, cartID string, lines []LineInput) (*Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}
	if err := validateLineInputs(lines); err != nil {
		return nil, err
	}

	var out struct {
		CartLinesAdd mutationPayload `json:"cartLinesAdd"`
	}
	err := s.gql.Query(ctx, s.queries.add, map[string]any{
		"cartId": cartID,
		"lines":  lines,
	}, &out)
	if err != nil {
		return nil, err
	}

	cart, err := resolveMutation(out.CartLinesAdd, "cartLinesAdd")
	if err != nil {
		return nil, err
	}
	s.events.PublishCartEvent(ctx, analytics.CartEvent{
		Type:      analytics.EventLinesAdded,
		CartID:    cart.ID,
		LineCount: len(cart.Lines),
	})
	return cart, nil
}

func (s *service) UpdateLines(ctx context.Context, cartID string, lines []UpdateLineInput) (*Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	for _, line := range lines {
		if strings.TrimSpace(line.ID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1; remove the line instead")
		}
	}

	var out struct {
		CartLinesUpdate mutationPayload `json:"cartLinesUpdate"`
	}
	err := s.gql.Query(ctx, s.queries.update, map[string]any{
		"cartId": cartID,
		"lines":  lines,
	}, &out)
	if err != nil {
		return nil, err
	}

	cart, err := resolveMutation(out.CartLinesUpdate, "cartLinesUpdate")
	if err != nil {
		return nil, err
	}
	s.events.PublishCartEvent(ctx, analytics.CartEvent{
		Type:      analytics.EventLinesUpdated,
		CartID:    cart.ID,
		LineCount: len(cart.Lines),
	})
	return cart, nil
}

func (s *service) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}
	if len(lineIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line id is required")
	}

	var out struct {
		CartLinesRemove mutationPayload `json:"cartLinesRemove"`
	}
	err := s.gql.Query(ctx, s.queries.remove, map[string]any{
		"cartId":  cartID,
		"lineIds": lineIDs,
	}, &out)
	if err != nil {
		return nil, err
	}

	cart, err := resolveMutation(out.CartLinesRemove, "cartLinesRemove")
	if err != nil {
		return nil, err
	}
	s.events.PublishCartEvent(ctx, analytics.CartEvent{
		Type:      analytics.EventLinesRemoved,
		CartID:    cart.ID,
		LineCount: len(cart.Lines),
	})
	return cart, nil
}

// GetCart resolves the cart by id. An unknown or expired id is a normal
// outcome and maps to NOT_FOUND, never a crash.
func (s *service) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	if err := validateCartID(cartID); err != nil {
		return nil, err
	}

	var out struct {
		Cart *upstreamCart `json:"cart"`
	}
	if err := s.gql.Query(ctx, s.queries.get, map[string]any{"cartId": cartID}, &out); err != nil {
		return nil, err
	}
	if out.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return reshape(out.Cart), nil
}

func resolveMutation(payload mutationPayload, op string) (*Cart, error) {
	if len(payload.UserErrors) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, payload.UserErrors[0].Message).
			WithDetails(map[string]any{"userErrors": payload.UserErrors})
	}
	if payload.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUpstream, op+" returned no cart")
	}
	return reshape(payload.Cart), nil
}

func validateCartID(cartID string) error {
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cartId is required")
	}
	return nil
}

func validateLineInputs(lines []LineInput) error {
	if len(lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	for _, line := range lines {
		if strings.TrimSpace(line.MerchandiseID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "merchandiseId is required")
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}
	}
	return nil
}
