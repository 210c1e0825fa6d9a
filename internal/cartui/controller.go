package cartui

import (
	"context"
	"fmt"
	"time"

	"github.com/samboni/storefront-backend/internal/cart"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

// LineAction carries the displayed state a quantity control round-trips
// with the panel fragment. Preconditions (stock ceiling, quantity
// floor) are checked against this state before any upstream call.
type LineAction struct {
	LineID     string
	Quantity   int
	StockLimit int
}

// Controller drives the per-line state machine {absent,
// present(quantity, stockLimit)}. No optimistic mutation: after every
// write the panel is regenerated from the gateway's authoritative
// response, so displayed state always matches the last-completed
// response. Concurrent rapid clicks are deliberately not serialized;
// the last response to resolve wins the re-render.
type Controller struct {
	gateway  cart.Service
	identity IdentityStore
	renderer *Renderer
	settle   time.Duration
	sleep    func(context.Context, time.Duration)
	logg     *logger.Logger
}

// NewController wires the cart UI orchestration. settle is the pause
// observed after a successful add before re-reading cart state, to
// tolerate eventual-consistency lag upstream.
func NewController(gateway cart.Service, identity IdentityStore, renderer *Renderer, settle time.Duration, logg *logger.Logger) (*Controller, error) {
	if gateway == nil {
		return nil, fmt.Errorf("cart gateway required")
	}
	if identity == nil {
		return nil, fmt.Errorf("identity store required")
	}
	if renderer == nil {
		return nil, fmt.Errorf("renderer required")
	}
	return &Controller{
		gateway:  gateway,
		identity: identity,
		renderer: renderer,
		settle:   settle,
		sleep:    sleepContext,
		logg:     logg,
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Panel renders the current cart. Missing identity renders an empty
// panel without touching the upstream; an expired cart clears the
// stored id and renders empty; any other failure degrades to a visible
// error fragment alongside the error for the caller to log.
func (c *Controller) Panel(ctx context.Context, sessionID string) (string, error) {
	cartID, err := c.identity.CartID(ctx, sessionID)
	if err != nil {
		return c.renderer.RenderLoadError(), err
	}
	if cartID == "" {
		return c.renderer.RenderPanel(nil)
	}

	current, err := c.gateway.GetCart(ctx, cartID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			if clearErr := c.identity.Clear(ctx, sessionID); clearErr != nil && c.logg != nil {
				c.logg.Error(ctx, "clearing expired cart session", clearErr)
			}
			return c.renderer.RenderPanel(nil)
		}
		return c.renderer.RenderLoadError(), err
	}
	return c.renderer.RenderPanel(current)
}

// Add puts one unit of the variant in the cart, creating the cart (and
// storing its identity) when the session has none. The settling delay
// runs before the authoritative re-read.
func (c *Controller) Add(ctx context.Context, sessionID, variantID string) (string, error) {
	cartID, err := c.identity.CartID(ctx, sessionID)
	if err != nil {
		return "", err
	}

	line := []cart.LineInput{{MerchandiseID: variantID, Quantity: 1}}
	if cartID == "" {
		created, err := c.gateway.CreateCart(ctx, line)
		if err != nil {
			return "", err
		}
		cartID = created.ID
		if err := c.identity.SetCartID(ctx, sessionID, cartID); err != nil {
			return "", err
		}
	} else {
		if _, err := c.gateway.AddLines(ctx, cartID, line); err != nil {
			return "", err
		}
	}

	c.sleep(ctx, c.settle)
	return c.refresh(ctx, sessionID, cartID)
}

// Increase bumps a line's quantity by one. At the stock ceiling it is a
// guarded no-op: no upstream call, changed=false, panel untouched.
func (c *Controller) Increase(ctx context.Context, sessionID string, action LineAction) (html string, changed bool, err error) {
	limit := action.StockLimit
	if limit <= 0 {
		limit = c.renderer.defaultStock
	}
	if action.Quantity >= limit {
		return "", false, nil
	}

	cartID, err := c.identity.CartID(ctx, sessionID)
	if err != nil {
		return "", false, err
	}
	if cartID == "" {
		html, err := c.renderer.RenderPanel(nil)
		return html, true, err
	}

	updated, err := c.gateway.UpdateLines(ctx, cartID, []cart.UpdateLineInput{{ID: action.LineID, Quantity: action.Quantity + 1}})
	if err != nil {
		return "", false, err
	}
	html, err = c.renderer.RenderPanel(updated)
	return html, true, err
}

// Decrease lowers a line's quantity by one; from quantity 1 it removes
// the line outright, since a quantity-0 line does not exist.
func (c *Controller) Decrease(ctx context.Context, sessionID string, action LineAction) (string, error) {
	cartID, err := c.identity.CartID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if cartID == "" {
		return c.renderer.RenderPanel(nil)
	}

	var updated *cart.Cart
	if action.Quantity > 1 {
		updated, err = c.gateway.UpdateLines(ctx, cartID, []cart.UpdateLineInput{{ID: action.LineID, Quantity: action.Quantity - 1}})
	} else {
		updated, err = c.gateway.RemoveLines(ctx, cartID, []string{action.LineID})
	}
	if err != nil {
		return "", err
	}
	return c.renderer.RenderPanel(updated)
}

// Remove deletes a line regardless of quantity.
func (c *Controller) Remove(ctx context.Context, sessionID, lineID string) (string, error) {
	cartID, err := c.identity.CartID(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if cartID == "" {
		return c.renderer.RenderPanel(nil)
	}

	updated, err := c.gateway.RemoveLines(ctx, cartID, []string{lineID})
	if err != nil {
		return "", err
	}
	return c.renderer.RenderPanel(updated)
}

func (c *Controller) refresh(ctx context.Context, sessionID, cartID string) (string, error) {
	current, err := c.gateway.GetCart(ctx, cartID)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			if clearErr := c.identity.Clear(ctx, sessionID); clearErr != nil && c.logg != nil {
				c.logg.Error(ctx, "clearing expired cart session", clearErr)
			}
			return c.renderer.RenderPanel(nil)
		}
		return "", err
	}
	return c.renderer.RenderPanel(current)
}
