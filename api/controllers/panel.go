package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/samboni/storefront-backend/api/responses"
	"github.com/samboni/storefront-backend/internal/cartui"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

// PanelSession issues and resolves the browser session the cart
// identity hangs off. The cookie is an opaque uuid; the cart id it maps
// to lives server-side in the identity store.
type PanelSession struct {
	CookieName string
	TTL        time.Duration
}

func (p PanelSession) resolve(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(p.CookieName); err == nil && c.Value != "" {
		return c.Value
	}

	sessionID := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     p.CookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(p.TTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}

// PanelGet renders the current cart panel. Load failures degrade to a
// visible error fragment with a 200 so the drawer never breaks.
func PanelGet(ctrl *cartui.Controller, session PanelSession, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := session.resolve(w, r)

		html, err := ctrl.Panel(r.Context(), sessionID)
		if err != nil && logg != nil {
			logg.Error(logg.WithSessionID(r.Context(), sessionID), "panel.load", err)
		}
		responses.WriteHTML(w, http.StatusOK, html)
	}
}

func PanelAdd(ctrl *cartui.Controller, session PanelSession, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := session.resolve(w, r)

		variantID := strings.TrimSpace(r.FormValue("variant_id"))
		if variantID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "variant_id is required"))
			return
		}

		html, err := ctrl.Add(r.Context(), sessionID, variantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteHTML(w, http.StatusOK, html)
	}
}

// PanelIncrease bumps a line by one. When the displayed quantity is
// already at the stock ceiling the request is answered 204 without any
// upstream traffic, mirroring the disabled control in the fragment.
func PanelIncrease(ctrl *cartui.Controller, session PanelSession, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := session.resolve(w, r)

		action, err := lineActionFromForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		html, changed, err := ctrl.Increase(r.Context(), sessionID, action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !changed {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		responses.WriteHTML(w, http.StatusOK, html)
	}
}

func PanelDecrease(ctrl *cartui.Controller, session PanelSession, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := session.resolve(w, r)

		action, err := lineActionFromForm(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		html, err := ctrl.Decrease(r.Context(), sessionID, action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteHTML(w, http.StatusOK, html)
	}
}

func PanelRemove(ctrl *cartui.Controller, session PanelSession, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := session.resolve(w, r)

		lineID := strings.TrimSpace(r.FormValue("line_id"))
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line_id is required"))
			return
		}

		html, err := ctrl.Remove(r.Context(), sessionID, lineID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteHTML(w, http.StatusOK, html)
	}
}

// lineActionFromForm reads the state the fragment round-trips through
// its data attributes: line id, displayed quantity, stock ceiling.
func lineActionFromForm(r *http.Request) (cartui.LineAction, error) {
	lineID := strings.TrimSpace(r.FormValue("line_id"))
	if lineID == "" {
		return cartui.LineAction{}, pkgerrors.New(pkgerrors.CodeValidation, "line_id is required")
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(r.FormValue("quantity")))
	if err != nil || quantity < 1 {
		return cartui.LineAction{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive number")
	}

	stockLimit := 0
	if raw := strings.TrimSpace(r.FormValue("stock_limit")); raw != "" {
		stockLimit, err = strconv.Atoi(raw)
		if err != nil || stockLimit < 0 {
			return cartui.LineAction{}, pkgerrors.New(pkgerrors.CodeValidation, "stock_limit must be a non-negative number")
		}
	}

	return cartui.LineAction{LineID: lineID, Quantity: quantity, StockLimit: stockLimit}, nil
}
