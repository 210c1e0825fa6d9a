package controllers

import (
	"net/http"
	"strings"

	"github.com/samboni/storefront-backend/api/responses"
	"github.com/samboni/storefront-backend/api/validators"
	"github.com/samboni/storefront-backend/internal/cart"
	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/logger"
)

type cartLineInput struct {
	MerchandiseID string `json:"merchandiseId" validate:"required"`
	Quantity      int    `json:"quantity" validate:"min=1"`
}

type updateLineInput struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity"`
}

type createCartRequest struct {
	Lines []cartLineInput `json:"lines" validate:"required,min=1,dive"`
}

type addLinesRequest struct {
	CartID string          `json:"cartId" validate:"required"`
	Lines  []cartLineInput `json:"lines" validate:"required,min=1,dive"`
}

type updateLinesRequest struct {
	CartID string            `json:"cartId" validate:"required"`
	Lines  []updateLineInput `json:"lines" validate:"required,min=1,dive"`
}

type removeLinesRequest struct {
	CartID  string   `json:"cartId" validate:"required"`
	LineIDs []string `json:"lineIds" validate:"required,min=1"`
}

func toLineInputs(in []cartLineInput) []cart.LineInput {
	out := make([]cart.LineInput, 0, len(in))
	for _, l := range in {
		out = append(out, cart.LineInput{MerchandiseID: l.MerchandiseID, Quantity: l.Quantity})
	}
	return out
}

func CartCreate(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCartRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateCart(r.Context(), toLineInputs(req.Lines))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, created)
	}
}

func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addLinesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.AddLines(r.Context(), req.CartID, toLineInputs(req.Lines))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, updated)
	}
}

func CartUpdate(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateLinesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]cart.UpdateLineInput, 0, len(req.Lines))
		for _, l := range req.Lines {
			lines = append(lines, cart.UpdateLineInput{ID: l.ID, Quantity: l.Quantity})
		}

		updated, err := svc.UpdateLines(r.Context(), req.CartID, lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, updated)
	}
}

func CartRemove(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req removeLinesRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.RemoveLines(r.Context(), req.CartID, req.LineIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, updated)
	}
}

func CartGet(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cartID := strings.TrimSpace(r.URL.Query().Get("id"))
		if cartID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required"))
			return
		}

		current, err := svc.GetCart(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, current)
	}
}
