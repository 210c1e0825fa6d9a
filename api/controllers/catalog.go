package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samboni/storefront-backend/api/responses"
	"github.com/samboni/storefront-backend/api/validators"
	"github.com/samboni/storefront-backend/internal/catalog"
	"github.com/samboni/storefront-backend/pkg/logger"
)

const maxListLimit = 100

func CatalogCollections(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", catalog.DefaultCollectionLimit, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		collections, err := svc.ListCollections(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, collections)
	}
}

func CatalogProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", catalog.DefaultProductLimit, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListProducts(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, products)
	}
}

func CatalogCollectionProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := chi.URLParam(r, "handle")
		limit, err := validators.ParseQueryInt(r, "limit", catalog.DefaultProductLimit, 1, maxListLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListCollectionProducts(r.Context(), handle, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, products)
	}
}
