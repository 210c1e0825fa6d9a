package catalog

import (
	"context"
	"errors"
	"strings"

	pkgerrors "github.com/samboni/storefront-backend/pkg/errors"
	"github.com/samboni/storefront-backend/pkg/shopify"
)

const (
	// Listing defaults when the caller passes no limit.
	DefaultCollectionLimit = 10
	DefaultProductLimit    = 12
)

var errClientRequired = errors.New("storefront graphql client is required")

const collectionsQuery = `query($first: Int!) {
  collections(first: $first) {
    edges {
      node {
        id
        title
        handle
        updatedAt
      }
    }
  }
}`

const productsQuery = `query($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        handle
        description
      }
    }
  }
}`

const collectionProductsQuery = `query($handle: String!, $first: Int!) {
  collection(handle: $handle) {
    id
    title
    handle
    products(first: $first) {
      edges {
        node {
          id
          title
          handle
          description
          priceRange {
            minVariantPrice {
              amount
              currencyCode
            }
          }
          variants(first: 1) {
            edges {
              node {
                id
                title
                availableForSale
                quantityAvailable
              }
            }
          }
          images(first: 1) {
            edges {
              node {
                url
                altText
              }
            }
          }
        }
      }
    }
  }
}`

// Service lists catalog data from the storefront engine.
type Service interface {
	ListCollections(ctx context.Context, limit int) ([]Collection, error)
	ListProducts(ctx context.Context, limit int) ([]Product, error)
	ListCollectionProducts(ctx context.Context, handle string, limit int) ([]CollectionProduct, error)
}

type service struct {
	gql shopify.Doer
}

func NewService(gql shopify.Doer) (Service, error) {
	if gql == nil {
		return nil, errClientRequired
	}
	return &service{gql: gql}, nil
}

func (s *service) ListCollections(ctx context.Context, limit int) ([]Collection, error) {
	if limit <= 0 {
		limit = DefaultCollectionLimit
	}

	var data struct {
		Collections edges[Collection] `json:"collections"`
	}
	if err := s.gql.Query(ctx, collectionsQuery, map[string]any{"first": limit}, &data); err != nil {
		return nil, err
	}
	return data.Collections.nodes(), nil
}

func (s *service) ListProducts(ctx context.Context, limit int) ([]Product, error) {
	if limit <= 0 {
		limit = DefaultProductLimit
	}

	var data struct {
		Products edges[Product] `json:"products"`
	}
	if err := s.gql.Query(ctx, productsQuery, map[string]any{"first": limit}, &data); err != nil {
		return nil, err
	}
	return data.Products.nodes(), nil
}

// ListCollectionProducts resolves a collection by handle. A handle that
// matches no collection is NotFound, distinct from an existing empty
// collection which returns an empty list.
func (s *service) ListCollectionProducts(ctx context.Context, handle string, limit int) ([]CollectionProduct, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "collection handle is required")
	}
	if limit <= 0 {
		limit = DefaultProductLimit
	}

	var data struct {
		Collection *struct {
			Products edges[upstreamCollectionProduct] `json:"products"`
		} `json:"collection"`
	}
	if err := s.gql.Query(ctx, collectionProductsQuery, map[string]any{"handle": handle, "first": limit}, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
	}

	raw := data.Collection.Products.nodes()
	products := make([]CollectionProduct, 0, len(raw))
	for _, p := range raw {
		products = append(products, reshapeCollectionProduct(p))
	}
	return products, nil
}
