package catalog

// Collection is a storefront collection summary.
type Collection struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Handle    string `json:"handle"`
	UpdatedAt string `json:"updatedAt"`
}

// Product is the listing-level product shape.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
}

type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Variant struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	AvailableForSale  bool   `json:"availableForSale"`
	QuantityAvailable int    `json:"quantityAvailable"`
}

type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

// CollectionProduct carries the richer shape the storefront needs for
// collection pages: price floor, first variant, first image.
type CollectionProduct struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Handle      string   `json:"handle"`
	Description string   `json:"description"`
	MinPrice    Money    `json:"minPrice"`
	Variant     *Variant `json:"variant,omitempty"`
	Image       *Image   `json:"image,omitempty"`
}

// upstream wire shapes

type edges[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

func (e edges[T]) nodes() []T {
	out := make([]T, 0, len(e.Edges))
	for _, edge := range e.Edges {
		out = append(out, edge.Node)
	}
	return out
}

type upstreamCollectionProduct struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Handle      string `json:"handle"`
	Description string `json:"description"`
	PriceRange  struct {
		MinVariantPrice Money `json:"minVariantPrice"`
	} `json:"priceRange"`
	Variants edges[Variant] `json:"variants"`
	Images   edges[Image]   `json:"images"`
}

func reshapeCollectionProduct(raw upstreamCollectionProduct) CollectionProduct {
	p := CollectionProduct{
		ID:          raw.ID,
		Title:       raw.Title,
		Handle:      raw.Handle,
		Description: raw.Description,
		MinPrice:    raw.PriceRange.MinVariantPrice,
	}
	if variants := raw.Variants.nodes(); len(variants) > 0 {
		v := variants[0]
		p.Variant = &v
	}
	if images := raw.Images.nodes(); len(images) > 0 {
		img := images[0]
		p.Image = &img
	}
	return p
}
