package cart

// Money is a decimal amount as returned by the Storefront API.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

type Image struct {
	URL string `json:"url"`
}

type Product struct {
	Title         string `json:"title"`
	FeaturedImage *Image `json:"featuredImage,omitempty"`
}

// Merchandise is the purchasable variant referenced by a cart line.
type Merchandise struct {
	VariantID         string  `json:"variantId"`
	Title             string  `json:"title"`
	PriceV2           Money   `json:"priceV2"`
	Product           Product `json:"product"`
	QuantityAvailable int     `json:"quantityAvailable"`
}

// CartLine is a quantity of one product variant within a cart. Line ids
// are stable across quantity updates but not across remove+re-add.
type CartLine struct {
	ID          string      `json:"id"`
	Quantity    int         `json:"quantity"`
	Merchandise Merchandise `json:"merchandise"`
}

type CartCost struct {
	TotalAmount    Money `json:"totalAmount"`
	SubtotalAmount Money `json:"subtotalAmount"`
}

// Cart is the reshaped representation served to the storefront. Line
// order is insertion order as returned by the upstream engine.
type Cart struct {
	ID          string     `json:"id"`
	CheckoutURL string     `json:"checkoutUrl"`
	Lines       []CartLine `json:"lines"`
	Cost        CartCost   `json:"cost"`
}

// upstream wire shapes (Shopify's edges/node connection layout)

type upstreamCart struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
	Lines       struct {
		Edges []struct {
			Node upstreamLine `json:"node"`
		} `json:"edges"`
	} `json:"lines"`
	Cost CartCost `json:"cost"`
}

type upstreamLine struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Merchandise struct {
		ID                string  `json:"id"`
		Title             string  `json:"title"`
		QuantityAvailable int     `json:"quantityAvailable"`
		PriceV2           Money   `json:"priceV2"`
		Product           Product `json:"product"`
	} `json:"merchandise"`
}

func reshape(raw *upstreamCart) *Cart {
	if raw == nil {
		return nil
	}
	lines := make([]CartLine, 0, len(raw.Lines.Edges))
	for _, edge := range raw.Lines.Edges {
		node := edge.Node
		lines = append(lines, CartLine{
			ID:       node.ID,
			Quantity: node.Quantity,
			Merchandise: Merchandise{
				VariantID:         node.Merchandise.ID,
				Title:             node.Merchandise.Title,
				PriceV2:           node.Merchandise.PriceV2,
				Product:           node.Merchandise.Product,
				QuantityAvailable: node.Merchandise.QuantityAvailable,
			},
		})
	}
	return &Cart{
		ID:          raw.ID,
		CheckoutURL: raw.CheckoutURL,
		Lines:       lines,
		Cost:        raw.Cost,
	}
}
