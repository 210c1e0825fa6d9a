package cartui

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/samboni/storefront-backend/internal/cart"
)

const fallbackImageURL = "https://placehold.co/600x400"

// Renderer maps cart state to the HTML fragments the storefront swaps
// into the drawer. It is a pure mapping: partial upstream data degrades
// visually instead of failing.
type Renderer struct {
	line         *template.Template
	panel        *template.Template
	defaultStock int
}

type lineView struct {
	LineID       string
	ProductTitle string
	VariantTitle string
	Price        string
	LineSubtotal string
	ImageURL     string
	Quantity     int
	StockLimit   int
	AtLimit      bool
}

type panelView struct {
	Empty       bool
	Items       []template.HTML
	ItemCount   int
	Total       string
	CheckoutURL string
}

const lineTemplate = `<div class="card w-full card-sm cart-item" data-line-id="{{.LineID}}" data-quantity-available="{{.StockLimit}}">
  <div class="card-body p-3 sm:p-4">
    <div class="grid grid-cols-1 sm:grid-cols-[35%_65%] gap-3 sm:gap-4">
      <div class="w-full">
        <img class="w-full aspect-square object-cover rounded-lg" src="{{.ImageURL}}" alt="{{.ProductTitle}}">
      </div>
      <div class="flex flex-col gap-2">
        <h2 class="card-title text-base sm:text-lg">{{.ProductTitle}}</h2>
        <p class="text-xs sm:text-sm text-gray-600 line-clamp-2">{{.VariantTitle}}</p>
        <p class="font-bold text-sm sm:text-base">{{.Price}}</p>
        <p class="text-xs text-gray-500">Subtotal: {{.LineSubtotal}}</p>
        <div class="flex items-center gap-2 sm:gap-3 mt-auto">
          <p class="text-xs sm:text-sm">Quantity:</p>
          <div class="flex flex-col gap-1">
            <div class="flex gap-2 items-center">
              {{if eq .Quantity 1 -}}
              <button class="btn btn-xs sm:btn-sm rounded-full btn-error text-white remove-item" data-line-id="{{.LineID}}">Remove from cart</button>
              {{- else -}}
              <button class="btn btn-xs sm:btn-sm rounded-full btn-primary quantity-decrease" data-line-id="{{.LineID}}">-</button>
              {{- end}}
              <p class="quantity-display min-w-6 text-center font-semibold" data-quantity="{{.Quantity}}">{{.Quantity}}</p>
              {{if .AtLimit -}}
              <button class="btn btn-xs sm:btn-sm rounded-full btn-disabled quantity-increase" data-line-id="{{.LineID}}" disabled>+</button>
              {{- else -}}
              <button class="btn btn-xs sm:btn-sm rounded-full btn-primary quantity-increase" data-line-id="{{.LineID}}">+</button>
              {{- end}}
            </div>
            {{if .AtLimit}}<p class="text-xs text-warning">Max stock: {{.StockLimit}}</p>{{end}}
          </div>
        </div>
      </div>
    </div>
  </div>
</div>`

const panelTemplate = `{{if .Empty -}}
<div id="cart-items"><p class="text-center text-gray-500">Your cart is empty</p></div>
<span id="cart-count" class="hidden">0</span>
{{- else -}}
<div id="cart-items">{{range .Items}}{{.}}{{end}}</div>
<span id="cart-count">{{.ItemCount}}</span>
<div id="cart-total"><span id="total-amount">{{.Total}}</span></div>
<a id="checkout-btn" class="btn btn-primary" href="{{.CheckoutURL}}">Checkout</a>
{{- end}}`

const errorPanel = `<div id="cart-items"><p class="text-center text-red-500">Failed to load cart</p></div>`

func NewRenderer(defaultStock int) *Renderer {
	if defaultStock <= 0 {
		defaultStock = 999
	}
	return &Renderer{
		line:         template.Must(template.New("cart-line").Parse(lineTemplate)),
		panel:        template.Must(template.New("cart-panel").Parse(panelTemplate)),
		defaultStock: defaultStock,
	}
}

// RenderLine produces the fragment for a single cart line. A quantity-1
// line swaps the decrement control for a remove affordance; a line at
// its stock ceiling renders the increment disabled.
func (r *Renderer) RenderLine(line cart.CartLine) (template.HTML, error) {
	view := r.newLineView(line)
	var sb strings.Builder
	if err := r.line.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("rendering cart line: %w", err)
	}
	return template.HTML(sb.String()), nil
}

// RenderPanel regenerates the whole cart panel from authoritative cart
// state. A nil cart or empty line sequence renders the empty state.
func (r *Renderer) RenderPanel(c *cart.Cart) (string, error) {
	view := panelView{Empty: true}
	if c != nil && len(c.Lines) > 0 {
		items := make([]template.HTML, 0, len(c.Lines))
		count := 0
		for _, line := range c.Lines {
			fragment, err := r.RenderLine(line)
			if err != nil {
				return "", err
			}
			items = append(items, fragment)
			count += line.Quantity
		}
		view = panelView{
			Items:       items,
			ItemCount:   count,
			Total:       formatMoney(c.Cost.TotalAmount),
			CheckoutURL: c.CheckoutURL,
		}
	}

	var sb strings.Builder
	if err := r.panel.Execute(&sb, view); err != nil {
		return "", fmt.Errorf("rendering cart panel: %w", err)
	}
	return sb.String(), nil
}

// RenderLoadError is the degraded panel shown when the initial cart
// read fails: a visible message, never stale or blank UI.
func (r *Renderer) RenderLoadError() string {
	return errorPanel
}

func (r *Renderer) newLineView(line cart.CartLine) lineView {
	stock := line.Merchandise.QuantityAvailable
	if stock <= 0 {
		stock = r.defaultStock
	}

	imageURL := fallbackImageURL
	if img := line.Merchandise.Product.FeaturedImage; img != nil && img.URL != "" {
		imageURL = img.URL
	}

	return lineView{
		LineID:       line.ID,
		ProductTitle: line.Merchandise.Product.Title,
		VariantTitle: line.Merchandise.Title,
		Price:        formatMoney(line.Merchandise.PriceV2),
		LineSubtotal: lineSubtotal(line.Merchandise.PriceV2, line.Quantity),
		ImageURL:     imageURL,
		Quantity:     line.Quantity,
		StockLimit:   stock,
		AtLimit:      line.Quantity >= stock,
	}
}

func formatMoney(m cart.Money) string {
	amount := m.Amount
	if amount == "" {
		amount = "0.00"
	}
	return strings.TrimSpace(m.CurrencyCode + " " + amount)
}

func lineSubtotal(price cart.Money, quantity int) string {
	unit, err := decimal.NewFromString(price.Amount)
	if err != nil {
		return formatMoney(cart.Money{CurrencyCode: price.CurrencyCode})
	}
	total := unit.Mul(decimal.NewFromInt(int64(quantity)))
	return formatMoney(cart.Money{Amount: total.StringFixed(2), CurrencyCode: price.CurrencyCode})
}
