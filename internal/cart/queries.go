package cart

import "fmt"

// Shared cart field selection. Every operation asks for the same shape
// so the reshaped response is interchangeable across mutations and the
// read path. quantityAvailable drives the renderer's stock ceiling.
const cartFieldsFmt = `
	id
	checkoutUrl
	lines(first: %d) {
		edges {
			node {
				id
				quantity
				merchandise {
					... on ProductVariant {
						id
						title
						quantityAvailable
						priceV2 {
							amount
							currencyCode
						}
						product {
							title
							featuredImage {
								url
							}
						}
					}
				}
			}
		}
	}
	cost {
		totalAmount {
			amount
			currencyCode
		}
		subtotalAmount {
			amount
			currencyCode
		}
	}`

type queries struct {
	create string
	add    string
	update string
	remove string
	get    string
}

func buildQueries(linePageSize int) queries {
	fields := fmt.Sprintf(cartFieldsFmt, linePageSize)
	return queries{
		create: fmt.Sprintf(`
			mutation cartCreate($input: CartInput!) {
				cartCreate(input: $input) {
					cart {%s
					}
					userErrors {
						field
						message
					}
				}
			}`, fields),
		add: fmt.Sprintf(`
			mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!) {
				cartLinesAdd(cartId: $cartId, lines: $lines) {
					cart {%s
					}
					userErrors {
						field
						message
					}
				}
			}`, fields),
		update: fmt.Sprintf(`
			mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!) {
				cartLinesUpdate(cartId: $cartId, lines: $lines) {
					cart {%s
					}
					userErrors {
						field
						message
					}
				}
			}`, fields),
		remove: fmt.Sprintf(`
			mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!) {
				cartLinesRemove(cartId: $cartId, lineIds: $lineIds) {
					cart {%s
					}
					userErrors {
						field
						message
					}
				}
			}`, fields),
		get: fmt.Sprintf(`
			query getCart($cartId: ID!) {
				cart(id: $cartId) {%s
				}
			}`, fields),
	}
}
