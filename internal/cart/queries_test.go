package cart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildQueriesEmbedsLinePageSize(t *testing.T) {
	q := buildQueries(10)

	for name, query := range map[string]string{
		"create": q.create,
		"add":    q.add,
		"update": q.update,
		"remove": q.remove,
		"get":    q.get,
	} {
		assert.Contains(t, query, "lines(first: 10)", "operation %s", name)
		assert.Contains(t, query, "quantityAvailable", "operation %s", name)
		assert.Contains(t, query, "checkoutUrl", "operation %s", name)
	}
}

func TestBuildQueriesOperations(t *testing.T) {
	q := buildQueries(10)

	require.Contains(t, q.create, "mutation cartCreate($input: CartInput!)")
	require.Contains(t, q.add, "mutation cartLinesAdd($cartId: ID!, $lines: [CartLineInput!]!)")
	require.Contains(t, q.update, "mutation cartLinesUpdate($cartId: ID!, $lines: [CartLineUpdateInput!]!)")
	require.Contains(t, q.remove, "mutation cartLinesRemove($cartId: ID!, $lineIds: [ID!]!)")
	require.Contains(t, q.get, "query getCart($cartId: ID!)")

	// Mutations carry userErrors; the read path has none to report.
	for _, mutation := range []string{q.create, q.add, q.update, q.remove} {
		assert.Contains(t, mutation, "userErrors")
	}
	assert.False(t, strings.Contains(q.get, "userErrors"))
}
