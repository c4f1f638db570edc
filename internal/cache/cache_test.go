package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCache_IsNoOp(t *testing.T) {
	c := New(nil, time.Minute)
	ctx := context.Background()

	var dest []string
	hit, err := c.GetJSON(ctx, KeyProductList, &dest)
	require.NoError(t, err)
	assert.False(t, hit)

	// None of these may panic or block without a client.
	c.SetJSON(ctx, KeyProductList, []string{"a"})
	c.InvalidateProducts(ctx)
	c.InvalidateCategories(ctx)
	c.InvalidateReviews(ctx)
	c.InvalidateTopSelling(ctx)
}

func TestInvalidationPatterns_CoverDerivedCaches(t *testing.T) {
	// A product write must reach every cache that embeds product data.
	assert.Contains(t, productPatterns, KeyProductList+"*")
	assert.Contains(t, productPatterns, KeyCategoryProducts+"*")
	assert.Contains(t, productPatterns, KeyTopSelling+"*")

	// Review writes surface through product listings.
	assert.Contains(t, reviewPatterns, KeyProductList+"*")

	// Category writes never touch the product list cache directly.
	assert.NotContains(t, categoryPatterns, KeyProductList+"*")
}
