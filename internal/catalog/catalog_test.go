package catalog_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/catalog"
	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioProducts() []models.Product {
	return []models.Product{
		{ID: "P1", Name: "Shoe", Category: "Footwear", Price: decimal.NewFromInt(10)},
		{ID: "P2", Name: "Hat", Category: "Apparel", Price: decimal.NewFromInt(5)},
	}
}

func ids(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}

	return out
}

func TestFilterScenario(t *testing.T) {
	products := scenarioProducts()

	t.Run("Search matches name case-insensitively", func(t *testing.T) {
		assert.Equal(t, []string{"P1"}, ids(catalog.Filter(products, "sho", "")))
		assert.Equal(t, []string{"P1"}, ids(catalog.Filter(products, "SHO", "")))
	})

	t.Run("Category narrows exactly", func(t *testing.T) {
		assert.Equal(t, []string{"P2"}, ids(catalog.Filter(products, "", "Apparel")))
		assert.Empty(t, catalog.Filter(products, "", "apparel"))
	})

	t.Run("No match yields empty", func(t *testing.T) {
		result := catalog.Filter(products, "xyz", "")

		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("Search covers id, category and description", func(t *testing.T) {
		withDesc := append(scenarioProducts(), models.Product{ID: "Q7", Name: "Scarf", Category: "Apparel", Description: "Soft merino wool"})

		assert.Equal(t, []string{"P2"}, ids(catalog.Filter(withDesc, "p2", "")))
		assert.Equal(t, []string{"P1"}, ids(catalog.Filter(withDesc, "footw", "")))
		assert.Equal(t, []string{"Q7"}, ids(catalog.Filter(withDesc, "MERINO", "")))
	})

	t.Run("Both predicates AND together", func(t *testing.T) {
		assert.Empty(t, catalog.Filter(products, "shoe", "Apparel"))
		assert.Equal(t, []string{"P1"}, ids(catalog.Filter(products, "shoe", "Footwear")))
	})

	t.Run("Empty inputs return the full list in order", func(t *testing.T) {
		assert.Equal(t, products, catalog.Filter(products, "", ""))
	})
}

func randomProducts(r *rand.Rand, n int) []models.Product {
	names := []string{"Shoe", "Hat", "Sandal", "Shirt", "Lamp", "Phone", "Kettle"}
	categories := []string{"Footwear", "Apparel", "Home", "Electronics"}
	products := make([]models.Product, 0, n)

	for i := range n {
		products = append(products, models.Product{
			ID:          fmt.Sprintf("P%d", i),
			Name:        names[r.IntN(len(names))],
			Category:    categories[r.IntN(len(categories))],
			Description: names[r.IntN(len(names))] + " deluxe",
		})
	}

	return products
}

func isSubsequence(sub, full []models.Product) bool {
	j := 0
	for i := 0; i < len(full) && j < len(sub); i++ {
		if full[i].ID == sub[j].ID {
			j++
		}
	}

	return j == len(sub)
}

func TestFilterProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 7))
	terms := []string{"", "s", "sh", "HAT", "deluxe", "p1", "zzz"}
	categories := []string{"", "Footwear", "Apparel", "Home", "Electronics", "Nope"}

	for round := range 20 {
		products := randomProducts(r, 25)

		for _, term := range terms {
			for _, category := range categories {
				name := fmt.Sprintf("round %d term %q category %q", round, term, category)

				combined := catalog.Filter(products, term, category)
				bySearch := catalog.Filter(products, term, "")
				byCategory := catalog.Filter(products, "", category)

				require.True(t, isSubsequence(combined, products), name)

				var intersection []models.Product
				for _, p := range bySearch {
					for _, q := range byCategory {
						if p.ID == q.ID {
							intersection = append(intersection, p)
						}
					}
				}

				assert.Equal(t, ids(intersection), ids(combined), name)
				assert.Equal(t, ids(catalog.Filter(bySearch, "", category)), ids(catalog.Filter(byCategory, term, "")), name)
			}
		}
	}
}

func TestCache(t *testing.T) {
	t.Run("Replace copies the snapshot", func(t *testing.T) {
		// Arrange
		cache := catalog.NewCache()
		products := scenarioProducts()

		// Act
		cache.Replace(products)
		products[0].Name = "mutated"

		// Assert
		got, ok := cache.Get("P1")
		require.True(t, ok)
		assert.Equal(t, "Shoe", got.Name)
		assert.Equal(t, 2, cache.Len())
	})

	t.Run("All returns an independent copy", func(t *testing.T) {
		cache := catalog.NewCache()
		cache.Replace(scenarioProducts())

		all := cache.All()
		all[1].Name = "mutated"

		got, _ := cache.Get("P2")
		assert.Equal(t, "Hat", got.Name)
	})

	t.Run("Remove drops only the matching id", func(t *testing.T) {
		cache := catalog.NewCache()
		cache.Replace(scenarioProducts())

		assert.True(t, cache.Remove("P1"))
		assert.False(t, cache.Remove("P1"))
		assert.Equal(t, []string{"P2"}, ids(cache.All()))

		_, ok := cache.Get("P1")
		assert.False(t, ok)
	})

	t.Run("Replace discards previous entries", func(t *testing.T) {
		cache := catalog.NewCache()
		cache.Replace(scenarioProducts())

		cache.Replace([]models.Product{{ID: "P3", Name: "Bag"}})

		assert.Equal(t, []string{"P3"}, ids(cache.All()))
	})

	t.Run("Filter reads the snapshot", func(t *testing.T) {
		cache := catalog.NewCache()
		cache.Replace(scenarioProducts())

		assert.Equal(t, []string{"P1"}, ids(cache.Filter("sho", "")))
		assert.Equal(t, []string{"P2"}, ids(cache.Filter("", "Apparel")))
		assert.Empty(t, cache.Filter("xyz", ""))
	})

	t.Run("Empty cache", func(t *testing.T) {
		cache := catalog.NewCache()

		assert.Equal(t, 0, cache.Len())
		assert.Empty(t, cache.All())
		assert.Empty(t, cache.Filter("", ""))
	})
}
