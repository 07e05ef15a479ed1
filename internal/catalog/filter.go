package catalog

import (
	"strings"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/models"
)

// Filter returns the products matching both predicates, in their original
// order. searchTerm is a case-insensitive substring tested against id, name,
// category and description; category, when set, must match exactly.
func Filter(products []models.Product, searchTerm, category string) []models.Product {
	term := strings.ToLower(searchTerm)

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if term != "" && !matchesTerm(p, term) {
			continue
		}

		if category != "" && p.Category != category {
			continue
		}

		filtered = append(filtered, p)
	}

	return filtered
}

func matchesTerm(p models.Product, term string) bool {
	for _, field := range []string{p.ID, p.Name, p.Category, p.Description} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}

	return false
}
