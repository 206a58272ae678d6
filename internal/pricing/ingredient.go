package pricing

import "github.com/roach88/sipri/internal/catalog"

// IngredientCost is the cost of the quantity of ing used by a recipe:
// price × units for per-unit pricing, price/1000 × grams for per-kg pricing.
func IngredientCost(ing catalog.Ingredient) float64 {
	if ing.Pricing == catalog.PerUnit {
		return ing.Price * ing.Quantity
	}
	return ing.Price / 1000 * ing.Quantity
}

// RecipeCost sums IngredientCost over ings.
func RecipeCost(ings []catalog.Ingredient) float64 {
	var total float64
	for _, ing := range ings {
		total += IngredientCost(ing)
	}
	return total
}
