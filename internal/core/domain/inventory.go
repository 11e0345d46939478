package domain

import "math"

// Ingredient is a stocked raw material.
type Ingredient struct {
	ID           int64   `json:"id" bson:"_id"`
	Name         string  `json:"nombre" bson:"name"`
	Price        float64 `json:"precio" bson:"price"`
	Calories     float64 `json:"calorias" bson:"calories"`
	Inventory    int     `json:"inventario" bson:"inventory"`
	IsVegetarian bool    `json:"es_vegetariano" bson:"is_vegetarian"`
}

// IsHealthy reports whether the ingredient is low calorie or vegetarian.
func (i Ingredient) IsHealthy() bool {
	return i.Calories < 100 || i.IsVegetarian
}

// Product is an item offered for sale.
type Product struct {
	ID             int64   `json:"id" bson:"_id"`
	Name           string  `json:"nombre" bson:"name"`
	PublicPrice    float64 `json:"precio_publico" bson:"public_price"`
	TotalCalories  float64 `json:"calorias_totales" bson:"total_calories"`
	ProductionCost float64 `json:"costo_produccion" bson:"production_cost"`
	Profitability  float64 `json:"rentabilidad" bson:"profitability"`
	Inventory      int     `json:"inventario" bson:"inventory"`
}

// TotalCalories sums ingredient calories and applies the 5% preparation loss,
// rounded to two decimals.
func TotalCalories(calories []float64) float64 {
	var sum float64
	for _, c := range calories {
		sum += c
	}
	return math.Round(sum*0.95*100) / 100
}

// Cost is the summed price of the given ingredients.
func Cost(ingredients []Ingredient) float64 {
	var sum float64
	for _, i := range ingredients {
		sum += i.Price
	}
	return sum
}

// Profitability is the margin of selling at price with the given ingredients.
func Profitability(price float64, ingredients []Ingredient) float64 {
	return price - Cost(ingredients)
}

// MostProfitable returns the product with the highest accumulated
// profitability. ok is false for an empty slice.
func MostProfitable(products []Product) (best Product, ok bool) {
	for i, p := range products {
		if i == 0 || p.Profitability > best.Profitability {
			best = p
			ok = true
		}
	}
	return best, ok
}
