package ports

import (
	"context"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

// ProductRepository persists products. Quantity changes are applied atomically
// by the storage layer.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id int64) (*domain.Product, error)
	FindByName(ctx context.Context, name string) (*domain.Product, error)
	AddInventory(ctx context.Context, id int64, delta int) (*domain.Product, error)
	SetInventory(ctx context.Context, id int64, qty int) (*domain.Product, error)
	// RecordSale adds the public price to the accumulated profitability and
	// takes one unit out of stock when any is left.
	RecordSale(ctx context.Context, id int64) (*domain.Product, error)
}

// IngredientRepository persists ingredients.
type IngredientRepository interface {
	List(ctx context.Context) ([]domain.Ingredient, error)
	FindByID(ctx context.Context, id int64) (*domain.Ingredient, error)
	FindByName(ctx context.Context, name string) (*domain.Ingredient, error)
	AddInventory(ctx context.Context, id int64, delta int) (*domain.Ingredient, error)
}
