package ports

import (
	"context"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

// InventoryService exposes the shop's product and ingredient operations.
// Access control happens before these are called.
type InventoryService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	GetProductByName(ctx context.Context, name string) (*domain.Product, error)
	MostProfitableProduct(ctx context.Context) (*domain.Product, error)
	RestockProduct(ctx context.Context, id int64, qty int) (*domain.Product, error)
	RenewProductInventory(ctx context.Context, id int64, qty int) (*domain.Product, error)
	SellProduct(ctx context.Context, id int64) (*domain.Product, error)

	ListIngredients(ctx context.Context) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error)
	GetIngredientByName(ctx context.Context, name string) (*domain.Ingredient, error)
	RestockIngredient(ctx context.Context, id int64, qty int) (*domain.Ingredient, error)
}
