package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/heladeria/inventory-api/internal/core/domain"
	"github.com/heladeria/inventory-api/internal/core/ports"
)

// InventoryService implements product and ingredient stock operations.
type InventoryService struct {
	products    ports.ProductRepository
	ingredients ports.IngredientRepository
	logger      zerolog.Logger
}

func NewInventoryService(products ports.ProductRepository, ingredients ports.IngredientRepository, logger zerolog.Logger) *InventoryService {
	return &InventoryService{products: products, ingredients: ingredients, logger: logger}
}

func (s *InventoryService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *InventoryService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *InventoryService) GetProductByName(ctx context.Context, name string) (*domain.Product, error) {
	return s.products.FindByName(ctx, name)
}

// MostProfitableProduct returns the product with the highest accumulated
// profitability.
func (s *InventoryService) MostProfitableProduct(ctx context.Context) (*domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	best, ok := domain.MostProfitable(products)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &best, nil
}

// RestockProduct adds qty units to the product's stock.
func (s *InventoryService) RestockProduct(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", domain.ErrInvalidQuantity)
	}
	p, err := s.products.AddInventory(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("product_id", id).Int("qty", qty).Int("inventory", p.Inventory).Msg("product restocked")
	return p, nil
}

// RenewProductInventory sets the product's stock to qty.
func (s *InventoryService) RenewProductInventory(ctx context.Context, id int64, qty int) (*domain.Product, error) {
	if qty < 0 {
		return nil, fmt.Errorf("%w: inventory must be a non-negative integer", domain.ErrInvalidQuantity)
	}
	p, err := s.products.SetInventory(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("product_id", id).Int("inventory", qty).Msg("product inventory renewed")
	return p, nil
}

// SellProduct records a sale of one unit.
func (s *InventoryService) SellProduct(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := s.products.RecordSale(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("product_id", id).Float64("price", p.PublicPrice).Msg("product sold")
	return p, nil
}

func (s *InventoryService) ListIngredients(ctx context.Context) ([]domain.Ingredient, error) {
	return s.ingredients.List(ctx)
}

func (s *InventoryService) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return s.ingredients.FindByID(ctx, id)
}

func (s *InventoryService) GetIngredientByName(ctx context.Context, name string) (*domain.Ingredient, error) {
	return s.ingredients.FindByName(ctx, name)
}

// RestockIngredient adds qty units to the ingredient's stock.
func (s *InventoryService) RestockIngredient(ctx context.Context, id int64, qty int) (*domain.Ingredient, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: restock quantity must be positive", domain.ErrInvalidQuantity)
	}
	i, err := s.ingredients.AddInventory(ctx, id, qty)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("ingredient_id", id).Int("qty", qty).Int("inventory", i.Inventory).Msg("ingredient restocked")
	return i, nil
}
