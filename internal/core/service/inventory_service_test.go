package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/heladeria/inventory-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubProductRepo struct {
	byID map[int64]*domain.Product
}

func newStubProductRepo(products ...domain.Product) *stubProductRepo {
	r := &stubProductRepo{byID: make(map[int64]*domain.Product)}
	for i := range products {
		p := products[i]
		r.byID[p.ID] = &p
	}
	return r
}

func (r *stubProductRepo) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) FindByName(_ context.Context, name string) (*domain.Product, error) {
	for _, p := range r.byID {
		if p.Name == name {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) AddInventory(_ context.Context, id int64, delta int) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Inventory += delta
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) SetInventory(_ context.Context, id int64, qty int) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Inventory = qty
	clone := *p
	return &clone, nil
}

func (r *stubProductRepo) RecordSale(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Profitability += p.PublicPrice
	if p.Inventory > 0 {
		p.Inventory--
	}
	clone := *p
	return &clone, nil
}

type stubIngredientRepo struct {
	byID map[int64]*domain.Ingredient
}

func newStubIngredientRepo(ingredients ...domain.Ingredient) *stubIngredientRepo {
	r := &stubIngredientRepo{byID: make(map[int64]*domain.Ingredient)}
	for i := range ingredients {
		in := ingredients[i]
		r.byID[in.ID] = &in
	}
	return r
}

func (r *stubIngredientRepo) List(_ context.Context) ([]domain.Ingredient, error) {
	out := make([]domain.Ingredient, 0, len(r.byID))
	for _, i := range r.byID {
		out = append(out, *i)
	}
	return out, nil
}

func (r *stubIngredientRepo) FindByID(_ context.Context, id int64) (*domain.Ingredient, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIngredientNotFound
	}
	clone := *i
	return &clone, nil
}

func (r *stubIngredientRepo) FindByName(_ context.Context, name string) (*domain.Ingredient, error) {
	for _, i := range r.byID {
		if i.Name == name {
			clone := *i
			return &clone, nil
		}
	}
	return nil, domain.ErrIngredientNotFound
}

func (r *stubIngredientRepo) AddInventory(_ context.Context, id int64, delta int) (*domain.Ingredient, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrIngredientNotFound
	}
	i.Inventory += delta
	clone := *i
	return &clone, nil
}

func newTestInventoryService() (*InventoryService, *stubProductRepo, *stubIngredientRepo) {
	products := newStubProductRepo(
		domain.Product{ID: 1, Name: "Chocolate", PublicPrice: 10, TotalCalories: 200, ProductionCost: 5, Profitability: 0, Inventory: 2},
		domain.Product{ID: 2, Name: "Vainilla", PublicPrice: 8, ProductionCost: 3, Profitability: 30},
	)
	ingredients := newStubIngredientRepo(
		domain.Ingredient{ID: 1, Name: "Leche", Price: 1.5, Calories: 50, Inventory: 10, IsVegetarian: true},
	)
	return NewInventoryService(products, ingredients, zerolog.Nop()), products, ingredients
}

func TestInventoryService_SellProduct(t *testing.T) {
	svc, products, _ := newTestInventoryService()

	p, err := svc.SellProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("SellProduct: %v", err)
	}
	if p.Profitability != 10 || p.Inventory != 1 {
		t.Fatalf("unexpected product after sale: %+v", p)
	}

	// Out of stock products still record the sale.
	_, _ = svc.SellProduct(context.Background(), 2)
	if got := products.byID[2]; got.Profitability != 38 || got.Inventory != 0 {
		t.Fatalf("unexpected product after sale: %+v", got)
	}

	if _, err := svc.SellProduct(context.Background(), 99); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestInventoryService_RestockIngredient(t *testing.T) {
	svc, _, _ := newTestInventoryService()

	i, err := svc.RestockIngredient(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("RestockIngredient: %v", err)
	}
	if i.Inventory != 30 {
		t.Fatalf("expected inventory 30, got %d", i.Inventory)
	}

	if _, err := svc.RestockIngredient(context.Background(), 1, 0); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.RestockIngredient(context.Background(), 42, 1); !errors.Is(err, domain.ErrIngredientNotFound) {
		t.Fatalf("expected ErrIngredientNotFound, got %v", err)
	}
}

func TestInventoryService_RestockAndRenewProduct(t *testing.T) {
	svc, _, _ := newTestInventoryService()
	ctx := context.Background()

	p, err := svc.RestockProduct(ctx, 1, 5)
	if err != nil || p.Inventory != 7 {
		t.Fatalf("RestockProduct: %+v %v", p, err)
	}
	if _, err := svc.RestockProduct(ctx, 1, -3); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	p, err = svc.RenewProductInventory(ctx, 1, 0)
	if err != nil || p.Inventory != 0 {
		t.Fatalf("RenewProductInventory: %+v %v", p, err)
	}
	if _, err := svc.RenewProductInventory(ctx, 1, -1); !errors.Is(err, domain.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestInventoryService_MostProfitableProduct(t *testing.T) {
	svc, _, _ := newTestInventoryService()

	p, err := svc.MostProfitableProduct(context.Background())
	if err != nil {
		t.Fatalf("MostProfitableProduct: %v", err)
	}
	if p.Name != "Vainilla" {
		t.Fatalf("expected Vainilla, got %s", p.Name)
	}

	empty := NewInventoryService(newStubProductRepo(), newStubIngredientRepo(), zerolog.Nop())
	if _, err := empty.MostProfitableProduct(context.Background()); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestInventoryService_Lookups(t *testing.T) {
	svc, _, _ := newTestInventoryService()
	ctx := context.Background()

	if p, err := svc.GetProductByName(ctx, "Chocolate"); err != nil || p.ID != 1 {
		t.Fatalf("GetProductByName: %+v %v", p, err)
	}
	if _, err := svc.GetIngredientByName(ctx, "Cacao"); !errors.Is(err, domain.ErrIngredientNotFound) {
		t.Fatalf("expected ErrIngredientNotFound, got %v", err)
	}
	list, err := svc.ListIngredients(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListIngredients: %v %v", list, err)
	}
}
