package handler

import (
	"github.com/heladeria/inventory-api/internal/core/domain"
)

// --- Domain → Response ---

func toProductView(p domain.Product, withCosts bool) productView {
	v := productView{
		ID:              p.ID,
		Nombre:          p.Name,
		PrecioPublico:   p.PublicPrice,
		CaloriasTotales: p.TotalCalories,
	}
	if withCosts {
		cost, profit := p.ProductionCost, p.Profitability
		v.CostoProduccion = &cost
		v.Rentabilidad = &profit
	}
	return v
}

func toProductViews(products []domain.Product, withCosts bool) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p, withCosts))
	}
	return out
}
