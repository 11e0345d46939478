package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/heladeria/inventory-api/internal/api/metrics"
	"github.com/heladeria/inventory-api/internal/core/domain"
	"github.com/heladeria/inventory-api/internal/core/ports"
)

const IngredientsPagePath = "/heladeria/ingredientes"

// PageHandler serves the browser routes that act on form posts and answer
// with redirects.
type PageHandler struct {
	service ports.InventoryService
	log     zerolog.Logger
}

func NewPageHandler(service ports.InventoryService, log zerolog.Logger) *PageHandler {
	return &PageHandler{service: service, log: log}
}

// Ingredients lists every ingredient for staff.
func (h *PageHandler) Ingredients(c echo.Context) error {
	ingredients, err := h.service.ListIngredients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ingredients)
}

// RestockIngredient handles the restock form and returns to the ingredient
// list.
func (h *PageHandler) RestockIngredient(c echo.Context) error {
	var id int64
	var qty int
	if err := echo.PathParamsBinder(c).MustInt64("id", &id).BindError(); err != nil {
		return c.Redirect(http.StatusSeeOther, IngredientsPagePath+"?error=not_found")
	}
	if err := echo.FormFieldBinder(c).MustInt("cantidad", &qty).BindError(); err != nil {
		return c.Redirect(http.StatusSeeOther, IngredientsPagePath+"?error=cantidad")
	}

	i, err := h.service.RestockIngredient(c.Request().Context(), id, qty)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrIngredientNotFound):
		return c.Redirect(http.StatusSeeOther, IngredientsPagePath+"?error=not_found")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Redirect(http.StatusSeeOther, IngredientsPagePath+"?error=cantidad")
	default:
		return err
	}
	metrics.RestockedUnitsTotal.WithLabelValues("ingredient").Add(float64(qty))

	h.log.Info().Int64("ingredient_id", i.ID).Int("qty", qty).Msg("ingredient restocked from page")
	return c.Redirect(http.StatusSeeOther, IngredientsPagePath)
}

// RenewProduct handles the inventory renewal form and returns to the product
// list.
func (h *PageHandler) RenewProduct(c echo.Context) error {
	var id int64
	var qty int
	if err := echo.PathParamsBinder(c).MustInt64("id", &id).BindError(); err != nil {
		return c.Redirect(http.StatusSeeOther, ProductsPagePath+"?error=not_found")
	}
	if err := echo.FormFieldBinder(c).MustInt("nueva_cantidad", &qty).BindError(); err != nil {
		return c.Redirect(http.StatusSeeOther, ProductsPagePath+"?error=nueva_cantidad")
	}

	p, err := h.service.RenewProductInventory(c.Request().Context(), id, qty)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Redirect(http.StatusSeeOther, ProductsPagePath+"?error=not_found")
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Redirect(http.StatusSeeOther, ProductsPagePath+"?error=nueva_cantidad")
	default:
		return err
	}

	h.log.Info().Int64("product_id", p.ID).Int("qty", qty).Msg("product inventory renewed from page")
	return c.Redirect(http.StatusSeeOther, ProductsPagePath)
}

// ProductDetail shows one product. Cost fields are only included for admins.
// It also backs the confirmation step of the sale page.
func (h *PageHandler) ProductDetail(c echo.Context) error {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64("id", &id).BindError(); err != nil {
		return c.Redirect(http.StatusSeeOther, ProductsPagePath+"?error=not_found")
	}

	p, err := h.service.GetProduct(c.Request().Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Redirect(http.StatusSeeOther, ProductsPagePath+"?error=not_found")
	default:
		return err
	}
	return c.JSON(http.StatusOK, toProductView(*p, isAdmin(c)))
}

// SellProduct handles the sale form and returns to the product list.
func (h *PageHandler) SellProduct(c echo.Context) error {
	var id int64
	if err := echo.PathParamsBinder(c).MustInt64("id", &id).BindError(); err != nil {
		return c.Redirect(http.StatusSeeOther, ProductsPagePath+"?error=not_found")
	}

	p, err := h.service.SellProduct(c.Request().Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Redirect(http.StatusSeeOther, ProductsPagePath+"?error=not_found")
	default:
		return err
	}
	metrics.SalesTotal.Inc()

	h.log.Info().Int64("product_id", p.ID).Msg("product sold from page")
	return c.Redirect(http.StatusSeeOther, ProductsPagePath)
}
