package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/heladeria/inventory-api/internal/api/metrics"
	"github.com/heladeria/inventory-api/internal/core/ports"
)

// InventoryHandler serves the JSON product and ingredient API.
type InventoryHandler struct {
	service ports.InventoryService
}

func NewInventoryHandler(service ports.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// --- Products ---

// ListProducts returns every product. Production cost and profitability are
// only included for administrators.
//
// @Summary      List products
// @Tags         productos
// @Produce      json
// @Success      200  {array}  productView
// @Router       /heladeria/api/productos [get]
func (h *InventoryHandler) ListProducts(c echo.Context) error {
	products, err := h.service.ListProducts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductViews(products, isAdmin(c)))
}

// GetProduct returns a product by id.
//
// @Summary      Get product
// @Tags         productos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  domain.Product
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /heladeria/api/productos/{id} [get]
func (h *InventoryHandler) GetProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// GetProductByName returns a product by its exact name.
//
// @Summary      Get product by name
// @Tags         productos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        nombre  path      string  true  "Product name"
// @Success      200     {object}  domain.Product
// @Failure      404     {object}  errorResponse
// @Router       /heladeria/api/productos/nombre/{nombre} [get]
func (h *InventoryHandler) GetProductByName(c echo.Context) error {
	p, err := h.service.GetProductByName(c.Request().Context(), c.Param("nombre"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ProductCalories returns the total calories of a product.
//
// @Summary      Product calories
// @Tags         productos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  caloriesResponse
// @Failure      404  {object}  errorResponse
// @Router       /heladeria/api/productos/{id}/calorias [get]
func (h *InventoryHandler) ProductCalories(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, caloriesResponse{CaloriasTotales: p.TotalCalories})
}

// ProductProfitability returns the accumulated profitability of a product.
//
// @Summary      Product profitability
// @Tags         productos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  profitabilityResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /heladeria/api/productos/{id}/rentabilidad [get]
func (h *InventoryHandler) ProductProfitability(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profitabilityResponse{Rentabilidad: p.Profitability})
}

// ProductCost returns the production cost of a product.
//
// @Summary      Product production cost
// @Tags         productos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productionCostResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /heladeria/api/productos/{id}/costo_produccion [get]
func (h *InventoryHandler) ProductCost(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.service.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, productionCostResponse{CostoProduccion: p.ProductionCost})
}

// MostProfitable returns the product with the highest profitability.
//
// @Summary      Most profitable product
// @Tags         productos
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  domain.Product
// @Failure      404  {object}  errorResponse
// @Router       /heladeria/api/productos/mas_rentable [get]
func (h *InventoryHandler) MostProfitable(c echo.Context) error {
	p, err := h.service.MostProfitableProduct(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// RestockProduct adds units to a product's inventory.
//
// @Summary      Restock product
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      int             true  "Product ID"
// @Param        body  body      restockRequest  true  "Units to add"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /heladeria/api/productos/reabastecer/{id} [post]
func (h *InventoryHandler) RestockProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	p, err := h.service.RestockProduct(c.Request().Context(), id, req.Cantidad)
	if err != nil {
		return respondError(c, err)
	}
	metrics.RestockedUnitsTotal.WithLabelValues("product").Add(float64(req.Cantidad))

	return c.JSON(http.StatusOK, productResponse{
		Message:  fmt.Sprintf("inventory of %s increased by %d units", p.Name, req.Cantidad),
		Producto: p,
	})
}

// RenewProduct sets a product's inventory to an absolute quantity.
//
// @Summary      Renew product inventory
// @Tags         productos
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      int           true  "Product ID"
// @Param        body  body      renewRequest  true  "New quantity"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /heladeria/api/productos/renovar/{id} [post]
func (h *InventoryHandler) RenewProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req renewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "nueva_cantidad must be a non-negative integer")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "nueva_cantidad must be a non-negative integer")
	}

	p, err := h.service.RenewProductInventory(c.Request().Context(), id, *req.NuevaCantidad)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, productResponse{
		Message:  fmt.Sprintf("inventory of %s renewed to %d units", p.Name, *req.NuevaCantidad),
		Producto: p,
	})
}

// SellProduct records the sale of one unit.
//
// @Summary      Sell product
// @Tags         productos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Router       /heladeria/api/productos/vender/{id} [post]
func (h *InventoryHandler) SellProduct(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	p, err := h.service.SellProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	metrics.SalesTotal.Inc()

	return c.JSON(http.StatusOK, productResponse{
		Message:  fmt.Sprintf("product %s sold", p.Name),
		Producto: p,
	})
}

// --- Ingredients ---

// ListIngredients returns every ingredient.
//
// @Summary      List ingredients
// @Tags         ingredientes
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {array}   domain.Ingredient
// @Failure      401  {object}  errorResponse
// @Router       /heladeria/api/ingredientes [get]
func (h *InventoryHandler) ListIngredients(c echo.Context) error {
	ingredients, err := h.service.ListIngredients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ingredients)
}

// GetIngredient returns an ingredient by id.
//
// @Summary      Get ingredient
// @Tags         ingredientes
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      int  true  "Ingredient ID"
// @Success      200  {object}  domain.Ingredient
// @Failure      404  {object}  errorResponse
// @Router       /heladeria/api/ingredientes/{id} [get]
func (h *InventoryHandler) GetIngredient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	i, err := h.service.GetIngredient(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, i)
}

// GetIngredientByName returns an ingredient by its exact name.
//
// @Summary      Get ingredient by name
// @Tags         ingredientes
// @Produce      json
// @Security     ApiKeyAuth
// @Param        nombre  path      string  true  "Ingredient name"
// @Success      200     {object}  domain.Ingredient
// @Failure      404     {object}  errorResponse
// @Router       /heladeria/api/ingredientes/nombre/{nombre} [get]
func (h *InventoryHandler) GetIngredientByName(c echo.Context) error {
	i, err := h.service.GetIngredientByName(c.Request().Context(), c.Param("nombre"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, i)
}

// IngredientIsHealthy reports whether an ingredient is healthy.
//
// @Summary      Is ingredient healthy
// @Tags         ingredientes
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      int  true  "Ingredient ID"
// @Success      200  {object}  healthyResponse
// @Failure      404  {object}  errorResponse
// @Router       /heladeria/api/ingredientes/{id}/es_sano [get]
func (h *InventoryHandler) IngredientIsHealthy(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}
	i, err := h.service.GetIngredient(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, healthyResponse{ID: i.ID, Nombre: i.Name, EsSano: i.IsHealthy()})
}

// RestockIngredient adds units to an ingredient's inventory.
//
// @Summary      Restock ingredient
// @Tags         ingredientes
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      int             true  "Ingredient ID"
// @Param        body  body      restockRequest  true  "Units to add"
// @Success      200   {object}  ingredientResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /heladeria/api/ingredientes/reabastecer/{id} [post]
func (h *InventoryHandler) RestockIngredient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req restockRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	i, err := h.service.RestockIngredient(c.Request().Context(), id, req.Cantidad)
	if err != nil {
		return respondError(c, err)
	}
	metrics.RestockedUnitsTotal.WithLabelValues("ingredient").Add(float64(req.Cantidad))

	return c.JSON(http.StatusOK, ingredientResponse{
		Message:     fmt.Sprintf("inventory of %s increased by %d units", i.Name, req.Cantidad),
		Ingrediente: i,
	})
}
