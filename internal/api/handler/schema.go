package handler

import (
	"github.com/heladeria/inventory-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    *domain.User `json:"user,omitempty"`
}

type registerRequest struct {
	Username string         `json:"username" validate:"required,max=64"`
	Password string         `json:"password" validate:"required,min=8"`
	Roles    domain.RoleSet `json:"roles"`
}

type updateRolesRequest struct {
	Roles *domain.RoleSet `json:"roles" validate:"required"`
}

type userResponse struct {
	Message string       `json:"message,omitempty"`
	User    *domain.User `json:"user"`
}

// --- Inventory ---

type restockRequest struct {
	Cantidad int `json:"cantidad" validate:"gt=0"`
}

// renewRequest uses a pointer so a missing field is told apart from zero.
type renewRequest struct {
	NuevaCantidad *int `json:"nueva_cantidad" validate:"required,min=0"`
}

// productView is a product as shown in public listings. Cost fields are only
// filled in for administrators.
type productView struct {
	ID              int64    `json:"id"`
	Nombre          string   `json:"nombre"`
	PrecioPublico   float64  `json:"precio_publico"`
	CaloriasTotales float64  `json:"calorias_totales"`
	CostoProduccion *float64 `json:"costo_produccion,omitempty"`
	Rentabilidad    *float64 `json:"rentabilidad,omitempty"`
}

type productResponse struct {
	Message  string          `json:"message"`
	Producto *domain.Product `json:"producto"`
}

type ingredientResponse struct {
	Message     string             `json:"message"`
	Ingrediente *domain.Ingredient `json:"ingrediente"`
}

type caloriesResponse struct {
	CaloriasTotales float64 `json:"calorias_totales"`
}

type profitabilityResponse struct {
	Rentabilidad float64 `json:"rentabilidad"`
}

type productionCostResponse struct {
	CostoProduccion float64 `json:"costo_produccion"`
}

type healthyResponse struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	EsSano bool   `json:"es_sano"`
}
