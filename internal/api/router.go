package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/heladeria/inventory-api/docs"
	"github.com/heladeria/inventory-api/internal/api/handler"
	"github.com/heladeria/inventory-api/internal/api/middleware"
	"github.com/heladeria/inventory-api/internal/core/domain"
	"github.com/heladeria/inventory-api/internal/core/ports"
)

// Dependencies are the services and settings the HTTP layer is built from.
type Dependencies struct {
	Auth      ports.AuthService
	Inventory ports.InventoryService
	Cookie    handler.CookieConfig
	Health    map[string]handler.DependencyCheck
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("heladeria"))
	e.Use(middleware.Identify(deps.Auth, deps.Cookie.Name, deps.Log))

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie, deps.Log)
	inventoryHandler := handler.NewInventoryHandler(deps.Inventory)
	pageHandler := handler.NewPageHandler(deps.Inventory, deps.Log)

	const (
		admin    = domain.RoleAdmin
		staff    = domain.RoleStaff
		customer = domain.RoleCustomer
	)

	// --- Auth routes ---
	a := e.Group("/auth")
	a.GET("/login", authHandler.LoginForm)
	a.POST("/login", authHandler.Login)
	a.POST("/api_login", authHandler.APILogin)
	a.GET("/logout", authHandler.Logout)
	a.POST("/register", authHandler.Register, middleware.RequireRoles(admin))
	a.PUT("/users/:id/roles", authHandler.UpdateRoles, middleware.RequireRoles(admin))
	a.GET("/protected", authHandler.Protected, middleware.RequireAuth())
	a.GET("/admin-only", authHandler.AdminOnly, middleware.RequireRoles(admin))

	// --- Inventory API ---
	p := e.Group("/heladeria/api/productos")
	p.GET("", inventoryHandler.ListProducts)
	p.GET("/mas_rentable", inventoryHandler.MostProfitable, middleware.RequireRoles(admin))
	p.GET("/nombre/:nombre", inventoryHandler.GetProductByName, middleware.RequireRoles(staff, admin))
	p.GET("/:id", inventoryHandler.GetProduct, middleware.RequireRoles(admin, staff, customer))
	p.GET("/:id/calorias", inventoryHandler.ProductCalories, middleware.RequireRoles(customer, staff, admin))
	p.GET("/:id/rentabilidad", inventoryHandler.ProductProfitability, middleware.RequireRoles(admin))
	p.GET("/:id/costo_produccion", inventoryHandler.ProductCost, middleware.RequireRoles(admin))
	p.POST("/reabastecer/:id", inventoryHandler.RestockProduct, middleware.RequireRoles(staff, admin))
	p.POST("/vender/:id", inventoryHandler.SellProduct, middleware.RequireRoles(customer, staff, admin))
	p.POST("/renovar/:id", inventoryHandler.RenewProduct, middleware.RequireRoles(admin))

	i := e.Group("/heladeria/api/ingredientes")
	i.GET("", inventoryHandler.ListIngredients, middleware.RequireRoles(staff, admin))
	i.GET("/nombre/:nombre", inventoryHandler.GetIngredientByName, middleware.RequireRoles(staff, admin))
	i.GET("/:id", inventoryHandler.GetIngredient, middleware.RequireRoles(staff, admin))
	i.GET("/:id/es_sano", inventoryHandler.IngredientIsHealthy, middleware.RequireRoles(customer, staff, admin))
	i.POST("/reabastecer/:id", inventoryHandler.RestockIngredient, middleware.RequireRoles(staff, admin))

	// --- Browser pages (session cookie) ---
	e.GET(handler.ProductsPagePath, inventoryHandler.ListProducts)
	e.GET(handler.IngredientsPagePath, pageHandler.Ingredients,
		middleware.RequirePageRoles(handler.LoginPath, staff, admin))
	e.POST(handler.IngredientsPagePath+"/reabastecer/:id", pageHandler.RestockIngredient,
		middleware.RequirePageRoles(handler.LoginPath, admin))
	e.GET(handler.ProductsPagePath+"/detalle/:id", pageHandler.ProductDetail)
	e.GET(handler.ProductsPagePath+"/vender/:id", pageHandler.ProductDetail,
		middleware.RequirePageRoles(handler.LoginPath, customer, staff, admin))
	e.POST(handler.ProductsPagePath+"/vender/:id", pageHandler.SellProduct,
		middleware.RequirePageRoles(handler.LoginPath, customer, staff, admin))
	e.POST(handler.ProductsPagePath+"/renovar/:id", pageHandler.RenewProduct,
		middleware.RequirePageRoles(handler.LoginPath, admin))

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
