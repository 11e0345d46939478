package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	"github.com/heladeria/inventory-api/internal/api/handler"
	"github.com/heladeria/inventory-api/internal/api/middleware"
	"github.com/heladeria/inventory-api/internal/auth"
	"github.com/heladeria/inventory-api/internal/core/domain"
	"github.com/heladeria/inventory-api/internal/core/ports"
	"github.com/heladeria/inventory-api/internal/core/service"
)

// ---------------------------------------------------------------------------
// In-memory stores
// ---------------------------------------------------------------------------

type memUsers struct {
	mu    sync.Mutex
	users map[int64]domain.User
	next  int64
}

func (r *memUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUserExists
		}
	}
	r.next++
	u := *user
	u.ID = r.next
	r.users[u.ID] = u
	return &u, nil
}

func (r *memUsers) SetRoles(_ context.Context, id int64, roles domain.RoleSet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Roles = roles
	r.users[id] = u
	return nil
}

type memSessions struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	next     int
}

func (s *memSessions) Create(_ context.Context, userID int64, ttl time.Duration) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	now := time.Now()
	sess := domain.Session{ID: fmt.Sprintf("s%d", s.next), UserID: userID, CreatedAt: now, ExpiresAt: now.Add(ttl)}
	s.sessions[sess.ID] = sess
	return &sess, nil
}

func (s *memSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *memSessions) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

type memProducts struct{ products map[int64]domain.Product }

func (r *memProducts) List(context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memProducts) FindByID(_ context.Context, id int64) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return &p, nil
}

func (r *memProducts) FindByName(_ context.Context, name string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.Name == name {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *memProducts) update(id int64, fn func(*domain.Product)) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	fn(&p)
	r.products[id] = p
	return &p, nil
}

func (r *memProducts) AddInventory(_ context.Context, id int64, delta int) (*domain.Product, error) {
	return r.update(id, func(p *domain.Product) { p.Inventory += delta })
}

func (r *memProducts) SetInventory(_ context.Context, id int64, qty int) (*domain.Product, error) {
	return r.update(id, func(p *domain.Product) { p.Inventory = qty })
}

func (r *memProducts) RecordSale(_ context.Context, id int64) (*domain.Product, error) {
	return r.update(id, func(p *domain.Product) {
		p.Profitability += p.PublicPrice
		if p.Inventory > 0 {
			p.Inventory--
		}
	})
}

type memIngredients struct{ ingredients map[int64]domain.Ingredient }

func (r *memIngredients) List(context.Context) ([]domain.Ingredient, error) {
	out := make([]domain.Ingredient, 0, len(r.ingredients))
	for _, i := range r.ingredients {
		out = append(out, i)
	}
	return out, nil
}

func (r *memIngredients) FindByID(_ context.Context, id int64) (*domain.Ingredient, error) {
	i, ok := r.ingredients[id]
	if !ok {
		return nil, domain.ErrIngredientNotFound
	}
	return &i, nil
}

func (r *memIngredients) FindByName(_ context.Context, name string) (*domain.Ingredient, error) {
	for _, i := range r.ingredients {
		if i.Name == name {
			return &i, nil
		}
	}
	return nil, domain.ErrIngredientNotFound
}

func (r *memIngredients) AddInventory(_ context.Context, id int64, delta int) (*domain.Ingredient, error) {
	i, ok := r.ingredients[id]
	if !ok {
		return nil, domain.ErrIngredientNotFound
	}
	i.Inventory += delta
	r.ingredients[id] = i
	return &i, nil
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

const (
	testSecret   = "router-test-secret"
	testPassword = "correct-horse"
)

type fixture struct {
	e     *echo.Echo
	auth  *service.AuthService
	users *memUsers
}

var (
	fixtureOnce sync.Once
	shared      fixture
)

// newFixture builds the router once per test binary; the Prometheus
// middleware registers its collectors globally.
func newFixture(t *testing.T) fixture {
	t.Helper()
	fixtureOnce.Do(func() {
		codec, err := auth.NewTokenCodec(testSecret, time.Hour)
		if err != nil {
			t.Fatalf("token codec: %v", err)
		}
		users := &memUsers{users: map[int64]domain.User{}}
		sessions := &memSessions{sessions: map[string]domain.Session{}}
		authSvc := service.NewAuthService(users, sessions, codec, time.Hour, zerolog.Nop())

		ctx := context.Background()
		for name, roles := range map[string]domain.RoleSet{
			"admin":    domain.NewRoleSet(domain.RoleAdmin),
			"staff":    domain.NewRoleSet(domain.RoleStaff),
			"customer": domain.NewRoleSet(domain.RoleCustomer),
		} {
			if _, err := authSvc.Register(ctx, ports.RegisterInput{Username: name, Password: testPassword, Roles: roles}); err != nil {
				t.Fatalf("register %s: %v", name, err)
			}
		}

		inventory := service.NewInventoryService(
			&memProducts{products: map[int64]domain.Product{
				1: {ID: 1, Name: "Chocolate", PublicPrice: 10, TotalCalories: 190, ProductionCost: 4, Profitability: 6, Inventory: 3},
			}},
			&memIngredients{ingredients: map[int64]domain.Ingredient{
				1: {ID: 1, Name: "Fresa", Price: 1, Calories: 30, Inventory: 5},
			}},
			zerolog.Nop(),
		)

		shared = fixture{
			e: NewRouter(Dependencies{
				Auth:      authSvc,
				Inventory: inventory,
				Cookie:    handler.CookieConfig{Name: "sid", MaxAge: time.Hour},
				Health:    map[string]handler.DependencyCheck{},
				Log:       zerolog.Nop(),
			}),
			auth:  authSvc,
			users: users,
		}
	})
	return shared
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f fixture) token(t *testing.T, username string) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/api_login",
		strings.NewReader(fmt.Sprintf(`{"username":%q,"password":%q}`, username, testPassword)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := f.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("api_login %s: %d %s", username, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("no token in response: %s", rec.Body.String())
	}
	return resp.Token
}

func (f fixture) sessionCookie(t *testing.T, username string) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {username}, "password": {testPassword}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := f.do(req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login %s: %d", username, rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "sid" {
			return c
		}
	}
	t.Fatalf("no session cookie for %s", username)
	return nil
}

func withToken(method, target, token string) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(middleware.TokenHeader, token)
	return req
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestRouter_RoleMatrix(t *testing.T) {
	f := newFixture(t)
	tokens := map[string]string{
		"admin":    f.token(t, "admin"),
		"staff":    f.token(t, "staff"),
		"customer": f.token(t, "customer"),
	}

	tests := []struct {
		path string
		want map[string]int
	}{
		{"/auth/admin-only", map[string]int{"admin": 200, "staff": 403, "customer": 403}},
		{"/auth/protected", map[string]int{"admin": 200, "staff": 200, "customer": 200}},
		{"/heladeria/api/productos/1", map[string]int{"admin": 200, "staff": 200, "customer": 200}},
		{"/heladeria/api/productos/nombre/Chocolate", map[string]int{"admin": 200, "staff": 200, "customer": 403}},
		{"/heladeria/api/productos/1/rentabilidad", map[string]int{"admin": 200, "staff": 403, "customer": 403}},
		{"/heladeria/api/productos/mas_rentable", map[string]int{"admin": 200, "staff": 403, "customer": 403}},
		{"/heladeria/api/ingredientes", map[string]int{"admin": 200, "staff": 200, "customer": 403}},
		{"/heladeria/api/ingredientes/1/es_sano", map[string]int{"admin": 200, "staff": 200, "customer": 200}},
	}
	for _, tt := range tests {
		for who, code := range tt.want {
			rec := f.do(withToken(http.MethodGet, tt.path, tokens[who]))
			if rec.Code != code {
				t.Fatalf("%s as %s: expected %d, got %d", tt.path, who, code, rec.Code)
			}
		}
		if rec := f.do(httptest.NewRequest(http.MethodGet, tt.path, nil)); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s anonymous: expected 401, got %d", tt.path, rec.Code)
		}
	}
}

func TestRouter_InvalidTokenBeatsValidCookie(t *testing.T) {
	f := newFixture(t)
	cookie := f.sessionCookie(t, "admin")

	req := withToken(http.MethodGet, "/auth/admin-only", "not-a-token")
	req.AddCookie(cookie)
	rec := f.do(req)
	if rec.Code != http.StatusUnauthorized || !strings.Contains(rec.Body.String(), "invalid token") {
		t.Fatalf("expected 401 invalid token, got %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/admin-only", nil)
	req.AddCookie(cookie)
	if rec := f.do(req); rec.Code != http.StatusOK {
		t.Fatalf("expected cookie alone to work, got %d", rec.Code)
	}
}

func TestRouter_RevocationAsymmetry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.auth.Register(ctx, ports.RegisterInput{Username: "temp-admin", Password: testPassword, Roles: domain.NewRoleSet(domain.RoleAdmin)}); err != nil {
		t.Fatalf("register: %v", err)
	}
	token := f.token(t, "temp-admin")
	cookie := f.sessionCookie(t, "temp-admin")
	user, _ := f.users.FindByUsername(ctx, "temp-admin")

	// Revoke through the admin API.
	body := strings.NewReader(`{"roles":["customer"]}`)
	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/auth/users/%d/roles", user.ID), body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.TokenHeader, f.token(t, "admin"))
	if rec := f.do(req); rec.Code != http.StatusOK {
		t.Fatalf("update roles: %d %s", rec.Code, rec.Body.String())
	}

	// The session sees the change at once.
	req = httptest.NewRequest(http.MethodGet, "/auth/admin-only", nil)
	req.AddCookie(cookie)
	if rec := f.do(req); rec.Code != http.StatusForbidden {
		t.Fatalf("session after revocation: expected 403, got %d", rec.Code)
	}

	// The token keeps its roles until it expires.
	if rec := f.do(withToken(http.MethodGet, "/auth/admin-only", token)); rec.Code != http.StatusOK {
		t.Fatalf("token after revocation: expected 200, got %d", rec.Code)
	}
}

func TestRouter_RegisterRequiresAdmin(t *testing.T) {
	f := newFixture(t)

	register := func(token, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		if token != "" {
			req.Header.Set(middleware.TokenHeader, token)
		}
		return f.do(req).Code
	}

	body := `{"username":"newbie","password":"long-enough","roles":["customer"]}`
	if code := register("", body); code != http.StatusUnauthorized {
		t.Fatalf("anonymous register: expected 401, got %d", code)
	}
	if code := register(f.token(t, "staff"), body); code != http.StatusForbidden {
		t.Fatalf("staff register: expected 403, got %d", code)
	}
	admin := f.token(t, "admin")
	if code := register(admin, body); code != http.StatusCreated {
		t.Fatalf("admin register: expected 201, got %d", code)
	}
	if code := register(admin, body); code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409, got %d", code)
	}
}

func TestRouter_PagesRedirectOrForbid(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/heladeria/ingredientes", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != handler.LoginPath {
		t.Fatalf("anonymous page: expected redirect to login, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/heladeria/ingredientes", nil)
	req.AddCookie(f.sessionCookie(t, "customer"))
	rec = f.do(req)
	if rec.Code != http.StatusForbidden || !strings.Contains(rec.Header().Get(echo.HeaderContentType), "text/html") {
		t.Fatalf("customer page: expected HTML 403, got %d %q", rec.Code, rec.Header().Get(echo.HeaderContentType))
	}
}

func TestRouter_PublicListing(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/heladeria/api/productos", nil))
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), "costo_produccion") {
		t.Fatalf("anonymous listing: %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(withToken(http.MethodGet, "/heladeria/api/productos", f.token(t, "admin")))
	if !strings.Contains(rec.Body.String(), "costo_produccion") {
		t.Fatalf("admin listing should include costs: %s", rec.Body.String())
	}
}

func TestRouter_Logout(t *testing.T) {
	f := newFixture(t)
	cookie := f.sessionCookie(t, "staff")

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(cookie)
	if rec := f.do(req); rec.Code != http.StatusSeeOther {
		t.Fatalf("logout: expected 303, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/auth/protected", nil)
	req.AddCookie(cookie)
	if rec := f.do(req); rec.Code != http.StatusUnauthorized {
		t.Fatalf("after logout: expected 401, got %d", rec.Code)
	}
}

func (f fixture) profitability(t *testing.T) float64 {
	t.Helper()
	rec := f.do(withToken(http.MethodGet, "/heladeria/api/productos/1/rentabilidad", f.token(t, "admin")))
	var resp struct {
		Rentabilidad float64 `json:"rentabilidad"`
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("rentabilidad: %d %s", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode rentabilidad: %v", err)
	}
	return resp.Rentabilidad
}

func TestRouter_ProductDetailPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/heladeria/productos/detalle/1", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Chocolate") || strings.Contains(rec.Body.String(), "costo_produccion") {
		t.Fatalf("anonymous detail: %d %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/heladeria/productos/detalle/1", nil)
	req.AddCookie(f.sessionCookie(t, "admin"))
	rec = f.do(req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "costo_produccion") {
		t.Fatalf("admin detail should include costs: %d %s", rec.Code, rec.Body.String())
	}

	rec = f.do(httptest.NewRequest(http.MethodGet, "/heladeria/productos/detalle/99", nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != handler.ProductsPagePath+"?error=not_found" {
		t.Fatalf("unknown product: %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRouter_SellPage(t *testing.T) {
	f := newFixture(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := f.do(httptest.NewRequest(method, "/heladeria/productos/vender/1", nil))
		if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != handler.LoginPath {
			t.Fatalf("anonymous %s: expected redirect to login, got %d %q", method, rec.Code, rec.Header().Get(echo.HeaderLocation))
		}
	}

	cookie := f.sessionCookie(t, "customer")

	req := httptest.NewRequest(http.MethodGet, "/heladeria/productos/vender/1", nil)
	req.AddCookie(cookie)
	if rec := f.do(req); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Chocolate") {
		t.Fatalf("customer sale page: %d %s", rec.Code, rec.Body.String())
	}

	before := f.profitability(t)
	req = httptest.NewRequest(http.MethodPost, "/heladeria/productos/vender/1", nil)
	req.AddCookie(cookie)
	rec := f.do(req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != handler.ProductsPagePath {
		t.Fatalf("customer sale: expected redirect to products, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if after := f.profitability(t); after != before+10 {
		t.Fatalf("expected profitability %v, got %v", before+10, after)
	}

	req = httptest.NewRequest(http.MethodPost, "/heladeria/productos/vender/99", nil)
	req.AddCookie(cookie)
	if rec := f.do(req); rec.Header().Get(echo.HeaderLocation) != handler.ProductsPagePath+"?error=not_found" {
		t.Fatalf("unknown product sale: %q", rec.Header().Get(echo.HeaderLocation))
	}
}

var pathParam = regexp.MustCompile(`:([A-Za-z_]+)`)

func TestRouter_APIRoutesDocumented(t *testing.T) {
	f := newFixture(t)

	raw, err := swag.ReadDoc()
	if err != nil {
		t.Fatalf("read swagger doc: %v", err)
	}
	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("decode swagger doc: %v", err)
	}

	checked := 0
	for _, r := range f.e.Routes() {
		switch r.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			continue
		}
		if !strings.HasPrefix(r.Path, "/auth/") && !strings.HasPrefix(r.Path, "/heladeria/api/") && !strings.HasPrefix(r.Path, "/health") {
			continue
		}
		path := pathParam.ReplaceAllString(r.Path, "{$1}")
		if _, ok := doc.Paths[path][strings.ToLower(r.Method)]; !ok {
			t.Errorf("%s %s is not documented", r.Method, path)
		}
		checked++
	}
	if checked < 20 {
		t.Fatalf("expected the API routes to be registered, only checked %d", checked)
	}
}
