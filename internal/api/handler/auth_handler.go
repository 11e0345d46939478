package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/heladeria/inventory-api/internal/api/metrics"
	"github.com/heladeria/inventory-api/internal/core/domain"
	"github.com/heladeria/inventory-api/internal/core/ports"
)

const (
	LoginPath        = "/auth/login"
	ProductsPagePath = "/heladeria/productos"
)

// CookieConfig describes the session cookie handed out on login.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	authService ports.AuthService
	cookie      CookieConfig
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, cookie CookieConfig, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, log: log}
}

const loginPage = `<!DOCTYPE html>
<html><head><title>Heladeria - Login</title></head>
<body>
<h1>Login</h1>
%s
<form method="post" action="/auth/login">
<label>Username <input name="username" required></label>
<label>Password <input name="password" type="password" required></label>
<button type="submit">Sign in</button>
</form>
</body></html>`

// LoginForm renders the browser login form.
//
// @Summary      Login form
// @Tags         auth
// @Produce      html
// @Success      200
// @Router       /auth/login [get]
func (h *AuthHandler) LoginForm(c echo.Context) error {
	notice := ""
	if c.QueryParam("error") != "" {
		notice = `<p class="error">Invalid credentials</p>`
	}
	return c.HTML(http.StatusOK, fmt.Sprintf(loginPage, notice))
}

// Login starts a session. Form posts are redirected to the product page, JSON
// clients also receive an access token in the body.
//
// @Summary      Login (session)
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Success      303
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	wantsJSON := strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		if wantsJSON {
			return badRequest(c, "invalid payload")
		}
		return c.Redirect(http.StatusSeeOther, LoginPath+"?error=1")
	}

	previous := ""
	if ck, err := c.Cookie(h.cookie.Name); err == nil {
		previous = ck.Value
	}

	sess, user, err := h.authService.AuthenticateSession(c.Request().Context(), req.Username, req.Password, previous)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("session", loginResult(err)).Inc()
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			return err
		}
		h.log.Info().Str("channel", "session").Msg("login rejected")
		if wantsJSON {
			return respondError(c, err)
		}
		return c.Redirect(http.StatusSeeOther, LoginPath+"?error=1")
	}
	metrics.LoginsTotal.WithLabelValues("session", "success").Inc()

	c.SetCookie(h.sessionCookie(sess))

	if !wantsJSON {
		return c.Redirect(http.StatusSeeOther, ProductsPagePath)
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Message: "login successful", Token: token, User: user})
}

// APILogin exchanges credentials for an access token without starting a
// session.
//
// @Summary      Login (token)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/api_login [post]
func (h *AuthHandler) APILogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	token, user, err := h.authService.AuthenticateToken(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("token", loginResult(err)).Inc()
		return respondError(c, err)
	}
	metrics.LoginsTotal.WithLabelValues("token", "success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Message: "welcome, " + user.Username,
		Token:   token,
	})
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, userResponse{
		Message: fmt.Sprintf("user %s created", user.Username),
		User:    user,
	})
}

// UpdateRoles replaces the roles of a user.
//
// @Summary      Update user roles
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id    path      int                 true  "User ID"
// @Param        body  body      updateRolesRequest  true  "New role set"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /auth/users/{id}/roles [put]
func (h *AuthHandler) UpdateRoles(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req updateRolesRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := h.authService.UpdateRoles(c.Request().Context(), id, *req.Roles)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Protected greets any authenticated caller.
//
// @Summary      Protected endpoint
// @Tags         auth
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /auth/protected [get]
func (h *AuthHandler) Protected(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("hello, %s. this is a protected endpoint", displayName(id)),
	})
}

// AdminOnly greets administrators.
//
// @Summary      Admin-only endpoint
// @Tags         auth
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /auth/admin-only [get]
func (h *AuthHandler) AdminOnly(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("hello, %s. this endpoint is for administrators only", displayName(id)),
	})
}

// Logout drops the caller's session, if any, and sends the browser back to
// the login form.
//
// @Summary      Logout
// @Tags         auth
// @Success      303
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if ck, err := c.Cookie(h.cookie.Name); err == nil && ck.Value != "" {
		if err := h.authService.Logout(c.Request().Context(), ck.Value); err != nil {
			return err
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, LoginPath)
}

func (h *AuthHandler) sessionCookie(sess *domain.Session) *http.Cookie {
	maxAge := h.cookie.MaxAge
	if maxAge <= 0 {
		maxAge = time.Until(sess.ExpiresAt)
	}
	return &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func loginResult(err error) string {
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return "invalid_credentials"
	}
	return "error"
}
