package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/neuroscan/scan-api/internal/api/metrics"
	"github.com/neuroscan/scan-api/internal/api/middleware"
	"github.com/neuroscan/scan-api/internal/core/domain"
	"github.com/neuroscan/scan-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type sessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    sessionUser `json:"user"`
}

type sessionResponse struct {
	Success bool        `json:"success"`
	User    sessionUser `json:"user"`
}

// Login exchanges a Google ID token for a local session token.
//
// @Summary      Sign in with a Google ID token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Google ID token"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.LoginWithIdentity(c.Request().Context(), req.Credential)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Token:   token,
		User:    toSessionUser(user),
	})
}

// Session returns the user for the presented bearer token. The session
// middleware has already resolved it into the request context.
//
// @Summary      Resolve the current session
// @Tags         auth
// @Produce      json
// @Param        Authorization  header    string  true  "Bearer session token"
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	user, ok := c.Get(middleware.UserContextKey).(*domain.User)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return c.JSON(http.StatusOK, sessionResponse{Success: true, User: toSessionUser(user)})
}

func toSessionUser(u *domain.User) sessionUser {
	return sessionUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
