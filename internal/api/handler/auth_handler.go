package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/goldline/production-tracker/internal/api/metrics"
	"github.com/goldline/production-tracker/internal/core/domain"
	"github.com/goldline/production-tracker/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type pinLoginRequest struct {
	PIN string `json:"pin" validate:"required"`
}

// loginResponse is the user itself, plus a token when sessions are enabled.
type loginResponse struct {
	*domain.User
	Token string `json:"token,omitempty"`
}

// Login authenticates by username and password. The password field also
// accepts the user's PIN.
//
// @Summary      Login with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.LoginByPassword(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return loginFailure("password", err)
	}

	metrics.LoginsTotal.WithLabelValues("password", "ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{User: res.User, Token: res.Token})
}

// PinLogin authenticates with a PIN alone.
//
// @Summary      Login with a PIN
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      pinLoginRequest  true  "PIN"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/pin-login [post]
func (h *AuthHandler) PinLogin(c echo.Context) error {
	var req pinLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.authService.LoginByPIN(c.Request().Context(), req.PIN)
	if err != nil {
		return loginFailure("pin", err)
	}

	metrics.LoginsTotal.WithLabelValues("pin", "ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{User: res.User, Token: res.Token})
}

// loginFailure reports unknown users and wrong credentials as 400, the
// status existing clients expect from the login endpoints.
func loginFailure(method string, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		metrics.LoginsTotal.WithLabelValues(method, "rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "user not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues(method, "rejected").Inc()
		if method == "pin" {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid pin")
		}
		return echo.NewHTTPError(http.StatusBadRequest, "incorrect password")
	}
	metrics.LoginsTotal.WithLabelValues(method, "error").Inc()
	return err
}
