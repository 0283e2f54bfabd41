package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/linkup-app/backend/internal/models"
	"github.com/linkup-app/backend/internal/services"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	auth *services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/confirm", h.ConfirmEmail)
	g.POST("/signin", h.SignIn)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)
}

// Register handles user registration and sends the confirmation mail
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.Register(req)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful. Check your email for the confirmation code.",
		"user":    user.Public(),
	})
}

// ConfirmEmail confirms a registered email with the emailed code
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	var req models.ConfirmEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.ConfirmEmail(req.Email, req.Code); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Email confirmed successfully. You can now log in."})
}

// SignIn authenticates a user and returns a JWT
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.auth.SignIn(req.Email, req.Password)
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// ForgotPassword starts the password-reset flow. The response does not
// reveal whether the email is registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req models.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.RequestPasswordReset(req.Email); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "If an account with that email exists, a password reset link has been sent.",
	})
}

// ResetPassword completes the password-reset flow with the emailed token
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.auth.ResetPassword(req.Email, req.Token, req.NewPassword); err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successful. You can now log in with your new password."})
}
